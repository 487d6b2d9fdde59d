package usecase

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
)

const (
	stateTTL       = 10 * time.Minute
	stateKeyLength = 32
)

// stateSigner issues and verifies the OAuth state parameter as a short-lived HS256 JWT
type stateSigner struct {
	key []byte
	now func() time.Time
}

func newStateSigner(key []byte) (*stateSigner, error) {
	if len(key) == 0 {
		key = make([]byte, stateKeyLength)
		if _, err := rand.Read(key); err != nil {
			return nil, goerr.Wrap(err, "failed to generate state key")
		}
	}
	return &stateSigner{key: key, now: time.Now}, nil
}

func (s *stateSigner) issue() (string, error) {
	now := s.now()
	tok, err := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		IssuedAt(now).
		Expiration(now.Add(stateTTL)).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build state token")
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, s.key))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign state token")
	}
	return string(signed), nil
}

func (s *stateSigner) verify(state string) error {
	if state == "" {
		return goerr.Wrap(ErrInvalidState, "state is empty")
	}

	if _, err := jwt.Parse([]byte(state),
		jwt.WithKey(jwa.HS256, s.key),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(s.now)),
	); err != nil {
		return goerr.Wrap(ErrInvalidState, "state verification failed", goerr.V("cause", err.Error()))
	}
	return nil
}
