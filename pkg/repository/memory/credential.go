package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/domain/interfaces"
	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/secmon-lab/instanotion/pkg/domain/types"
)

type credentialRepository struct {
	mu          sync.RWMutex
	credentials map[types.BotID]*model.Credential
}

var _ interfaces.CredentialRepository = &credentialRepository{}

func newCredentialRepository() *credentialRepository {
	return &credentialRepository{
		credentials: make(map[types.BotID]*model.Credential),
	}
}

func (r *credentialRepository) Put(ctx context.Context, cred *model.Credential) error {
	if err := cred.Validate(); err != nil {
		return goerr.Wrap(err, "invalid credential")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *cred
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now()
	}
	if prev, ok := r.credentials[cred.BotID]; ok && !prev.CreatedAt.IsZero() {
		stored.CreatedAt = prev.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = stored.UpdatedAt
	}

	r.credentials[cred.BotID] = &stored
	return nil
}

func (r *credentialRepository) Get(ctx context.Context, botID types.BotID) (*model.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cred, ok := r.credentials[botID]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrCredentialNotFound, "credential not found", goerr.V("bot_id", botID))
	}

	copied := *cred
	return &copied, nil
}

func (r *credentialRepository) List(ctx context.Context) ([]*model.Credential, error) {
	return r.filter(func(*model.Credential) bool { return true }), nil
}

func (r *credentialRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]*model.Credential, error) {
	return r.filter(func(c *model.Credential) bool { return c.WorkspaceID == workspaceID }), nil
}

func (r *credentialRepository) filter(pred func(*model.Credential) bool) []*model.Credential {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Credential, 0, len(r.credentials))
	for _, cred := range r.credentials {
		if pred(cred) {
			copied := *cred
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result
}
