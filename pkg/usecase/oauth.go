package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/domain/interfaces"
	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/secmon-lab/instanotion/pkg/service/notion"
	"github.com/secmon-lab/instanotion/pkg/utils/logging"
)

// OAuthUseCase runs the Notion public integration authorization and stores its result
type OAuthUseCase struct {
	oauth notion.OAuthService
	repo  interfaces.Repository
	state *stateSigner
}

func NewOAuthUseCase(svc notion.OAuthService, repo interfaces.Repository, stateKey []byte) (*OAuthUseCase, error) {
	signer, err := newStateSigner(stateKey)
	if err != nil {
		return nil, err
	}
	return &OAuthUseCase{
		oauth: svc,
		repo:  repo,
		state: signer,
	}, nil
}

// Login returns the Notion consent URL and the state embedded in it
func (uc *OAuthUseCase) Login(ctx context.Context) (authURL string, state string, err error) {
	state, err = uc.state.issue()
	if err != nil {
		return "", "", err
	}
	return uc.oauth.AuthorizeURL(state), state, nil
}

// Callback verifies state, exchanges code and upserts the credential keyed by bot ID
func (uc *OAuthUseCase) Callback(ctx context.Context, code, state string) (*model.Credential, error) {
	if err := uc.state.verify(state); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, goerr.Wrap(ErrMissingCode, "callback has no code")
	}

	cred, err := uc.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to exchange authorization code")
	}
	if err := cred.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid credential from token exchange")
	}

	if err := uc.repo.Credential().Put(ctx, cred); err != nil {
		return nil, goerr.Wrap(err, "failed to save credential", goerr.V(BotIDKey, cred.BotID))
	}

	logging.From(ctx).Info("Notion credential saved",
		BotIDKey, cred.BotID,
		"workspace_id", cred.WorkspaceID,
		"workspace_name", cred.WorkspaceName,
	)
	return cred, nil
}
