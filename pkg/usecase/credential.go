package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/domain/interfaces"
	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/secmon-lab/instanotion/pkg/domain/types"
)

// CredentialUseCase reads stored Notion credentials
type CredentialUseCase struct {
	repo interfaces.Repository
}

func NewCredentialUseCase(repo interfaces.Repository) *CredentialUseCase {
	return &CredentialUseCase{repo: repo}
}

// List returns credentials, most recently updated first. A non-empty workspaceID narrows the result.
func (uc *CredentialUseCase) List(ctx context.Context, workspaceID string) ([]*model.Credential, error) {
	if workspaceID != "" {
		creds, err := uc.repo.Credential().ListByWorkspace(ctx, workspaceID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list credentials by workspace", goerr.V("workspace_id", workspaceID))
		}
		return creds, nil
	}

	creds, err := uc.repo.Credential().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list credentials")
	}
	return creds, nil
}

// Get returns the credential of one bot. A missing bot yields interfaces.ErrCredentialNotFound.
func (uc *CredentialUseCase) Get(ctx context.Context, botID types.BotID) (*model.Credential, error) {
	if botID == "" {
		return nil, goerr.New("bot ID is required")
	}
	cred, err := uc.repo.Credential().Get(ctx, botID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get credential", goerr.V("bot_id", botID))
	}
	return cred, nil
}
