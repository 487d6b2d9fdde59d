package interfaces

import (
	"context"
	"errors"

	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/secmon-lab/instanotion/pkg/domain/types"
)

// ErrCredentialNotFound is returned by CredentialRepository.Get when no credential has the bot ID
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository stores Notion OAuth credentials keyed by bot ID
type CredentialRepository interface {
	// Put upserts a credential. CreatedAt of an existing record is preserved.
	Put(ctx context.Context, cred *model.Credential) error

	// Get retrieves a credential by bot ID. Returns ErrCredentialNotFound if missing.
	Get(ctx context.Context, botID types.BotID) (*model.Credential, error)

	// List retrieves all credentials ordered by UpdatedAt descending
	List(ctx context.Context) ([]*model.Credential, error)

	// ListByWorkspace retrieves credentials of one workspace ordered by UpdatedAt descending
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*model.Credential, error)
}
