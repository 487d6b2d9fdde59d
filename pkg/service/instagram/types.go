package instagram

import (
	"context"

	"github.com/secmon-lab/instanotion/pkg/domain/model"
)

// Service provides access to the Instagram Graph API
type Service interface {
	// GetUser reads the username and profile name of an Instagram-scoped user ID
	GetUser(ctx context.Context, userID string) (*model.Sender, error)
}
