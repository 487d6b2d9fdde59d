package notion

import (
	"context"

	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/secmon-lab/instanotion/pkg/domain/types"
)

// Service provides task record access to a Notion database
type Service interface {
	// QueryTasks returns pages of the database whose title and status match, most recently
	// edited first. Matching is done by Notion; callers should not rely on it being exact.
	QueryTasks(ctx context.Context, dbID string, title string, status types.TaskStatus) ([]*model.Task, error)

	// CreateTask creates a page in the database
	CreateTask(ctx context.Context, dbID string, input *TaskInput) (*model.Task, error)

	// UpdateTaskDescription replaces the description of a page, leaving other properties as is
	UpdateTaskDescription(ctx context.Context, pageID string, description string) (*model.Task, error)
}

// TaskInput holds the properties of a new task page
type TaskInput struct {
	Title       string
	Description string
	Status      types.TaskStatus
}

// OAuthService performs the Notion public integration authorization flow
type OAuthService interface {
	// AuthorizeURL returns the URL the user is redirected to for consent
	AuthorizeURL(state string) string

	// ExchangeCode trades an authorization code for a bot access token
	ExchangeCode(ctx context.Context, code string) (*model.Credential, error)
}
