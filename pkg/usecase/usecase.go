package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/domain/interfaces"
	"github.com/secmon-lab/instanotion/pkg/domain/model/config"
	"github.com/secmon-lab/instanotion/pkg/service/instagram"
	"github.com/secmon-lab/instanotion/pkg/service/notion"
	slacksvc "github.com/secmon-lab/instanotion/pkg/service/slack"
)

type UseCases struct {
	schema       *config.TaskSchema
	slackService slacksvc.Service
	slackChannel string
	oauthService notion.OAuthService
	stateKey     []byte
	repo         interfaces.Repository

	Sender     *SenderResolver
	Task       *TaskUseCase
	Webhook    *WebhookUseCase
	OAuth      *OAuthUseCase // nil unless Notion OAuth is configured
	Credential *CredentialUseCase
}

type Option func(*UseCases)

// WithSchema sets the Notion task database schema
func WithSchema(schema *config.TaskSchema) Option {
	return func(uc *UseCases) {
		uc.schema = schema
	}
}

// WithSlackNotifier enables a message to channelID for every newly created task
func WithSlackNotifier(svc slacksvc.Service, channelID string) Option {
	return func(uc *UseCases) {
		uc.slackService = svc
		uc.slackChannel = channelID
	}
}

// WithOAuth enables the Notion OAuth flow. stateKey signs the OAuth state; a random key is
// generated when it is empty. Credentials are saved into the repository.
func WithOAuth(svc notion.OAuthService, stateKey []byte) Option {
	return func(uc *UseCases) {
		uc.oauthService = svc
		uc.stateKey = stateKey
	}
}

// WithRepository sets the credential repository
func WithRepository(repo interfaces.Repository) Option {
	return func(uc *UseCases) {
		uc.repo = repo
	}
}

// New wires use cases around the Notion task database identified by dbID
func New(notionService notion.Service, instagramService instagram.Service, dbID string, opts ...Option) (*UseCases, error) {
	uc := &UseCases{
		schema: config.DefaultTaskSchema(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	var taskOpts []TaskOption
	if uc.slackService != nil && uc.slackChannel != "" {
		taskOpts = append(taskOpts, WithTaskNotifier(uc.slackService, uc.slackChannel))
	}

	uc.Sender = NewSenderResolver(instagramService)
	uc.Task = NewTaskUseCase(notionService, dbID, taskOpts...)
	uc.Webhook = NewWebhookUseCase(uc.Sender, uc.Task, uc.schema)
	if uc.repo != nil {
		uc.Credential = NewCredentialUseCase(uc.repo)
		if uc.oauthService != nil {
			oauthUC, err := NewOAuthUseCase(uc.oauthService, uc.repo, uc.stateKey)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to set up OAuth")
			}
			uc.OAuth = oauthUC
		}
	}

	return uc, nil
}
