package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/secmon-lab/instanotion/pkg/domain/model/config"
	"github.com/secmon-lab/instanotion/pkg/utils/logging"
)

// WebhookUseCase turns an Instagram notification into a task record
type WebhookUseCase struct {
	sender *SenderResolver
	task   *TaskUseCase
	schema *config.TaskSchema
}

func NewWebhookUseCase(sender *SenderResolver, task *TaskUseCase, schema *config.TaskSchema) *WebhookUseCase {
	if schema == nil {
		schema = config.DefaultTaskSchema()
	}
	return &WebhookUseCase{
		sender: sender,
		task:   task,
		schema: schema,
	}
}

// Handle processes the first qualifying message of the notification and ignores the rest.
// Nothing is called upstream when no message qualifies. The object type is checked by the caller.
func (uc *WebhookUseCase) Handle(ctx context.Context, payload *model.WebhookPayload) (model.HandleResult, error) {
	msg := payload.FirstMessage()
	if msg == nil {
		var entries int
		if payload != nil {
			entries = len(payload.Entry)
		}
		logging.From(ctx).Info("no message in webhook notification", "entries", entries)
		return model.HandleResultNoMessages, nil
	}

	if msg.SenderID == "" {
		return "", goerr.Wrap(ErrMissingSender, "qualifying message has no sender",
			goerr.V("entry_id", msg.EntryID), goerr.V("source", msg.Source))
	}

	logger := logging.From(ctx).With(
		"source", msg.Source,
		"entry_id", msg.EntryID,
		"sender_id", msg.SenderID,
		"message_id", msg.MessageID,
	)
	ctx = logging.With(ctx, logger)

	sender := uc.sender.Resolve(ctx, msg.SenderID)
	title := uc.schema.TaskTitle(sender.DisplayName())

	task, err := uc.task.Upsert(ctx, title, msg.Text)
	if err != nil {
		return "", goerr.Wrap(err, "failed to sync message into task", goerr.V(TitleKey, title))
	}

	logger.Info("message synced", PageIDKey, task.ID, TitleKey, title)
	return model.HandleResultSuccess, nil
}
