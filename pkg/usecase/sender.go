package usecase

import (
	"context"

	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/secmon-lab/instanotion/pkg/service/instagram"
	"github.com/secmon-lab/instanotion/pkg/utils/logging"
)

// SenderResolver turns an Instagram-scoped user ID into a display identity
type SenderResolver struct {
	instagram instagram.Service
}

func NewSenderResolver(svc instagram.Service) *SenderResolver {
	return &SenderResolver{instagram: svc}
}

// Resolve looks up the sender profile once. Any failure yields a Sender carrying only the ID.
func (r *SenderResolver) Resolve(ctx context.Context, senderID string) *model.Sender {
	fallback := &model.Sender{ID: senderID}
	if r.instagram == nil {
		return fallback
	}

	sender, err := r.instagram.GetUser(ctx, senderID)
	if err != nil {
		logging.From(ctx).Warn("failed to resolve Instagram sender, using raw ID",
			"sender_id", senderID,
			"error", err.Error(),
		)
		return fallback
	}
	if sender == nil {
		return fallback
	}

	sender.ID = senderID
	return sender
}
