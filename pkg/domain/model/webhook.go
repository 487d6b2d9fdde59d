package model

import (
	"github.com/secmon-lab/instanotion/pkg/domain/types"
)

// MessagesField is the change field name carrying direct messages
const MessagesField = "messages"

// WebhookPayload is the body of an Instagram webhook notification
type WebhookPayload struct {
	Object types.ObjectType `json:"object"`
	Entry  []WebhookEntry   `json:"entry"`
}

// WebhookEntry is one notification unit, corresponding to one conversation thread.
// It carries either Changes or Messaging depending on the subscription type.
type WebhookEntry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Changes   []WebhookChange  `json:"changes,omitempty"`
	Messaging []MessagingEvent `json:"messaging,omitempty"`
}

// WebhookChange is a field-level change notification
type WebhookChange struct {
	Field string         `json:"field"`
	Value MessagingEvent `json:"value"`
}

// MessagingEvent is a single message delivery
type MessagingEvent struct {
	Sender    Participant  `json:"sender"`
	Recipient Participant  `json:"recipient"`
	Timestamp int64        `json:"timestamp"`
	Message   *MessageBody `json:"message,omitempty"`
}

type Participant struct {
	ID string `json:"id"`
}

type MessageBody struct {
	MID  string `json:"mid"`
	Text string `json:"text"`
}

// IncomingMessage is the canonical form of a qualifying message, independent of the
// payload shape it was read from.
type IncomingMessage struct {
	Source      types.MessageSource
	EntryID     string
	SenderID    string
	RecipientID string
	Timestamp   int64
	MessageID   string
	Text        string
}

func newIncomingMessage(src types.MessageSource, entryID string, ev MessagingEvent) *IncomingMessage {
	msg := &IncomingMessage{
		Source:      src,
		EntryID:     entryID,
		SenderID:    ev.Sender.ID,
		RecipientID: ev.Recipient.ID,
		Timestamp:   ev.Timestamp,
	}
	if ev.Message != nil {
		msg.MessageID = ev.Message.MID
		msg.Text = ev.Message.Text
	}
	return msg
}

// FirstMessage returns the first qualifying message across all entries, or nil.
// Within an entry, a "messages" change wins over a messaging event.
func (p *WebhookPayload) FirstMessage() *IncomingMessage {
	if p == nil {
		return nil
	}

	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			if change.Field == MessagesField {
				return newIncomingMessage(types.MessageSourceChange, entry.ID, change.Value)
			}
		}

		if len(entry.Messaging) > 0 {
			return newIncomingMessage(types.MessageSourceMessaging, entry.ID, entry.Messaging[0])
		}
	}

	return nil
}
