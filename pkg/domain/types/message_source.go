package types

// MessageSource tells which payload shape an incoming message was read from
type MessageSource string

const (
	// MessageSourceChange is an entry.changes[] item with field "messages"
	MessageSourceChange MessageSource = "changes"
	// MessageSourceMessaging is an entry.messaging[] event
	MessageSourceMessaging MessageSource = "messaging"
)

func (s MessageSource) String() string {
	return string(s)
}

// ObjectType is the "object" of an inbound webhook notification
type ObjectType string

const (
	ObjectTypeInstagram ObjectType = "instagram"
)

// BotID identifies an OAuth-authorized Notion integration inside a workspace
type BotID string

func (id BotID) String() string {
	return string(id)
}
