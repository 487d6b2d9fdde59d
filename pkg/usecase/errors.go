package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// ErrMissingSender is returned for a qualifying message without a sender ID
	ErrMissingSender = errors.New("message has no sender ID")

	// OAuth errors
	ErrInvalidState = errors.New("invalid OAuth state")
	ErrMissingCode  = errors.New("missing authorization code")
)

// Context keys for error values
const (
	TitleKey  = "title"
	PageIDKey = "page_id"
	BotIDKey  = "bot_id"
)
