package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/domain/types"
)

// Credential is the result of a Notion OAuth authorization, keyed by bot ID
type Credential struct {
	BotID         types.BotID `json:"bot_id"`
	AccessToken   string      `json:"access_token" masq:"secret"`
	WorkspaceID   string      `json:"workspace_id"`
	WorkspaceName string      `json:"workspace_name"`
	WorkspaceIcon string      `json:"workspace_icon"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Validate checks required fields
func (c *Credential) Validate() error {
	if c == nil {
		return goerr.New("credential is nil")
	}
	if c.BotID == "" {
		return goerr.New("bot ID is required")
	}
	if c.AccessToken == "" {
		return goerr.New("access token is required", goerr.V("bot_id", c.BotID))
	}
	return nil
}

// MaskedToken returns the access token with all but the last four characters hidden
func (c *Credential) MaskedToken() string {
	const visible = 4
	if len(c.AccessToken) <= visible {
		return "****"
	}
	return "****" + c.AccessToken[len(c.AccessToken)-visible:]
}
