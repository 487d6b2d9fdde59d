package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/service/instagram"
	"github.com/secmon-lab/instanotion/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Instagram holds Graph API and webhook settings
type Instagram struct {
	accessToken string
	verifyToken string
	appSecret   string
}

func (x *Instagram) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "instagram-access-token",
			Usage:       "Instagram Graph API access token used to look up sender profiles",
			Category:    "Instagram",
			Sources:     cli.EnvVars("INSTANOTION_INSTAGRAM_ACCESS_TOKEN", "INSTAGRAM_ACCESS_TOKEN"),
			Destination: &x.accessToken,
		},
		&cli.StringFlag{
			Name:        "instagram-verify-token",
			Usage:       "Secret compared with hub.verify_token during webhook subscription",
			Category:    "Instagram",
			Sources:     cli.EnvVars("INSTANOTION_INSTAGRAM_VERIFY_TOKEN", "INSTAGRAM_API_VERIFY_TOKEN"),
			Destination: &x.verifyToken,
		},
		&cli.StringFlag{
			Name:        "instagram-app-secret",
			Usage:       "App secret for X-Hub-Signature-256 verification (optional)",
			Category:    "Instagram",
			Sources:     cli.EnvVars("INSTANOTION_INSTAGRAM_APP_SECRET"),
			Destination: &x.appSecret,
		},
	}
}

func (x Instagram) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("access-token.len", len(x.accessToken)),
		slog.Int("verify-token.len", len(x.verifyToken)),
		slog.Int("app-secret.len", len(x.appSecret)),
	)
}

// VerifyToken returns the webhook subscription secret
func (x *Instagram) VerifyToken() string {
	return x.verifyToken
}

// AppSecret returns the webhook signing secret, empty when signatures are not checked
func (x *Instagram) AppSecret() string {
	return x.appSecret
}

// ValidateWebhook checks the settings required to receive webhooks
func (x *Instagram) ValidateWebhook() error {
	if x.verifyToken == "" {
		return goerr.Wrap(ErrMissingRequired, "Instagram verify token is not set", goerr.V(OptionKey, "instagram-verify-token"))
	}
	return nil
}

// Configure creates the Graph API service. Without an access token every lookup falls back
// to the raw sender ID.
func (x *Instagram) Configure() instagram.Service {
	if x.accessToken == "" {
		logging.Default().Warn("Instagram access token is not set, task titles will use raw sender IDs")
	}
	return instagram.New(x.accessToken)
}
