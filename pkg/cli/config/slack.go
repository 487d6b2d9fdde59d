package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds the new-task notification settings
type Slack struct {
	botToken string
	channel  string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token for new task notifications",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("INSTANOTION_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID that receives new task notifications",
			Category:    "Slack",
			Destination: &x.channel,
			Sources:     cli.EnvVars("INSTANOTION_SLACK_CHANNEL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channel),
	)
}

// Channel returns the notification channel ID
func (x *Slack) Channel() string {
	return x.channel
}

// Configure creates the Slack service, or returns nil when notifications are disabled
func (x *Slack) Configure() (slack.Service, error) {
	if x.botToken == "" && x.channel == "" {
		return nil, nil
	}
	if x.botToken == "" || x.channel == "" {
		return nil, goerr.Wrap(ErrPartialConfig, "slack-bot-token and slack-channel must be set together")
	}

	svc, err := slack.New(x.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize Slack service")
	}
	return svc, nil
}
