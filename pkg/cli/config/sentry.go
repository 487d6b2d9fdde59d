package config

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

type Sentry struct {
	dsn     string
	env     string
	release string
}

func (x *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Category:    "Sentry",
			Usage:       "Sentry DSN for error reporting",
			Sources:     cli.EnvVars("INSTANOTION_SENTRY_DSN"),
			Destination: &x.dsn,
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Category:    "Sentry",
			Usage:       "Sentry environment",
			Sources:     cli.EnvVars("INSTANOTION_SENTRY_ENV"),
			Destination: &x.env,
		},
		&cli.StringFlag{
			Name:        "sentry-release",
			Category:    "Sentry",
			Usage:       "Sentry release",
			Sources:     cli.EnvVars("INSTANOTION_SENTRY_RELEASE"),
			Destination: &x.release,
		},
	}
}

func (x Sentry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("dsn.len", len(x.dsn)),
		slog.String("env", x.env),
		slog.String("release", x.release),
	)
}

// IsEnabled reports whether a DSN is configured
func (x *Sentry) IsEnabled() bool {
	return x.dsn != ""
}

// Configure initializes the Sentry client. Without a DSN it does nothing. The returned
// function flushes buffered events.
func (x *Sentry) Configure() (func(), error) {
	if !x.IsEnabled() {
		return func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         x.dsn,
		Environment: x.env,
		Release:     x.release,
	}); err != nil {
		return func() {}, goerr.Wrap(err, "failed to initialize Sentry")
	}

	logging.Default().Info("Sentry enabled", "env", x.env, "release", x.release)
	return func() {
		sentry.Flush(2 * time.Second)
	}, nil
}
