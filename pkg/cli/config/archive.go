package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/service/archive"
	"github.com/secmon-lab/instanotion/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Archive holds the raw webhook archive settings
type Archive struct {
	bucket string
	prefix string
}

func (x *Archive) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "archive-bucket",
			Usage:       "Cloud Storage bucket that keeps raw webhook bodies (optional)",
			Category:    "Archive",
			Sources:     cli.EnvVars("INSTANOTION_ARCHIVE_BUCKET"),
			Destination: &x.bucket,
		},
		&cli.StringFlag{
			Name:        "archive-prefix",
			Usage:       "Object name prefix in the archive bucket",
			Category:    "Archive",
			Value:       "webhook",
			Sources:     cli.EnvVars("INSTANOTION_ARCHIVE_PREFIX"),
			Destination: &x.prefix,
		},
	}
}

func (x Archive) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("bucket", x.bucket),
		slog.String("prefix", x.prefix),
	)
}

// Configure creates the archive, or returns nil when no bucket is set
func (x *Archive) Configure(ctx context.Context) (archive.Service, error) {
	if x.bucket == "" {
		return nil, nil
	}

	svc, err := archive.New(ctx, x.bucket, archive.WithPrefix(x.prefix))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize webhook archive")
	}

	logging.Default().Info("Webhook archive enabled", "bucket", x.bucket, "prefix", x.prefix)
	return svc, nil
}
