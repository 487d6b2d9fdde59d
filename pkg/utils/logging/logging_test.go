package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/instanotion/pkg/utils/logging"
)

func TestFromFallsBackToDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logging.SetDefault(logger)

	gt.Value(t, logging.From(context.Background())).Equal(logger)

	logging.SetDefault(nil)
	gt.Value(t, logging.Default()).Equal(logger)
}

func TestWithAttachesLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil)).With("event_id", "ev-1")
	ctx := logging.With(context.Background(), logger)

	logging.From(ctx).Info("hello")
	gt.String(t, buf.String()).Contains("event_id=ev-1")
}
