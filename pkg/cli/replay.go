package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/cli/config"
	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/secmon-lab/instanotion/pkg/domain/types"
	"github.com/secmon-lab/instanotion/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// webhookHandler is the part of the dispatcher replay needs
type webhookHandler interface {
	Handle(ctx context.Context, payload *model.WebhookPayload) (model.HandleResult, error)
}

func cmdReplay() *cli.Command {
	var notionCfg config.Notion
	var instagramCfg config.Instagram
	var slackCfg config.Slack

	var flags []cli.Flag
	flags = append(flags, notionCfg.Flags()...)
	flags = append(flags, instagramCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:      "replay",
		Aliases:   []string{"r"},
		Usage:     "Run webhook payload files through the dispatcher against the configured Notion database",
		ArgsUsage: "<payload.json>...",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			files := c.Args().Slice()
			if len(files) == 0 {
				return goerr.New("at least one payload file is required")
			}

			notionSvc, schema, err := notionCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Notion")
			}
			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack")
			}

			ucOpts := []usecase.Option{usecase.WithSchema(schema)}
			if slackSvc != nil {
				ucOpts = append(ucOpts, usecase.WithSlackNotifier(slackSvc, slackCfg.Channel()))
			}

			uc, err := usecase.New(notionSvc, instagramCfg.Configure(), notionCfg.DatabaseID(), ucOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize use cases")
			}

			return replayFiles(ctx, os.Stdout, uc.Webhook, files)
		},
	}
}

// replayFiles dispatches every file and reports each outcome. It keeps going after a
// failure and returns an error when any file failed.
func replayFiles(ctx context.Context, w io.Writer, handler webhookHandler, files []string) error {
	okMark := color.New(color.FgGreen, color.Bold).SprintFunc()
	skipMark := color.New(color.FgYellow, color.Bold).SprintFunc()
	failMark := color.New(color.FgRed, color.Bold).SprintFunc()

	var failed int
	for _, path := range files {
		result, err := replayFile(ctx, handler, path)
		switch {
		case err != nil:
			failed++
			_, _ = fmt.Fprintf(w, "%s %s: %v\n", failMark("FAIL"), path, err)
		case result == model.HandleResultNoMessages:
			_, _ = fmt.Fprintf(w, "%s %s: %s\n", skipMark("SKIP"), path, result)
		default:
			_, _ = fmt.Fprintf(w, "%s %s: %s\n", okMark("OK"), path, result)
		}
	}

	if failed > 0 {
		return goerr.New("replay failed", goerr.V("failed", failed), goerr.V("total", len(files)))
	}
	return nil
}

func replayFile(ctx context.Context, handler webhookHandler, path string) (model.HandleResult, error) {
	// #nosec G304 - path is given as a CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read payload file", goerr.V("path", path))
	}

	var payload model.WebhookPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", goerr.Wrap(err, "failed to parse payload", goerr.V("path", path))
	}
	if payload.Object != types.ObjectTypeInstagram {
		return "", goerr.New("webhook object is not instagram", goerr.V("path", path), goerr.V("object", payload.Object))
	}

	return handler.Handle(ctx, &payload)
}
