package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/secmon-lab/instanotion/pkg/cli/config"
	httpctrl "github.com/secmon-lab/instanotion/pkg/controller/http"
	"github.com/secmon-lab/instanotion/pkg/usecase"
	"github.com/secmon-lab/instanotion/pkg/utils/logging"
	"github.com/secmon-lab/instanotion/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func cmdServe() *cli.Command {
	var serverCfg config.Server
	var notionCfg config.Notion
	var instagramCfg config.Instagram
	var oauthCfg config.NotionOAuth
	var repoCfg config.Repository
	var slackCfg config.Slack
	var archiveCfg config.Archive

	var flags []cli.Flag
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, notionCfg.Flags()...)
	flags = append(flags, instagramCfg.Flags()...)
	flags = append(flags, oauthCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, archiveCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server receiving Instagram webhooks",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("Serve configuration",
				"server", serverCfg,
				"notion", notionCfg,
				"instagram", instagramCfg,
				"oauth", oauthCfg,
				"repository", repoCfg,
				"slack", slackCfg,
				"archive", archiveCfg,
			)

			if err := instagramCfg.ValidateWebhook(); err != nil {
				return err
			}

			notionSvc, schema, err := notionCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Notion")
			}

			oauthSvc, err := oauthCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Notion OAuth")
			}

			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack")
			}

			ucOpts := []usecase.Option{usecase.WithSchema(schema)}
			if slackSvc != nil {
				ucOpts = append(ucOpts, usecase.WithSlackNotifier(slackSvc, slackCfg.Channel()))
				logging.Default().Info("Slack notification enabled", "channel", slackCfg.Channel())
			}

			if oauthSvc != nil {
				repo, err := repoCfg.Configure(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize repository")
				}
				defer safe.Close(ctx, repo)

				ucOpts = append(ucOpts,
					usecase.WithRepository(repo),
					usecase.WithOAuth(oauthSvc, oauthCfg.StateKey()),
				)
				if oauthCfg.StateKey() == nil {
					logging.Default().Warn("OAuth state secret is not set, using a per-process random key")
				}
			} else {
				logging.Default().Info("Notion OAuth not configured, OAuth routes are disabled")
			}

			uc, err := usecase.New(notionSvc, instagramCfg.Configure(), notionCfg.DatabaseID(), ucOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize use cases")
			}

			var httpOpts []httpctrl.Options
			if secret := instagramCfg.AppSecret(); secret != "" {
				httpOpts = append(httpOpts, httpctrl.WithAppSecret(secret))
			} else {
				logging.Default().Warn("Instagram app secret is not set, webhook signatures are not verified")
			}
			if uc.OAuth != nil {
				httpOpts = append(httpOpts, httpctrl.WithOAuth(uc.OAuth))
			}

			archiveSvc, err := archiveCfg.Configure(ctx)
			if err != nil {
				return err
			}
			if archiveSvc != nil {
				defer safe.Close(ctx, archiveSvc)
				httpOpts = append(httpOpts, httpctrl.WithArchive(archiveSvc))
			}

			server := &http.Server{
				Addr:              serverCfg.Addr(),
				Handler:           httpctrl.New(uc.Webhook, instagramCfg.VerifyToken(), httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			return runServer(ctx, server)
		},
	}
}

// runServer serves until SIGINT/SIGTERM or a listener failure, then shuts down gracefully
func runServer(ctx context.Context, server *http.Server) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logging.Default().Info("Starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return goerr.Wrap(err, "failed to start server", goerr.V("addr", server.Addr))
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		logging.Default().Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return goerr.Wrap(err, "failed to shutdown server gracefully")
		}
		logging.Default().Info("Server shutdown completed")
		return nil
	})

	return eg.Wait()
}
