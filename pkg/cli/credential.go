package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/cli/config"
	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/secmon-lab/instanotion/pkg/domain/types"
	"github.com/secmon-lab/instanotion/pkg/usecase"
	"github.com/secmon-lab/instanotion/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdCredential() *cli.Command {
	return &cli.Command{
		Name:  "credential",
		Usage: "Inspect Notion OAuth credentials",
		Commands: []*cli.Command{
			cmdCredentialList(),
			cmdCredentialGet(),
		},
	}
}

func cmdCredentialList() *cli.Command {
	var repoCfg config.Repository
	var workspaceID string

	flags := append(repoCfg.Flags(), &cli.StringFlag{
		Name:        "workspace-id",
		Usage:       "Show only credentials of this Notion workspace",
		Destination: &workspaceID,
	})

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List stored credentials with masked tokens",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			creds, err := usecase.NewCredentialUseCase(repo).List(ctx, workspaceID)
			if err != nil {
				return err
			}

			return printCredentials(os.Stdout, creds)
		},
	}
}

func cmdCredentialGet() *cli.Command {
	var repoCfg config.Repository

	return &cli.Command{
		Name:      "get",
		Usage:     "Show the stored credential of one bot with a masked token",
		ArgsUsage: "<bot-id>",
		Flags:     repoCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.New("exactly one bot ID is required")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			cred, err := usecase.NewCredentialUseCase(repo).Get(ctx, types.BotID(c.Args().First()))
			if err != nil {
				return err
			}

			return printCredentials(os.Stdout, []*model.Credential{cred})
		},
	}
}

func printCredentials(w io.Writer, creds []*model.Credential) error {
	if len(creds) == 0 {
		_, err := fmt.Fprintln(w, color.New(color.FgYellow).Sprint("No credentials found"))
		return err
	}

	header := color.New(color.Bold).SprintFunc()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		header("BOT ID"), header("WORKSPACE ID"), header("WORKSPACE"), header("TOKEN"), header("UPDATED AT"))
	for _, cred := range creds {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			cred.BotID,
			cred.WorkspaceID,
			cred.WorkspaceName,
			cred.MaskedToken(),
			cred.UpdatedAt.Format(time.RFC3339),
		)
	}
	return tw.Flush()
}
