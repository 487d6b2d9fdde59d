package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/instanotion/pkg/cli/config"
	domainConfig "github.com/secmon-lab/instanotion/pkg/domain/model/config"
	"github.com/secmon-lab/instanotion/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadTaskSchema(t *testing.T) {
	t.Run("full schema", func(t *testing.T) {
		path := writeFile(t, `
[properties]
title = "名前"
description = "説明"
status = "状態"
status_type = "status"

[status]
not_started = "未着手"
in_progress = "進行中"
completed = "完了"

[page]
icon = "📩"
title_suffix = " さんの返信"
`)
		schema, err := config.LoadTaskSchema(path)
		gt.NoError(t, err).Required()
		gt.Value(t, schema.Properties.Title).Equal("名前")
		gt.Value(t, schema.Properties.Status).Equal("状態")
		gt.Value(t, schema.Properties.StatusType).Equal(domainConfig.StatusTypeStatus)
		gt.Value(t, schema.Label(types.TaskStatusInProgress)).Equal("進行中")
		gt.Value(t, schema.Page.Icon).Equal("📩")
		gt.Value(t, schema.TaskTitle("alice")).Equal("alice さんの返信")
	})

	t.Run("omitted keys take defaults", func(t *testing.T) {
		path := writeFile(t, `
[status]
completed = "Closed"
`)
		schema, err := config.LoadTaskSchema(path)
		gt.NoError(t, err).Required()
		gt.Value(t, schema.Properties.Title).Equal("Name")
		gt.Value(t, schema.Properties.StatusType).Equal(domainConfig.StatusTypeSelect)
		gt.Value(t, schema.Label(types.TaskStatusNotStarted)).Equal("Not started")
		gt.Value(t, schema.Label(types.TaskStatusCompleted)).Equal("Closed")
		gt.Value(t, schema.Page.Icon).Equal("")
		gt.Value(t, schema.Page.TitleSuffix).Equal(" replies")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadTaskSchema(filepath.Join(t.TempDir(), "nope.toml"))
		gt.Error(t, err).Is(config.ErrConfigNotFound)
	})

	t.Run("unknown status type", func(t *testing.T) {
		path := writeFile(t, `
[properties]
status_type = "checkbox"
`)
		_, err := config.LoadTaskSchema(path)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("broken TOML", func(t *testing.T) {
		path := writeFile(t, `[properties`)
		_, err := config.LoadTaskSchema(path)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("duplicated status labels", func(t *testing.T) {
		path := writeFile(t, `
[status]
not_started = "Open"
in_progress = "Open"
`)
		_, err := config.LoadTaskSchema(path)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

func TestNotionValidate(t *testing.T) {
	gt.Error(t, config.NewNotionForTest("", "db", "").Validate()).Is(config.ErrMissingRequired)
	gt.Error(t, config.NewNotionForTest("key", "", "").Validate()).Is(config.ErrMissingRequired)
	gt.NoError(t, config.NewNotionForTest("key", "db", "").Validate())
}

func TestNotionSchemaDefault(t *testing.T) {
	schema, err := config.NewNotionForTest("key", "db", "").Schema()
	gt.NoError(t, err).Required()
	gt.Value(t, schema.Page.Icon).Equal("😀")
	gt.Value(t, schema.Properties.Description).Equal("Description")
}

func TestNotionConfigure(t *testing.T) {
	svc, schema, err := config.NewNotionForTest("key", "db", "").Configure()
	gt.NoError(t, err).Required()
	gt.Value(t, svc).NotNil()
	gt.Value(t, schema).NotNil()

	_, _, err = config.NewNotionForTest("", "db", "").Configure()
	gt.Error(t, err).Is(config.ErrMissingRequired)
}

func TestNotionOAuthIsConfigured(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.NotionOAuth
		want    bool
		wantErr bool
	}{
		{name: "none", cfg: config.NewNotionOAuthForTest("", "", "", ""), want: false},
		{name: "all", cfg: config.NewNotionOAuthForTest("id", "secret", "https://example.com/cb", ""), want: true},
		{name: "missing secret", cfg: config.NewNotionOAuthForTest("id", "", "https://example.com/cb", ""), wantErr: true},
		{name: "only redirect", cfg: config.NewNotionOAuthForTest("", "", "https://example.com/cb", ""), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.IsConfigured()
			if tt.wantErr {
				gt.Error(t, err).Is(config.ErrPartialConfig)
				return
			}
			gt.NoError(t, err)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestNotionOAuthConfigure(t *testing.T) {
	svc, err := config.NewNotionOAuthForTest("", "", "", "").Configure()
	gt.NoError(t, err)
	gt.Value(t, svc).Nil()

	svc, err = config.NewNotionOAuthForTest("id", "secret", "https://example.com/cb", "").Configure()
	gt.NoError(t, err).Required()
	gt.Value(t, svc).NotNil()
}

func TestNotionOAuthStateKey(t *testing.T) {
	gt.Value(t, config.NewNotionOAuthForTest("", "", "", "").StateKey()).Nil()
	gt.Value(t, string(config.NewNotionOAuthForTest("", "", "", "k3y").StateKey())).Equal("k3y")
}

func TestSlackConfigure(t *testing.T) {
	svc, err := config.NewSlackForTest("", "").Configure()
	gt.NoError(t, err)
	gt.Value(t, svc).Nil()

	_, err = config.NewSlackForTest("xoxb-token", "").Configure()
	gt.Error(t, err).Is(config.ErrPartialConfig)

	_, err = config.NewSlackForTest("", "C0123").Configure()
	gt.Error(t, err).Is(config.ErrPartialConfig)

	svc, err = config.NewSlackForTest("xoxb-token", "C0123").Configure()
	gt.NoError(t, err).Required()
	gt.Value(t, svc).NotNil()
}

func TestServerAddr(t *testing.T) {
	gt.Value(t, config.NewServerForTest("", 0).Addr()).Equal(":3000")
	gt.Value(t, config.NewServerForTest("", 8080).Addr()).Equal(":8080")
	gt.Value(t, config.NewServerForTest("127.0.0.1:9000", 8080).Addr()).Equal("127.0.0.1:9000")
}

func TestRepositoryBackendDefaultsToFirestore(t *testing.T) {
	var repo config.Repository
	cmd := &cli.Command{
		Name:   "test",
		Flags:  repo.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error { return nil },
	}
	gt.NoError(t, cmd.Run(context.Background(), []string{"test"})).Required()
	gt.Value(t, repo.Backend()).Equal("firestore")

	_, err := repo.Configure(context.Background())
	gt.Error(t, err).Is(config.ErrMissingRequired)
}

func TestRepositoryConfigure(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		repo, err := config.NewRepositoryForTest("memory", "").Configure(ctx)
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Close())
	})

	t.Run("firestore without project", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("firestore", "").Configure(ctx)
		gt.Error(t, err).Is(config.ErrMissingRequired)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("postgres", "").Configure(ctx)
		gt.Error(t, err).Is(config.ErrInvalidBackend)
	})
}
