package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	domainConfig "github.com/secmon-lab/instanotion/pkg/domain/model/config"
	"github.com/secmon-lab/instanotion/pkg/service/notion"
	"github.com/urfave/cli/v3"
)

// Notion holds the task database connection settings
type Notion struct {
	apiKey     string
	databaseID string
	schemaPath string
}

func (x *Notion) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "notion-api-key",
			Usage:       "Notion integration token used for task records",
			Category:    "Notion",
			Sources:     cli.EnvVars("INSTANOTION_NOTION_API_KEY", "NOTION_API_KEY"),
			Destination: &x.apiKey,
		},
		&cli.StringFlag{
			Name:        "notion-database-id",
			Usage:       "ID of the Notion database that stores task records",
			Category:    "Notion",
			Sources:     cli.EnvVars("INSTANOTION_NOTION_DATABASE_ID", "DATABASE_ID"),
			Destination: &x.databaseID,
		},
		&cli.StringFlag{
			Name:        "notion-schema",
			Usage:       "Path to a TOML file describing property names and status labels of the task database",
			Category:    "Notion",
			Sources:     cli.EnvVars("INSTANOTION_NOTION_SCHEMA"),
			Destination: &x.schemaPath,
		},
	}
}

func (x Notion) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("api-key.len", len(x.apiKey)),
		slog.String("database-id", x.databaseID),
		slog.String("schema", x.schemaPath),
	)
}

// DatabaseID returns the task database ID
func (x *Notion) DatabaseID() string {
	return x.databaseID
}

// Validate checks that the API key and database ID are set
func (x *Notion) Validate() error {
	if x.apiKey == "" {
		return goerr.Wrap(ErrMissingRequired, "Notion API key is not set", goerr.V(OptionKey, "notion-api-key"))
	}
	if x.databaseID == "" {
		return goerr.Wrap(ErrMissingRequired, "Notion database ID is not set", goerr.V(OptionKey, "notion-database-id"))
	}
	return nil
}

// Schema returns the schema file content or the default schema when no file is given
func (x *Notion) Schema() (*domainConfig.TaskSchema, error) {
	if x.schemaPath == "" {
		return domainConfig.DefaultTaskSchema(), nil
	}
	return LoadTaskSchema(x.schemaPath)
}

// Configure validates settings and creates the Notion service with its schema
func (x *Notion) Configure() (notion.Service, *domainConfig.TaskSchema, error) {
	if err := x.Validate(); err != nil {
		return nil, nil, err
	}

	schema, err := x.Schema()
	if err != nil {
		return nil, nil, err
	}

	svc, err := notion.New(x.apiKey, notion.WithSchema(schema))
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize Notion service")
	}
	return svc, schema, nil
}
