package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/instanotion/pkg/domain/model/config"
)

// LoadTaskSchema loads the Notion task database schema from a TOML file. Omitted keys take
// the default values, except page.icon which stays empty when omitted.
func LoadTaskSchema(path string) (*domainConfig.TaskSchema, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "schema file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read schema file", goerr.V(ConfigPathKey, path))
	}

	var schema domainConfig.TaskSchema
	if err := toml.Unmarshal(data, &schema); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML schema", goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	schema.MergeDefaults()
	if err := schema.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "schema validation failed", goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	return &schema, nil
}
