package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound  = goerr.New("configuration file not found")
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrMissingRequired = goerr.New("required option is missing")
	ErrPartialConfig   = goerr.New("options must be set together")
	ErrInvalidBackend  = goerr.New("invalid repository backend")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	OptionKey     = "option"
)
