package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound  = goerr.New("configuration file not found")
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrInvalidBackend  = goerr.New("invalid backend")
	ErrMissingSetting  = goerr.New("required setting is missing")
	ErrInvalidLogLevel = goerr.New("invalid log level")
)

// Context keys for error values
const (
	ConfigPathKey     = "config_path"
	GuidewordIndexKey = "guideword_index"
	BackendKey        = "backend"
	FlagKey           = "flag"
)
