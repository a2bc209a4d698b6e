package config

import "errors"

// Error variables for configuration loading.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrDataDirEmpty       = errors.New("data-dir cannot be empty")
	ErrKeyEmpty           = errors.New("key cannot be empty")
	ErrBackendEmpty       = errors.New("backend cannot be empty")
)
