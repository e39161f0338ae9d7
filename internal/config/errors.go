package config

import "errors"

// Configuration errors.
var (
	// ErrInvalid indicates a configuration value that fails validation.
	ErrInvalid = errors.New("invalid configuration")
)
