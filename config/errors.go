package config

import "errors"

var (
	// ErrConfigLoad is returned when a configuration source cannot be read
	ErrConfigLoad = errors.New("failed to load configuration")
	// ErrConfigUnmarshal is returned when config unmarshalling fails
	ErrConfigUnmarshal = errors.New("failed to unmarshal configuration")
	// ErrInvalidConfig is returned when a setting has an unsupported value
	ErrInvalidConfig = errors.New("invalid configuration")
)
