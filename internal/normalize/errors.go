package normalize

import "errors"

var (
	// ErrUnknownProvider is returned when the configured normalizer provider is not recognized
	ErrUnknownProvider = errors.New("unknown normalizer provider")
)
