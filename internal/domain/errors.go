package domain

import "errors"

var (
	// ErrInvalidURLFormat is returned when the URL format is not valid
	ErrInvalidURLFormat = errors.New("invalid URL format")
	// ErrUnsupportedScheme is returned when a product URL is not http or https
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
	// ErrInvalidDomainFormat is returned when the domain format is not valid
	ErrInvalidDomainFormat = errors.New("invalid domain format")
)
