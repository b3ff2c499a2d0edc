package store

import "errors"

var (
	// ErrNotFound is returned when no scan exists for an id
	ErrNotFound = errors.New("scan not found")
	// ErrUnsupportedDriver is returned for drivers other than sqlite and postgres
	ErrUnsupportedDriver = errors.New("unsupported storage driver")
	// ErrOpenFailed is returned when the database cannot be opened or reached
	ErrOpenFailed = errors.New("failed to open scan store")
	// ErrMigrationFailed is returned when schema migrations cannot be applied
	ErrMigrationFailed = errors.New("failed to migrate scan store")
	// ErrInvalidScan is returned when a scan cannot be stored
	ErrInvalidScan = errors.New("invalid scan record")
)
