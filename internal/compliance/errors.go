package compliance

import "errors"

var (
	// ErrNilCatalog is returned when an engine is created without a rule catalog
	ErrNilCatalog = errors.New("compliance engine requires a rule catalog")
)
