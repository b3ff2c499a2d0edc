package rules

import "errors"

var (
	// ErrEmptyCatalog is returned when a catalog contains no rules
	ErrEmptyCatalog = errors.New("rule catalog contains no rules")
	// ErrInvalidRule is returned when a rule is missing an id, title, or required fields
	ErrInvalidRule = errors.New("invalid rule definition")
	// ErrDuplicateRuleID is returned when two rules share the same id
	ErrDuplicateRuleID = errors.New("duplicate rule id")
	// ErrUnknownCategory is returned when a category name is outside the fixed set
	ErrUnknownCategory = errors.New("unknown rule category")
	// ErrUnknownSeverity is returned when a rule references a severity outside HIGH, MEDIUM, LOW
	ErrUnknownSeverity = errors.New("unknown rule severity")
	// ErrCatalogRead is returned when a catalog file cannot be read
	ErrCatalogRead = errors.New("failed to read rule catalog")
	// ErrCatalogDecode is returned when catalog YAML cannot be decoded
	ErrCatalogDecode = errors.New("failed to decode rule catalog")
)
