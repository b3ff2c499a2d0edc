package api

import "errors"

var (
	// ErrInvalidRequestBody is returned when the request body cannot be decoded
	ErrInvalidRequestBody = errors.New("invalid request body")
	// ErrMultipleJSONObjects is returned when the request body contains more than one JSON object
	ErrMultipleJSONObjects = errors.New("request body must contain a single JSON object")
	// ErrURLRequired is returned when a scan request has no URL
	ErrURLRequired = errors.New("url is required")
	// ErrProductRequired is returned when an evaluate request has no product
	ErrProductRequired = errors.New("product is required")
	// ErrInvalidLimit is returned when the history limit is not a positive integer
	ErrInvalidLimit = errors.New("limit must be a positive integer")
	// ErrInvalidCategory is returned when the rules category filter is unknown
	ErrInvalidCategory = errors.New("unknown product category")
	// ErrStoreNotConfigured is returned when scan history is requested without persistence
	ErrStoreNotConfigured = errors.New("scan storage not configured")
	// ErrScanNotFound is returned when a stored scan does not exist
	ErrScanNotFound = errors.New("scan not found")
)
