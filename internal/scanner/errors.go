package scanner

import "errors"

var (
	// ErrInvalidURL is returned when the product URL is not an absolute http or https URL
	ErrInvalidURL = errors.New("invalid product URL")
	// ErrFetchFailed is returned when the product page cannot be downloaded
	ErrFetchFailed = errors.New("unable to fetch product page")
	// ErrExtractFailed is returned when the site adapter cannot parse the page
	ErrExtractFailed = errors.New("unable to extract product data")
	// ErrStoreFailed is returned when the scan record cannot be persisted
	ErrStoreFailed = errors.New("unable to store scan result")
	// ErrNilEngine is returned when a scanner is created without a compliance engine
	ErrNilEngine = errors.New("scanner requires a compliance engine")
)
