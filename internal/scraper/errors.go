package scraper

import "errors"

var (
	// ErrFetchFailed is returned when a product page cannot be downloaded
	ErrFetchFailed = errors.New("failed to fetch product page")
	// ErrUnexpectedStatus is returned when a product page responds with a non-2xx status
	ErrUnexpectedStatus = errors.New("unexpected product page response status")
	// ErrEmptyPage is returned when a product page has no body
	ErrEmptyPage = errors.New("product page is empty")
	// ErrParseFailed is returned when product page HTML cannot be parsed
	ErrParseFailed = errors.New("failed to parse product page")
)
