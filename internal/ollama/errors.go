package ollama

import "errors"

var (
	// ErrRequestFailed is returned when the Ollama API cannot be reached
	ErrRequestFailed = errors.New("ollama request failed")
	// ErrUnexpectedStatus is returned when the Ollama API answers with a non-200 status
	ErrUnexpectedStatus = errors.New("unexpected ollama response status")
	// ErrEmptyResponse is returned when the model produced no output
	ErrEmptyResponse = errors.New("ollama returned an empty response")
	// ErrInvalidResponse is returned when the model output is not the requested JSON object
	ErrInvalidResponse = errors.New("ollama returned invalid product JSON")
)
