// Package ollama normalizes scraped product pages with a local Ollama model
package ollama

import (
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the address of a local Ollama daemon
	DefaultBaseURL = "http://localhost:11434"
	// DefaultModel is used when no model is configured
	DefaultModel = "llama3"
	// defaultRequestTimeout bounds a single generation; small local models answer well within it
	defaultRequestTimeout = 90 * time.Second
	// generatePath is the non-chat completion endpoint
	generatePath = "/api/generate"
)

// Client talks to the Ollama generate API
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option configures the Client
type Option func(*Client)

// WithBaseURL overrides the Ollama base URL
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithModel selects the model used for generation
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates an Ollama client with the provided options
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}
