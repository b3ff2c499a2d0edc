// Package slack posts scan alerts to a Slack incoming webhook
package slack

import (
	"net/http"
	"strings"
	"time"
)

const (
	// defaultRequestTimeout is the default timeout for Slack webhook requests
	defaultRequestTimeout = 10 * time.Second
	// defaultUsername is the bot name shown on alerts
	defaultUsername = "shelfcheck"
)

// Client sends scan alerts to Slack via incoming webhooks
type Client struct {
	webhookURL string
	username   string
	linkBase   string
	httpClient *http.Client
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client for the Slack client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithUsername overrides the bot name shown on alerts
func WithUsername(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.username = name
		}
	}
}

// WithLinkBase sets the public base URL of the shelfcheck API so alerts can link to the stored scan
func WithLinkBase(base string) Option {
	return func(c *Client) {
		c.linkBase = strings.TrimSuffix(base, "/")
	}
}

// New creates a new Slack webhook client
func New(webhookURL string, opts ...Option) (*Client, error) {
	if webhookURL == "" {
		return nil, ErrMissingWebhookURL
	}

	client := &Client{
		webhookURL: webhookURL,
		username:   defaultUsername,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Name identifies the notifier in logs
func (c *Client) Name() string {
	return "slack"
}
