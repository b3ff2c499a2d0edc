// Package telegram sends scan alerts to a Telegram chat through a bot
package telegram

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/theopenlane/shelfcheck/internal/types"
)

const (
	// defaultRequestTimeout bounds each Bot API call
	defaultRequestTimeout = 10 * time.Second
	// maxListedViolations caps the violations itemized in one alert
	maxListedViolations = 5
)

// Notifier posts scan alerts to one chat
type Notifier struct {
	bot    *tele.Bot
	chat   tele.ChatID
	apiURL string
	client *http.Client
}

// Option configures the Notifier
type Option func(*Notifier)

// WithAPIURL overrides the Bot API base URL, mainly for tests and self-hosted API servers
func WithAPIURL(url string) Option {
	return func(n *Notifier) {
		n.apiURL = url
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) {
		if client != nil {
			n.client = client
		}
	}
}

// New creates a notifier. The bot is created offline so startup never calls the Bot API
func New(token string, chatID int64, opts ...Option) (*Notifier, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	if chatID == 0 {
		return nil, ErrMissingChatID
	}

	n := &Notifier{
		chat:   tele.ChatID(chatID),
		client: &http.Client{Timeout: defaultRequestTimeout},
	}

	for _, opt := range opts {
		opt(n)
	}

	bot, err := tele.NewBot(tele.Settings{
		URL:       n.apiURL,
		Token:     token,
		Client:    n.client,
		ParseMode: tele.ModeHTML,
		Offline:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	n.bot = bot

	return n, nil
}

// Name identifies the notifier in logs
func (n *Notifier) Name() string {
	return "telegram"
}

// Notify sends a risk alert for a completed scan. The Bot API client has no
// context support, so cancellation abandons the in-flight request
func (n *Notifier) Notify(ctx context.Context, r *types.ScanResult) error {
	if r == nil {
		return nil
	}

	done := make(chan error, 1)

	go func() {
		_, err := n.bot.Send(n.chat, FormatScan(r), tele.NoPreview)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
		}

		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrNotificationFailed, ctx.Err())
	}
}

// FormatScan renders a scan as a Telegram HTML message
func FormatScan(r *types.ScanResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>Compliance risk %d/100</b>\n", r.RiskScore)

	if r.Product != nil && r.Product.Title != "" {
		fmt.Fprintf(&b, "%s\n", html.EscapeString(r.Product.Title))
	}

	fmt.Fprintf(&b, "%s\n\n", html.EscapeString(r.URL))
	fmt.Fprintf(&b, "Category: %s\nTrust index: %d\nViolations: %d\n", r.Category, r.TrustIndex.Score, len(r.Violations))

	for i, v := range r.Violations {
		if i == maxListedViolations {
			fmt.Fprintf(&b, "<i>and %d more</i>\n", len(r.Violations)-maxListedViolations)
			break
		}

		fmt.Fprintf(&b, "• <b>%s</b> (%s) %s\n", v.RuleID, v.Severity, html.EscapeString(v.Description))
	}

	return strings.TrimSpace(b.String())
}
