package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog/log"
)

const (
	// defaultUserAgent mimics a desktop browser; storefronts serve stripped pages to bots
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	// defaultAcceptLanguage requests Indian English storefront copy
	defaultAcceptLanguage = "en-IN,en;q=0.9"
	// defaultFetchTimeout bounds a single page download
	defaultFetchTimeout = 15 * time.Second
	// defaultMaxBodySize caps the downloaded page size
	defaultMaxBodySize = 10 * 1024 * 1024
)

// Page is a downloaded product page
type Page struct {
	// URL is the final URL after redirects
	URL string
	// StatusCode is the HTTP status code
	StatusCode int
	// Headers are the response headers
	Headers http.Header
	// HTML is the raw response body
	HTML []byte
}

// Fetcher downloads product pages with a colly collector
type Fetcher struct {
	collector *colly.Collector
}

// FetcherOption configures the Fetcher
type FetcherOption func(*fetcherConfig)

type fetcherConfig struct {
	userAgent   string
	timeout     time.Duration
	maxBodySize int
	transport   http.RoundTripper
}

// WithUserAgent overrides the browser user agent
func WithUserAgent(ua string) FetcherOption {
	return func(c *fetcherConfig) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) FetcherOption {
	return func(c *fetcherConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxBodySize caps the number of body bytes read
func WithMaxBodySize(n int) FetcherOption {
	return func(c *fetcherConfig) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithTransport sets a custom round tripper, mainly for tests
func WithTransport(rt http.RoundTripper) FetcherOption {
	return func(c *fetcherConfig) {
		if rt != nil {
			c.transport = rt
		}
	}
}

// NewFetcher creates a Fetcher with the provided options
func NewFetcher(opts ...FetcherOption) *Fetcher {
	cfg := &fetcherConfig{
		userAgent:   defaultUserAgent,
		timeout:     defaultFetchTimeout,
		maxBodySize: defaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	c := colly.NewCollector(
		colly.UserAgent(cfg.userAgent),
		colly.AllowURLRevisit(),
		colly.MaxBodySize(cfg.maxBodySize),
		colly.Headers(map[string]string{
			"Accept-Language": defaultAcceptLanguage,
			"Referer":         "https://www.google.com/",
		}),
	)
	c.SetRequestTimeout(cfg.timeout)

	if cfg.transport != nil {
		c.WithTransport(cfg.transport)
	}

	return &Fetcher{collector: c}
}

// Fetch downloads a single page. Non-2xx responses are returned as ErrUnexpectedStatus
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	c := f.collector.Clone()
	c.Context = ctx

	var (
		page   *Page
		status int
	)

	c.OnResponse(func(r *colly.Response) {
		page = &Page{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Headers:    r.Headers.Clone(),
			HTML:       r.Body,
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}

		log.Debug().Err(err).Str("url", rawURL).Int("status", status).Msg("product page fetch failed")
	})

	if err := c.Visit(rawURL); err != nil {
		if status != 0 {
			return nil, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, status)
		}

		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	c.Wait()

	if page == nil || len(page.HTML) == 0 {
		return nil, ErrEmptyPage
	}

	log.Debug().Str("url", page.URL).Int("status", page.StatusCode).Int("bytes", len(page.HTML)).Msg("fetched product page")

	return page, nil
}
