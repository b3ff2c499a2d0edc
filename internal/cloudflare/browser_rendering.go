package cloudflare

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/theopenlane/httpsling"

	"github.com/theopenlane/shelfcheck/internal/scraper"
)

const (
	// browserRenderingContentPath is the API path returning the rendered HTML of a page
	browserRenderingContentPath = "browser-rendering/content"
	// browserRenderingJSONPath is the API path for AI extraction into a JSON schema
	browserRenderingJSONPath = "browser-rendering/json"
)

// gotoOptions controls page navigation inside the headless browser
type gotoOptions struct {
	WaitUntil string `json:"waitUntil,omitempty"`
	Timeout   int    `json:"timeout,omitempty"`
}

// contentRequest is the request body for the content endpoint
type contentRequest struct {
	URL         string       `json:"url"`
	UserAgent   string       `json:"userAgent,omitempty"`
	GotoOptions *gotoOptions `json:"gotoOptions,omitempty"`
}

// apiMessage is an error or message entry in a Cloudflare API envelope
type apiMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// contentResponse is the Cloudflare API response for the content endpoint
type contentResponse struct {
	Success bool         `json:"success"`
	Result  string       `json:"result"`
	Errors  []apiMessage `json:"errors,omitempty"`
}

// navigation returns the goto options used for every rendered page
func navigation() *gotoOptions {
	return &gotoOptions{WaitUntil: defaultWaitUntil, Timeout: browserNavigationTimeout}
}

// Fetch renders pageURL in a headless browser and returns the resulting HTML.
// It satisfies the same contract as the colly fetcher so storefronts that build
// their price blocks client side can still be scanned
func (c *Client) Fetch(ctx context.Context, pageURL string) (*scraper.Page, error) {
	body := contentRequest{
		URL:         pageURL,
		UserAgent:   c.userAgent,
		GotoOptions: navigation(),
	}

	requester := httpsling.MustNew(
		httpsling.URL(c.apiURL(browserRenderingContentPath)),
		httpsling.Post(),
		httpsling.BearerAuth(c.apiToken),
		httpsling.JSONBody(body),
		httpsling.WithHTTPClient(c.httpClient),
	)

	var cfResp contentResponse

	resp, err := requester.ReceiveWithContext(ctx, &cfResp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if !cfResp.Success {
		return nil, renderingError(cfResp.Errors)
	}

	if cfResp.Result == "" {
		return nil, scraper.ErrEmptyPage
	}

	log.Debug().Str("url", pageURL).Int("bytes", len(cfResp.Result)).Msg("rendered product page")

	return &scraper.Page{
		URL:        pageURL,
		StatusCode: http.StatusOK,
		Headers:    http.Header{},
		HTML:       []byte(cfResp.Result),
	}, nil
}

// renderingError folds the API error messages into ErrRenderingFailed
func renderingError(msgs []apiMessage) error {
	if len(msgs) == 0 {
		return ErrRenderingFailed
	}

	return fmt.Errorf("%w: %s (code %d)", ErrRenderingFailed, msgs[0].Message, msgs[0].Code)
}
