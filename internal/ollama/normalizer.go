package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/theopenlane/httpsling"

	"github.com/theopenlane/shelfcheck/internal/product"
)

const (
	// normalizerSource tags records produced by this client
	normalizerSource = "ollama"
	// maxPromptPageText caps the page text sent to the model
	maxPromptPageText = 6000
)

// promptTemplate asks for the normalized disclosure object. The product facts and page text are appended
const promptTemplate = `You read Indian e-commerce product pages and report which consumer disclosures they show.
Answer with one JSON object using only these keys, each a string unless noted:
%s
Use null for anything the page does not state. Never invent values. "price" is a number, "images" is a boolean.

Scraped facts:
%s

Page text:
%s`

// promptKeys lists the keys of product.NormalizedProduct the model is asked for
var promptKeys = []string{
	"title", "brand", "seller", "seller_contact", "seller_address", "price", "charges", "returns", "delivery",
	"origin", "grievance", "description", "reviews", "quantity", "images", "warranty", "specifications",
	"voltage", "safety", "energy_rating", "model_number", "compatibility", "expiry", "ingredients", "fssai",
	"allergen", "veg_nonveg", "storage", "manufacturer", "nutrition", "disclaimer", "dosage", "guaranteed",
	"usage", "warning", "age_limit", "prescription_required", "material", "size", "care_instructions",
	"publisher", "isbn",
}

var amountPattern = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// generateRequest is the request body for /api/generate
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Format  string          `json:"format,omitempty"`
	Options generateOptions `json:"options"`
}

// generateOptions are the sampling options sent with each request
type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

// generateResponse is the non-streaming /api/generate response
type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Normalize asks the model to read the page into a normalized disclosure record
func (c *Client) Normalize(ctx context.Context, p *product.ProductData, pageText string) (*product.NormalizedProduct, error) {
	if p == nil {
		p = &product.ProductData{}
	}

	facts, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	body := generateRequest{
		Model:   c.model,
		Prompt:  buildPrompt(string(facts), pageText),
		Stream:  false,
		Format:  "json",
		Options: generateOptions{Temperature: 0},
	}

	requester := httpsling.MustNew(
		httpsling.URL(strings.TrimSuffix(c.baseURL, "/")+generatePath),
		httpsling.Post(),
		httpsling.JSONBody(body),
		httpsling.WithHTTPClient(c.httpClient),
	)

	var out generateResponse

	resp, err := requester.ReceiveWithContext(ctx, &out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if strings.TrimSpace(out.Response) == "" {
		return nil, ErrEmptyResponse
	}

	n, err := decodeProduct(out.Response)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("model", c.model).Str("url", p.URL).Msg("ollama normalized product")

	return n, nil
}

// Name identifies the normalizer in logs and stored results
func (c *Client) Name() string {
	return normalizerSource
}

func buildPrompt(facts, pageText string) string {
	if r := []rune(pageText); len(r) > maxPromptPageText {
		pageText = string(r[:maxPromptPageText])
	}

	return fmt.Sprintf(promptTemplate, strings.Join(promptKeys, ", "), facts, pageText)
}

// decodeProduct parses the model output field by field. Price and images are
// coerced from loose values; every other field keeps any scalar as text and a
// value of an unusable type drops only that field
func decodeProduct(raw string) (*product.NormalizedProduct, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	text := make(map[string]string, len(fields))

	for key, v := range fields {
		if key == "price" || key == "images" {
			continue
		}

		if s, ok := coerceString(v); ok {
			text[key] = s
		}
	}

	encoded, err := json.Marshal(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	var n product.NormalizedProduct
	if err := json.Unmarshal(encoded, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	n.Price = coercePrice(fields["price"])
	n.Images = coerceBool(fields["images"])
	n.Source = normalizerSource

	return &n, nil
}

// coerceString renders scalar model output as text. Null, objects and arrays are not disclosures
func coerceString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		if t {
			return "yes", true
		}

		return "no", true
	default:
		return "", false
	}
}

func coercePrice(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case string:
		m := amountPattern.FindString(t)
		if m == "" {
			return nil
		}

		f, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err != nil {
			return nil
		}

		return &f
	default:
		return nil
	}
}

func coerceBool(v any) *bool {
	switch t := v.(type) {
	case bool:
		return &t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			switch strings.ToLower(strings.TrimSpace(t)) {
			case "yes", "y":
				b = true
			case "no", "n":
				b = false
			default:
				return nil
			}
		}

		return &b
	default:
		return nil
	}
}
