package cloudflare

import (
	"context"
	"fmt"
	"net/http"

	"github.com/theopenlane/httpsling"

	"github.com/theopenlane/shelfcheck/internal/product"
)

const (
	// productSchemaName is the identifier for the product disclosure JSON schema
	productSchemaName = "product_disclosures"
	// normalizerSource tags records produced by this client
	normalizerSource = "cloudflare"
	// extractionPrompt steers the model towards literal disclosures instead of guesses
	extractionPrompt = "Extract the consumer disclosures shown on this e-commerce product page. " +
		"Copy values as written on the page. Leave a field empty when the page does not state it."
)

// jsonRequest is the request body for the JSON extraction endpoint
type jsonRequest struct {
	URL            string         `json:"url"`
	Prompt         string         `json:"prompt,omitempty"`
	UserAgent      string         `json:"userAgent,omitempty"`
	GotoOptions    *gotoOptions   `json:"gotoOptions,omitempty"`
	ResponseFormat responseFormat `json:"response_format"`
}

// responseFormat specifies JSON schema extraction
type responseFormat struct {
	Type       string               `json:"type"`
	JSONSchema jsonSchemaDefinition `json:"json_schema"`
}

// jsonSchemaDefinition wraps the JSON schema
type jsonSchemaDefinition struct {
	Name   string     `json:"name"`
	Schema jsonSchema `json:"schema"`
}

// jsonSchema is the JSON schema for product disclosure extraction
type jsonSchema struct {
	Type       string                        `json:"type"`
	Properties map[string]jsonSchemaProperty `json:"properties"`
}

// jsonSchemaProperty defines a single JSON schema property
type jsonSchemaProperty struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// jsonResponse is the Cloudflare API response for product extraction
type jsonResponse struct {
	Success bool                      `json:"success"`
	Result  product.NormalizedProduct `json:"result"`
	Errors  []apiMessage              `json:"errors,omitempty"`
}

// schemaField describes one extracted disclosure
type schemaField struct {
	name        string
	kind        string
	description string
}

// productSchemaFields mirrors the json names of product.NormalizedProduct
var productSchemaFields = []schemaField{
	{"title", "string", "The product title"},
	{"brand", "string", "The brand name"},
	{"seller", "string", "The name of the seller fulfilling the order"},
	{"seller_contact", "string", "Seller phone number or email address"},
	{"seller_address", "string", "Seller postal address"},
	{"price", "number", "The price the buyer pays, as a number without currency symbols"},
	{"charges", "string", "Any additional charges such as delivery, convenience or platform fees"},
	{"returns", "string", "The return or refund policy"},
	{"delivery", "string", "Delivery timeline or estimate"},
	{"origin", "string", "Country of origin"},
	{"grievance", "string", "Grievance officer name or contact details"},
	{"description", "string", "A short product description"},
	{"reviews", "string", "Rating or review summary"},
	{"quantity", "string", "Net quantity with its unit, e.g. 500 g"},
	{"images", "boolean", "Whether the page shows product images"},
	{"warranty", "string", "Warranty terms"},
	{"specifications", "string", "Technical specifications"},
	{"voltage", "string", "Rated voltage or power input"},
	{"safety", "string", "Safety certification such as BIS or ISI marks"},
	{"energy_rating", "string", "BEE star or energy efficiency rating"},
	{"model_number", "string", "Model number"},
	{"compatibility", "string", "Compatible devices or systems"},
	{"expiry", "string", "Expiry or best before date"},
	{"ingredients", "string", "Ingredients list"},
	{"fssai", "string", "FSSAI license number"},
	{"allergen", "string", "Allergen information"},
	{"veg_nonveg", "string", "Vegetarian or non-vegetarian marking"},
	{"storage", "string", "Storage instructions"},
	{"manufacturer", "string", "Manufacturer name and address"},
	{"nutrition", "string", "Nutritional information"},
	{"disclaimer", "string", "Medical or usage disclaimer"},
	{"dosage", "string", "Dosage instructions"},
	{"guaranteed", "string", "Any guarantee or 100% claim made about results, quoted as written"},
	{"usage", "string", "Directions for use"},
	{"warning", "string", "Warnings or precautions"},
	{"age_limit", "string", "Recommended age range"},
	{"prescription_required", "string", "Whether a prescription is required"},
	{"material", "string", "Material or fabric composition"},
	{"size", "string", "Size or dimensions"},
	{"care_instructions", "string", "Washing or care instructions"},
	{"publisher", "string", "Publisher of the book"},
	{"isbn", "string", "ISBN"},
}

// Normalize asks the browser rendering AI to read the product page into the
// normalized disclosure record. The page is rendered by Cloudflare, so pageText is unused
func (c *Client) Normalize(ctx context.Context, p *product.ProductData, _ string) (*product.NormalizedProduct, error) {
	if p == nil || p.URL == "" {
		return nil, ErrMissingURL
	}

	body := jsonRequest{
		URL:            p.URL,
		Prompt:         extractionPrompt,
		UserAgent:      c.userAgent,
		GotoOptions:    navigation(),
		ResponseFormat: buildProductSchema(),
	}

	requester := httpsling.MustNew(
		httpsling.URL(c.apiURL(browserRenderingJSONPath)),
		httpsling.Post(),
		httpsling.BearerAuth(c.apiToken),
		httpsling.JSONBody(body),
		httpsling.WithHTTPClient(c.httpClient),
	)

	var cfResp jsonResponse

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

	result := cfResp.Result
	result.Source = normalizerSource

	return &result, nil
}

// Name identifies the normalizer in logs and stored results
func (c *Client) Name() string {
	return normalizerSource
}

// buildProductSchema constructs the JSON schema for product disclosure extraction
func buildProductSchema() responseFormat {
	props := make(map[string]jsonSchemaProperty, len(productSchemaFields))

	for _, f := range productSchemaFields {
		props[f.name] = jsonSchemaProperty{Type: f.kind, Description: f.description}
	}

	return responseFormat{
		Type: "json_schema",
		JSONSchema: jsonSchemaDefinition{
			Name: productSchemaName,
			Schema: jsonSchema{
				Type:       "object",
				Properties: props,
			},
		},
	}
}
