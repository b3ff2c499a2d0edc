// Package normalize turns scraped product pages into the normalized disclosure record
// the compliance engine reads alongside the raw scrape
package normalize

import (
	"context"
	"fmt"
	"strings"

	"github.com/theopenlane/shelfcheck/internal/product"
)

// Normalizer enriches a scraped product. A nil record with a nil error means
// the normalizer had nothing to add
type Normalizer interface {
	// Name identifies the normalizer in logs and stored results
	Name() string
	// Normalize reads the scraped product and the visible page text
	Normalize(ctx context.Context, p *product.ProductData, pageText string) (*product.NormalizedProduct, error)
}

// Provider selects a Normalizer implementation
type Provider string

const (
	// ProviderHeuristic derives fields from the scraped data without external calls
	ProviderHeuristic Provider = "heuristic"
	// ProviderCloudflare uses the Cloudflare browser rendering JSON extraction
	ProviderCloudflare Provider = "cloudflare"
	// ProviderOllama asks a local Ollama model
	ProviderOllama Provider = "ollama"
	// ProviderNone disables normalization
	ProviderNone Provider = "none"
)

// ParseProvider parses a provider name, case-insensitively
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))

	switch p {
	case ProviderHeuristic, ProviderCloudflare, ProviderOllama, ProviderNone:
		return p, nil
	case "":
		return ProviderHeuristic, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
	}
}

// None never produces a normalized record
type None struct{}

// Name implements Normalizer
func (None) Name() string {
	return string(ProviderNone)
}

// Normalize implements Normalizer
func (None) Normalize(context.Context, *product.ProductData, string) (*product.NormalizedProduct, error) {
	return nil, nil
}
