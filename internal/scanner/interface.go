package scanner

import (
	"context"

	"github.com/theopenlane/shelfcheck/internal/product"
	"github.com/theopenlane/shelfcheck/internal/scraper"
	"github.com/theopenlane/shelfcheck/internal/types"
)

// Interface defines the contract for product page scanning implementations
type Interface interface {
	Scan(ctx context.Context, req Request) (*types.ScanResult, error)
	Evaluate(p *product.ProductData, n *product.NormalizedProduct, pageText string) types.EvaluationResult
}

// Fetcher downloads product pages
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*scraper.Page, error)
}

// Store persists completed scans
type Store interface {
	Save(ctx context.Context, r *types.ScanResult) error
}

// Notifier delivers alerts for risky scans
type Notifier interface {
	Name() string
	Notify(ctx context.Context, r *types.ScanResult) error
}

// Request describes a single scan
type Request struct {
	// URL is the product page to scan
	URL string
	// Notify overrides whether alerts are sent for this scan, nil keeps the configured behavior
	Notify *bool
	// SkipStore scans without persisting the result
	SkipStore bool
}
