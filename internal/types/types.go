// Package types holds the scan records returned by the API and persisted by the store
package types

import (
	"github.com/theopenlane/shelfcheck/internal/compliance"
	"github.com/theopenlane/shelfcheck/internal/darkpattern"
	"github.com/theopenlane/shelfcheck/internal/product"
	"github.com/theopenlane/shelfcheck/internal/rules"
)

// EvaluationResult is the outcome of evaluating one product record
type EvaluationResult struct {
	Category     rules.Category         `json:"category" example:"electronics" description:"Product category inferred from title, description and technical details"`
	RiskScore    int                    `json:"risk_score" example:"65" description:"100 minus severity penalties of all violations, floored at 0"`
	Violations   []compliance.Violation `json:"violations" description:"Rule and dark-pattern violations"`
	TrustIndex   compliance.TrustIndex  `json:"trust_index" description:"Shopper-facing trust score with reasons"`
	Product      *product.ProductData   `json:"product" description:"Scraped product enriched with normalized fields"`
	DarkPatterns []darkpattern.Finding  `json:"dark_patterns" description:"Raw dark-pattern findings"`
	Fields       map[string]bool        `json:"fields,omitempty" description:"Availability of every field the applicable rules require"`
}

// ScanResult is a persisted scan of a product page
type ScanResult struct {
	ID         string                     `json:"id" example:"0b6f0c1e-8a53-4f8e-9a55-0d7f1f2d6d43" description:"Scan identifier"`
	URL        string                     `json:"url" example:"https://www.amazon.in/dp/B0TEST" description:"Scanned product page"`
	ScannedAt  int64                      `json:"scanned_at" example:"1705316400" description:"Unix timestamp when the scan was performed"`
	DomainInfo *DomainInfo                `json:"domain_info,omitempty" description:"Parsed domain information"`
	Normalized *product.NormalizedProduct `json:"normalized" description:"Normalizer output, null when normalization was skipped or failed"`
	Normalizer string                     `json:"normalizer,omitempty" example:"heuristic" description:"Normalizer that produced the normalized record"`

	EvaluationResult
}

// DomainInfo contains parsed domain information
type DomainInfo struct {
	Domain    string `json:"domain" example:"www.amazon.in" description:"Full host name"`
	Subdomain string `json:"subdomain,omitempty" example:"www" description:"Subdomain part if present"`
	TLD       string `json:"tld" example:"in" description:"Public suffix"`
	SLD       string `json:"sld" example:"amazon" description:"Second-level domain"`
	Site      string `json:"site" example:"amazon" description:"Site adapter used for extraction"`
}
