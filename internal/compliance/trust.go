package compliance

import (
	"strings"

	"github.com/theopenlane/shelfcheck/internal/product"
	"github.com/theopenlane/shelfcheck/internal/rules"
)

// TrustIndex is a transparency score on its own 0-100 scale
type TrustIndex struct {
	// Score starts at 100 and loses points per failed check and per violation
	Score int `json:"score"`
	// Reasons lists failed checklist items in checklist order
	Reasons []string `json:"reasons"`
}

// trustCheck is a single checklist item
type trustCheck struct {
	penalty int
	reason  string
	failed  func(p *product.ProductData, tech string) bool
}

// trustChecks is the fixed, ordered transparency checklist
var trustChecks = []trustCheck{
	{
		penalty: 15,
		reason:  "Country of origin not found in technical details.",
		failed: func(_ *product.ProductData, tech string) bool {
			return !strings.Contains(tech, "country of origin")
		},
	},
	{
		penalty: 10,
		reason:  "Seller name missing.",
		failed: func(p *product.ProductData, _ string) bool {
			return !product.Present(p.Seller)
		},
	},
	{
		penalty: 15,
		reason:  "No returns information visible.",
		failed: func(p *product.ProductData, _ string) bool {
			return !product.Present(p.Returns)
		},
	},
	{
		penalty: 10,
		reason:  "Warranty not specified.",
		failed: func(p *product.ProductData, tech string) bool {
			return !product.Present(p.Warranty) && !strings.Contains(tech, "warranty")
		},
	},
	{
		penalty: 20,
		reason:  "Deal price not clearly extracted.",
		failed: func(p *product.ProductData, _ string) bool {
			return p.DealPrice() == nil
		},
	},
}

// ComputeTrustIndex scores the scraped record against the transparency checklist, then
// subtracts 10 per HIGH and 5 per MEDIUM violation. Only checklist items produce reasons
func ComputeTrustIndex(p *product.ProductData, violations []Violation) TrustIndex {
	if p == nil {
		p = &product.ProductData{}
	}

	tech := strings.ToLower(p.TechnicalDetails)
	score := maxScore
	reasons := make([]string, 0, len(trustChecks))

	for _, check := range trustChecks {
		if check.failed(p, tech) {
			score -= check.penalty
			reasons = append(reasons, check.reason)
		}
	}

	for _, v := range violations {
		switch v.Severity {
		case rules.SeverityHigh:
			score -= 10
		case rules.SeverityMedium:
			score -= 5
		}
	}

	return TrustIndex{
		Score:   min(max(score, 0), maxScore),
		Reasons: reasons,
	}
}
