// Package darkpattern flags pricing dark patterns in rendered product page text
package darkpattern

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/theopenlane/shelfcheck/internal/compliance"
	"github.com/theopenlane/shelfcheck/internal/product"
	"github.com/theopenlane/shelfcheck/internal/rules"
)

const (
	// CodeDripPricing flags add-on fees shown apart from the headline price
	CodeDripPricing = "DARK_DRIP_PRICING"
	// CodeExaggeratedDiscount flags "up to N% off" claims well above the real discount
	CodeExaggeratedDiscount = "DARK_EXAGGERATED_DISCOUNT"
	// Suggestion is attached to every violation derived from a finding
	Suggestion = "Review pricing/UX for potential dark pattern."
)

// dripKeywords are fee names that indicate drip pricing when present anywhere on the page
var dripKeywords = []string{
	"convenience fee",
	"platform fee",
	"internet handling fee",
	"handling charges",
	"processing fee",
	"service charge",
}

// upToPattern matches "up to 80% off" style claims
var upToPattern = regexp.MustCompile(`(?i)up to\s+(\d+)%\s*off`)

// Finding is a single dark-pattern detection
type Finding struct {
	// Code identifies the pattern
	Code string `json:"code"`
	// Message explains what was found
	Message string `json:"message"`
	// Severity is HIGH or MEDIUM
	Severity rules.Severity `json:"severity"`
}

// Detector runs the fixed set of dark-pattern checks
type Detector struct{}

// New returns a Detector
func New() *Detector {
	return &Detector{}
}

// Detect checks page text, and the product's price block, for dark patterns
func (d *Detector) Detect(p *product.ProductData, pageText string) []Finding {
	findings := make([]Finding, 0)

	if f, ok := dripPricing(pageText); ok {
		findings = append(findings, f)
	}

	if f, ok := exaggeratedDiscount(p, pageText); ok {
		findings = append(findings, f)
	}

	return findings
}

// dripPricing flags any drip-pricing keyword in the page text
func dripPricing(pageText string) (Finding, bool) {
	text := strings.ToLower(pageText)

	if !lo.SomeBy(dripKeywords, func(kw string) bool { return strings.Contains(text, kw) }) {
		return Finding{}, false
	}

	return Finding{
		Code:     CodeDripPricing,
		Message:  "Additional charges like convenience/platform/handling fees are mentioned separately from the main price, indicating possible drip pricing.",
		Severity: rules.SeverityHigh,
	}, true
}

// exaggeratedDiscount flags an "up to N% off" claim when the product's own discount is
// less than half of N. Both MRP and deal price are required and the deal must be below MRP
func exaggeratedDiscount(p *product.ProductData, pageText string) (Finding, bool) {
	m := upToPattern.FindStringSubmatch(pageText)
	if m == nil || p == nil || p.Price == nil || p.Price.MRP == nil || p.Price.Deal == nil {
		return Finding{}, false
	}

	claimed, err := strconv.Atoi(m[1])
	if err != nil {
		return Finding{}, false
	}

	mrp, deal := *p.Price.MRP, *p.Price.Deal
	if mrp <= 0 || deal >= mrp {
		return Finding{}, false
	}

	actual := int(math.Round((mrp - deal) / mrp * 100))
	if float64(actual) >= float64(claimed)/2 {
		return Finding{}, false
	}

	return Finding{
		Code:     CodeExaggeratedDiscount,
		Message:  fmt.Sprintf("Page claims 'up to %d%% off' but this product's actual discount is about %d%%.", claimed, actual),
		Severity: rules.SeverityMedium,
	}, true
}

// ToViolations converts findings one to one into compliance violations
func ToViolations(findings []Finding) []compliance.Violation {
	return lo.Map(findings, func(f Finding, _ int) compliance.Violation {
		return compliance.Violation{
			RuleID:      f.Code,
			Severity:    f.Severity,
			Description: f.Message,
			Suggestion:  Suggestion,
		}
	})
}
