package darkpattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theopenlane/shelfcheck/internal/product"
	"github.com/theopenlane/shelfcheck/internal/rules"
)

func priced(mrp, deal float64) *product.ProductData {
	return &product.ProductData{Price: &product.Price{MRP: product.Float(mrp), Deal: product.Float(deal)}}
}

func codes(fs []Finding) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Code)
	}

	return out
}

func TestDetect_DripPricing(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"platform fee", "Total ₹499 + Platform Fee ₹9", true},
		{"service charge", "a SERVICE CHARGE applies at checkout", true},
		{"handling charges", "Handling charges extra", true},
		{"clean", "Free delivery on orders above ₹499", false},
		{"empty", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := New().Detect(&product.ProductData{}, tc.text)
			assert.Equal(t, tc.want, len(got) == 1 && got[0].Code == CodeDripPricing)
		})
	}
}

func TestDetect_ExaggeratedDiscount(t *testing.T) {
	d := New()
	text := "Big Sale! Up to 80% off on electronics"

	got := d.Detect(priced(1000, 900), text)
	require.Len(t, got, 1)
	assert.Equal(t, CodeExaggeratedDiscount, got[0].Code)
	assert.Equal(t, rules.SeverityMedium, got[0].Severity)
	assert.Equal(t, "Page claims 'up to 80% off' but this product's actual discount is about 10%.", got[0].Message)

	assert.Empty(t, d.Detect(priced(1000, 500), text), "a 50 percent discount is not below half of the claim")
}

func TestDetect_ExaggeratedDiscountEdges(t *testing.T) {
	d := New()

	tests := []struct {
		name string
		p    *product.ProductData
		text string
		want bool
	}{
		{"no claim", priced(1000, 900), "Great deal", false},
		{"no price", &product.ProductData{}, "up to 80% off", false},
		{"mrp only", &product.ProductData{Price: &product.Price{MRP: product.Float(1000)}}, "up to 80% off", false},
		{"zero mrp", priced(0, 0), "up to 80% off", false},
		{"deal above mrp", priced(100, 150), "up to 80% off", false},
		{"no discount at all", priced(1000, 1000), "up to 80% off", false},
		{"exactly half", priced(1000, 600), "up to 80% off", false},
		{"rounding", priced(1000, 605), "up to 80% off", false},
		{"just below half", priced(1000, 610), "up to 80% off", true},
		{"case insensitive", priced(1000, 950), "UP TO 60%OFF", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := d.Detect(tc.p, tc.text)
			assert.Equal(t, tc.want, len(got) == 1 && got[0].Code == CodeExaggeratedDiscount)
		})
	}
}

func TestDetect_BothFindings(t *testing.T) {
	got := New().Detect(priced(1000, 990), "up to 70% off. Convenience fee ₹49")

	assert.Equal(t, []string{CodeDripPricing, CodeExaggeratedDiscount}, codes(got))
}

func TestToViolations(t *testing.T) {
	vs := ToViolations([]Finding{
		{Code: CodeDripPricing, Message: "drip", Severity: rules.SeverityHigh},
		{Code: CodeExaggeratedDiscount, Message: "exaggerated", Severity: rules.SeverityMedium},
	})

	require.Len(t, vs, 2)
	assert.Equal(t, CodeDripPricing, vs[0].RuleID)
	assert.Equal(t, rules.SeverityHigh, vs[0].Severity)
	assert.Equal(t, "drip", vs[0].Description)
	assert.Equal(t, Suggestion, vs[1].Suggestion)

	assert.Empty(t, ToViolations(nil))
}
