package normalize

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/theopenlane/shelfcheck/internal/product"
)

// quantityPattern finds a net quantity such as "100 ml" or "1.5 kg"
var quantityPattern = regexp.MustCompile(`(\d+(\.\d+)?)\s*(ml|g|kg|l|L)`)

// lift copies a technical details value into a normalized field when the key mentions one of keys
type lift struct {
	keys []string
	set  func(n *product.NormalizedProduct, v string)
}

// lifts are applied in order; the first matching key wins for each field
var lifts = []lift{
	{[]string{"expiry", "best before", "use by"}, func(n *product.NormalizedProduct, v string) { n.Expiry = v }},
	{[]string{"ingredient"}, func(n *product.NormalizedProduct, v string) { n.Ingredients = v }},
	{[]string{"fssai"}, func(n *product.NormalizedProduct, v string) { n.FSSAI = v }},
	{[]string{"directions", "how to use", "usage"}, func(n *product.NormalizedProduct, v string) { n.Usage = v }},
	{[]string{"warning", "caution", "precaution"}, func(n *product.NormalizedProduct, v string) { n.Warning = v }},
	{[]string{"allergen"}, func(n *product.NormalizedProduct, v string) { n.Allergen = v }},
	{[]string{"storage instruction", "store in"}, func(n *product.NormalizedProduct, v string) { n.Storage = v }},
	{[]string{"voltage"}, func(n *product.NormalizedProduct, v string) { n.Voltage = v }},
	{[]string{"energy rating", "star rating", "energy efficiency"}, func(n *product.NormalizedProduct, v string) { n.EnergyRating = v }},
	{[]string{"certification", "bis ", "isi mark"}, func(n *product.NormalizedProduct, v string) { n.Safety = v }},
	{[]string{"compatible"}, func(n *product.NormalizedProduct, v string) { n.Compatibility = v }},
	{[]string{"material", "fabric"}, func(n *product.NormalizedProduct, v string) { n.Material = v }},
	{[]string{"size"}, func(n *product.NormalizedProduct, v string) { n.Size = v }},
	{[]string{"care instruction", "wash care"}, func(n *product.NormalizedProduct, v string) { n.CareInstructions = v }},
	{[]string{"recommended age", "age range", "minimum age"}, func(n *product.NormalizedProduct, v string) { n.AgeLimit = v }},
	{[]string{"publisher"}, func(n *product.NormalizedProduct, v string) { n.Publisher = v }},
	{[]string{"isbn"}, func(n *product.NormalizedProduct, v string) { n.ISBN = v }},
	{[]string{"grievance"}, func(n *product.NormalizedProduct, v string) { n.Grievance = v }},
}

// Heuristic derives normalized fields from the scraped record alone
type Heuristic struct{}

// NewHeuristic returns the heuristic normalizer
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Name implements Normalizer
func (h *Heuristic) Name() string {
	return string(ProviderHeuristic)
}

// Normalize implements Normalizer. It never fails
func (h *Heuristic) Normalize(_ context.Context, p *product.ProductData, _ string) (*product.NormalizedProduct, error) {
	if p == nil {
		return nil, nil
	}

	return Derive(p), nil
}

// Derive builds the normalized record: scraped attributes pass through, technical
// details fill brand, origin, manufacturer and model number, and known keys are lifted
func Derive(p *product.ProductData) *product.NormalizedProduct {
	tech := product.ParseTechnicalDetails(p.TechnicalDetails)

	n := &product.NormalizedProduct{
		Seller:         p.Seller,
		SellerContact:  p.SellerContact,
		SellerAddress:  p.SellerAddress,
		Returns:        p.Returns,
		Delivery:       p.Delivery,
		Description:    p.Description,
		Title:          p.Title,
		Warranty:       p.Warranty,
		Specifications: p.TechnicalDetails,
		Brand:          lo.CoalesceOrEmpty(p.Brand, tech["brand"], tech["brand name"]),
		Origin:         lo.CoalesceOrEmpty(p.CountryOfOrigin, tech["country of origin"], tech["country as labeled"]),
		Manufacturer:   lo.CoalesceOrEmpty(p.Manufacturer, tech["manufacturer"]),
		ModelNumber:    lo.CoalesceOrEmpty(p.ModelNumber, tech["item model number"], tech["model number"]),
		Quantity:       quantity(p),
		Source:         string(ProviderHeuristic),
	}

	if deal := p.DealPrice(); deal != nil {
		n.Price = product.Float(*deal)
	}

	if product.Present(p.ImageURL) {
		n.Images = product.Bool(true)
	}

	applyLifts(n, tech)

	// scraped disclosures beat lifted ones
	n.Expiry = lo.CoalesceOrEmpty(p.ExpiryDate, n.Expiry)
	n.Ingredients = lo.CoalesceOrEmpty(p.Ingredients, n.Ingredients)
	n.FSSAI = lo.CoalesceOrEmpty(p.FSSAILicense, n.FSSAI)
	n.Usage = lo.CoalesceOrEmpty(p.UsageInstructions, n.Usage)
	n.Warning = lo.CoalesceOrEmpty(p.Warnings, n.Warning)
	n.Grievance = lo.CoalesceOrEmpty(p.GrievanceOfficer, n.Grievance)

	return n
}

// quantity finds the first net quantity in the technical details and description
func quantity(p *product.ProductData) string {
	if product.Present(p.NetQuantity) {
		return strings.TrimSpace(strings.TrimSpace(p.NetQuantity) + " " + strings.TrimSpace(p.Unit))
	}

	m := quantityPattern.FindStringSubmatch(p.TechnicalDetails + " " + p.Description)
	if m == nil {
		return ""
	}

	return m[1] + " " + m[3]
}

// applyLifts walks the technical detail keys in sorted order so results are stable
func applyLifts(n *product.NormalizedProduct, tech map[string]string) {
	keys := lo.Keys(tech)
	slices.Sort(keys)

	for _, l := range lifts {
		for _, k := range keys {
			if containsAny(k, l.keys) {
				l.set(n, tech[k])
				break
			}
		}
	}
}

func containsAny(s string, subs []string) bool {
	return lo.SomeBy(subs, func(sub string) bool { return strings.Contains(s, sub) })
}
