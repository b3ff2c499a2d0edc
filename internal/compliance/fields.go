package compliance

import (
	"sort"
	"strings"

	"github.com/theopenlane/shelfcheck/internal/product"
)

// GuaranteedClaimField is the field that reports a literal "100%" in the normalized guaranteed-claim text
const GuaranteedClaimField = "100%"

// fieldResolver describes the three availability layers for a single disclosure field.
// A nil layer is skipped
type fieldResolver struct {
	// normalized reports whether the enrichment record carries the field
	normalized func(n *product.NormalizedProduct) bool
	// scraped reports whether the scraped record carries the field as a structured attribute
	scraped func(p *product.ProductData) bool
	// keywords are searched for in the lower-cased technical details text
	keywords []string
}

// fieldResolvers is the exhaustive table of fields a rule can reference
var fieldResolvers = map[string]fieldResolver{
	"seller": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Seller) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.Seller) },
	},
	"seller_contact": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.SellerContact) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.SellerContact) },
	},
	"seller_address": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.SellerAddress) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.SellerAddress) },
	},
	"price": {
		normalized: func(n *product.NormalizedProduct) bool { return n.Price != nil },
		scraped: func(p *product.ProductData) bool {
			return p.TotalPrice != nil || (p.Price != nil && (p.Price.Deal != nil || p.Price.MRP != nil))
		},
	},
	"charges": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Charges) },
		keywords:   []string{"convenience fee", "handling fee", "delivery charge", "shipping charge", "inclusive of all taxes"},
	},
	"returns": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Returns) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.Returns) },
	},
	"delivery": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Delivery) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.Delivery) },
	},
	"origin": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Origin) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.CountryOfOrigin) },
		keywords:   []string{"country of origin", "country as labeled", "made in"},
	},
	"grievance": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Grievance) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.GrievanceOfficer) },
		keywords:   []string{"grievance"},
	},
	"description": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Description) },
		scraped: func(p *product.ProductData) bool {
			return product.Present(p.Description) || product.Present(p.TechnicalDetails)
		},
	},
	"reviews": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Reviews) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.Reviews) },
		keywords:   []string{"customer reviews", "customer rating"},
	},
	"title": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Title) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.Title) },
	},
	"brand": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Brand) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.Brand) },
		keywords:   []string{"brand"},
	},
	"quantity": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Quantity) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.NetQuantity) },
		keywords:   []string{"net quantity", "unit count", "net weight", "item weight", "volume"},
	},
	"images": {
		normalized: func(n *product.NormalizedProduct) bool { return n.Images != nil && *n.Images },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.ImageURL) },
	},
	"warranty": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Warranty) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.Warranty) },
		keywords:   []string{"warranty"},
	},
	"specifications": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Specifications) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.TechnicalDetails) },
	},
	"voltage": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Voltage) },
		keywords:   []string{"volt", "wattage", "power rating"},
	},
	"safety": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Safety) },
		keywords:   []string{"safety", "isi mark", "bis certif"},
	},
	"energy_rating": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.EnergyRating) },
		keywords:   []string{"energy rating", "energy efficiency", "star rating", "bee rating"},
	},
	"model_number": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.ModelNumber) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.ModelNumber) },
		keywords:   []string{"model number", "model name"},
	},
	"compatibility": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Compatibility) },
		keywords:   []string{"compatible"},
	},
	"expiry": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Expiry) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.ExpiryDate) },
		keywords:   []string{"expiry", "best before", "use before", "shelf life"},
	},
	"ingredients": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Ingredients) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.Ingredients) },
		keywords:   []string{"ingredients"},
	},
	"fssai": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.FSSAI) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.FSSAILicense) },
		keywords:   []string{"fssai"},
	},
	"allergen": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Allergen) },
		keywords:   []string{"allergen"},
	},
	"veg_nonveg": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.VegNonVeg) },
		keywords:   []string{"vegetarian"},
	},
	"storage": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Storage) },
		keywords:   []string{"store in", "storage instructions"},
	},
	"manufacturer": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Manufacturer) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.Manufacturer) },
		keywords:   []string{"manufacturer", "manufactured by"},
	},
	"nutrition": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Nutrition) },
		keywords:   []string{"nutrition"},
	},
	"disclaimer": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Disclaimer) },
		keywords:   []string{"disclaimer"},
	},
	"dosage": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Dosage) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.UsageInstructions) },
		keywords:   []string{"dosage", "dose", "directions for use"},
	},
	"guaranteed": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Guaranteed) },
		keywords:   []string{"guaranteed"},
	},
	GuaranteedClaimField: {
		normalized: func(n *product.NormalizedProduct) bool { return strings.Contains(n.Guaranteed, "100%") },
	},
	"usage": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Usage) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.UsageInstructions) },
		keywords:   []string{"usage", "how to use", "directions for use"},
	},
	"warning": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Warning) },
		scraped:    func(p *product.ProductData) bool { return product.Present(p.Warnings) },
		keywords:   []string{"warning", "caution"},
	},
	"age_limit": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.AgeLimit) },
		keywords:   []string{"age range", "recommended age", "minimum age", "years and up", "years & up"},
	},
	"prescription_required": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.PrescriptionRequired) },
		keywords:   []string{"prescription"},
	},
	"material": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Material) },
		keywords:   []string{"material", "fabric"},
	},
	"size": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Size) },
		keywords:   []string{"size"},
	},
	"care_instructions": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.CareInstructions) },
		keywords:   []string{"care instructions", "wash care", "machine wash", "hand wash"},
	},
	"publisher": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.Publisher) },
		keywords:   []string{"publisher"},
	},
	"isbn": {
		normalized: func(n *product.NormalizedProduct) bool { return product.Present(n.ISBN) },
		keywords:   []string{"isbn"},
	},
}

// KnownFields returns every field name with a resolver, sorted
func KnownFields() []string {
	out := make([]string, 0, len(fieldResolvers))
	for name := range fieldResolvers {
		out = append(out, name)
	}

	sort.Strings(out)

	return out
}

// FieldIndex records, per disclosure field, whether a product adequately discloses it
type FieldIndex struct {
	available map[string]bool
}

// BuildFieldIndex resolves each named field against the enrichment record first, then the
// scraped structured attribute, then a keyword search of the technical details text.
// Fields without a resolver are recorded as unavailable
func BuildFieldIndex(fields []string, p *product.ProductData, n *product.NormalizedProduct) FieldIndex {
	if p == nil {
		p = &product.ProductData{}
	}

	tech := strings.ToLower(p.TechnicalDetails)
	idx := FieldIndex{available: make(map[string]bool, len(fields))}

	for _, name := range fields {
		idx.available[name] = resolveField(name, p, n, tech)
	}

	return idx
}

// resolveField walks the availability layers for a single field
func resolveField(name string, p *product.ProductData, n *product.NormalizedProduct, tech string) bool {
	r, ok := fieldResolvers[name]
	if !ok {
		return false
	}

	if n != nil && r.normalized != nil && r.normalized(n) {
		return true
	}

	if r.scraped != nil && r.scraped(p) {
		return true
	}

	return containsAny(tech, r.keywords)
}

// Available reports whether the field is disclosed; unknown names are never available
func (f FieldIndex) Available(name string) bool {
	return f.available[name]
}

// Map returns a copy of the index
func (f FieldIndex) Map() map[string]bool {
	out := make(map[string]bool, len(f.available))
	for k, v := range f.available {
		out[k] = v
	}

	return out
}
