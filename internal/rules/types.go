package rules

import "strings"

// Category is a coarse product classification used to select category-specific rules
type Category string

const (
	// CategoryAll marks rules that apply to every product
	CategoryAll Category = "all"
	// CategoryElectronics identifies consumer electronics
	CategoryElectronics Category = "electronics"
	// CategoryFood identifies packaged food
	CategoryFood Category = "food"
	// CategoryHealth identifies medicines, supplements and health products
	CategoryHealth Category = "health"
	// CategoryClothing identifies apparel
	CategoryClothing Category = "clothing"
	// CategoryCosmetics identifies skin, hair and personal care products
	CategoryCosmetics Category = "cosmetics"
	// CategoryToys identifies toys and games
	CategoryToys Category = "toys"
	// CategoryAppliances identifies home appliances
	CategoryAppliances Category = "appliances"
	// CategoryBooks identifies printed and digital books
	CategoryBooks Category = "books"
)

// categories is the fixed category set in declaration order
var categories = []Category{
	CategoryAll,
	CategoryElectronics,
	CategoryFood,
	CategoryHealth,
	CategoryClothing,
	CategoryCosmetics,
	CategoryToys,
	CategoryAppliances,
	CategoryBooks,
}

// Categories returns every known category
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)

	return out
}

// Valid reports whether c is one of the fixed categories
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}

	return false
}

// ParseCategory converts free text into a Category, reporting whether it was recognized
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))

	return c, c.Valid()
}

// Severity is the weight class of a rule or finding
type Severity string

const (
	// SeverityHigh is the most severe class
	SeverityHigh Severity = "HIGH"
	// SeverityMedium is the middle class
	SeverityMedium Severity = "MEDIUM"
	// SeverityLow is the least severe class
	SeverityLow Severity = "LOW"
)

// Valid reports whether s is HIGH, MEDIUM or LOW
func (s Severity) Valid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	default:
		return false
	}
}

// ParseSeverity converts a case-insensitive severity name, reporting whether it was recognized
func ParseSeverity(s string) (Severity, bool) {
	sev := Severity(strings.ToUpper(strings.TrimSpace(s)))

	return sev, sev.Valid()
}

// Rule is a single disclosure requirement
type Rule struct {
	// ID uniquely identifies the rule, e.g. EC-01
	ID string `json:"id" yaml:"id"`
	// Title is the human readable requirement
	Title string `json:"title" yaml:"title"`
	// Law is the legal citation the rule derives from
	Law string `json:"law" yaml:"law"`
	// Category selects which products the rule applies to
	Category Category `json:"category" yaml:"category"`
	// Severity weights the rule when it is violated
	Severity Severity `json:"severity" yaml:"severity"`
	// RequiredFields lists the disclosure fields that must all be available
	RequiredFields []string `json:"required_fields" yaml:"required_fields"`
}

// AppliesTo reports whether the rule is selected for a product of the given category
func (r Rule) AppliesTo(c Category) bool {
	return r.Category == CategoryAll || r.Category == c
}

// clone returns a copy of the rule that shares no slices with the receiver
func (r Rule) clone() Rule {
	fields := make([]string, len(r.RequiredFields))
	copy(fields, r.RequiredFields)
	r.RequiredFields = fields

	return r
}
