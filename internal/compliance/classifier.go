package compliance

import (
	"strings"

	"github.com/theopenlane/shelfcheck/internal/product"
	"github.com/theopenlane/shelfcheck/internal/rules"
)

// classificationRule holds the keyword set for a single category
type classificationRule struct {
	category rules.Category
	keywords []string
}

// classificationRules is the ordered list of category rules; first match wins.
// Categories with stricter regulation come first so ambiguous listings resolve
// toward the stricter rule set. Keywords are matched as substrings of lower-cased
// text, so short words that hide inside common ones (rice/price, dress/address,
// book/notebook, toy/toyota, novel/novelty) are avoided
var classificationRules []classificationRule

func init() {
	classificationRules = []classificationRule{
		{
			category: rules.CategoryHealth,
			keywords: []string{
				"tablet", "capsule", "syrup", "supplement", "medicine", "ointment",
				"vitamin", "ayurvedic", "homeopathic", "pain relief",
			},
		},
		{
			category: rules.CategoryCosmetics,
			keywords: []string{
				"sunscreen", "cream", "lotion", "shampoo", "serum", "lipstick",
				"moisturi", "face wash", "perfume", "kajal", "cosmetic",
			},
		},
		{
			category: rules.CategoryFood,
			keywords: []string{
				"biscuit", "chips", "juice", "chocolate", "snack", "cookies",
				"namkeen", "basmati", "masala", "green tea", "coffee beans", "ghee",
			},
		},
		{
			category: rules.CategoryClothing,
			keywords: []string{
				"t-shirt", "shirt", "jeans", "kurta", "saree", "trousers",
				"jacket", "hoodie", "leggings", "cotton fabric",
			},
		},
		{
			category: rules.CategoryToys,
			keywords: []string{
				"toys", "toy car", "soft toy", "puzzle", "board game", "action figure", "building blocks",
				"stuffed animal",
			},
		},
		{
			category: rules.CategoryBooks,
			keywords: []string{
				"paperback", "hardcover", "isbn", "kindle edition", "fiction",
			},
		},
		{
			category: rules.CategoryElectronics,
			keywords: []string{
				"laptop", "smartphone", "mobile phone", "television", "headphone", "earbud",
				"earphone", "battery", "charger", "bluetooth", "speaker", "camera",
				"smartwatch", "power bank",
			},
		},
		{
			category: rules.CategoryAppliances,
			keywords: []string{
				"refrigerator", "washing machine", "microwave", "air conditioner", "mixer grinder",
				"vacuum cleaner", "steam iron", "water heater", "geyser", "ceiling fan",
				"air fryer", "dishwasher",
			},
		},
	}
}

// Classify infers a single product category from free text. Returns rules.CategoryAll
// when no keyword set matches
func Classify(title, description, technicalDetails string) rules.Category {
	text := strings.ToLower(strings.Join([]string{title, description, technicalDetails}, " "))

	for _, rule := range classificationRules {
		if containsAny(text, rule.keywords) {
			return rule.category
		}
	}

	return rules.CategoryAll
}

// ClassifyProduct classifies a product, preferring normalized title, description and
// specifications over the scraped values where the normalizer supplied them
func ClassifyProduct(p *product.ProductData, n *product.NormalizedProduct) rules.Category {
	var title, description, tech string

	if p != nil {
		title, description, tech = p.Title, p.Description, p.TechnicalDetails
	}

	if n != nil {
		title = prefer(n.Title, title)
		description = prefer(n.Description, description)
		tech = prefer(n.Specifications, tech)
	}

	return Classify(title, description, tech)
}

// containsAny returns true if text contains any of the keywords
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}

	return false
}

func prefer(v, fallback string) string {
	if product.Present(v) {
		return v
	}

	return fallback
}
