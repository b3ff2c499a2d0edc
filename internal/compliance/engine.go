package compliance

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/theopenlane/shelfcheck/internal/product"
	"github.com/theopenlane/shelfcheck/internal/rules"
)

const (
	// maxScore is the score of a listing with no violations
	maxScore = 100
	// penaltyHigh is subtracted for each HIGH violation
	penaltyHigh = 20
	// penaltyMedium is subtracted for each MEDIUM violation
	penaltyMedium = 10
	// penaltyLow is subtracted for each LOW violation
	penaltyLow = 5
)

// Violation is a single failed rule or dark-pattern finding
type Violation struct {
	// RuleID is the catalog rule id or dark-pattern code
	RuleID string `json:"rule_id"`
	// Severity is HIGH, MEDIUM or LOW
	Severity rules.Severity `json:"severity"`
	// Description is human readable and names the missing fields
	Description string `json:"description"`
	// Suggestion is the remediation text
	Suggestion string `json:"suggestion"`
}

// Result is the outcome of evaluating a single product
type Result struct {
	// Category is the classified product category
	Category rules.Category `json:"category"`
	// RiskScore is 100 minus severity penalties, floored at 0
	RiskScore int `json:"risk_score"`
	// Violations lists failed rules in catalog order
	Violations []Violation `json:"violations"`
}

// Engine applies a rule catalog to products. It holds no mutable state and is safe
// for concurrent use
type Engine struct {
	catalog *rules.Catalog
	fields  []string
}

// NewEngine creates an engine over the given catalog
func NewEngine(catalog *rules.Catalog) (*Engine, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}

	return &Engine{
		catalog: catalog,
		fields:  catalog.Fields(),
	}, nil
}

// Catalog returns the catalog the engine evaluates against
func (e *Engine) Catalog() *rules.Catalog {
	return e.catalog
}

// Evaluate classifies the product, selects the rules for its category and reports every
// rule with at least one undisclosed field. Missing data never causes an error
func (e *Engine) Evaluate(p *product.ProductData, n *product.NormalizedProduct) Result {
	category := ClassifyProduct(p, n)
	idx := e.Index(p, n)

	violations := make([]Violation, 0)

	for _, rule := range e.catalog.ForCategory(category) {
		missing := lo.Filter(rule.RequiredFields, func(field string, _ int) bool {
			return !idx.Available(field)
		})

		if len(missing) == 0 {
			continue
		}

		violations = append(violations, ruleViolation(rule, missing))
	}

	return Result{
		Category:   category,
		RiskScore:  RiskScore(violations),
		Violations: violations,
	}
}

// Index builds the field availability index for every field the catalog references
func (e *Engine) Index(p *product.ProductData, n *product.NormalizedProduct) FieldIndex {
	return BuildFieldIndex(e.fields, p, n)
}

// RequiredFields reports the availability of every field required by the rules that
// apply to category
func (e *Engine) RequiredFields(category rules.Category, p *product.ProductData, n *product.NormalizedProduct) map[string]bool {
	fields := lo.Uniq(lo.FlatMap(e.catalog.ForCategory(category), func(r rules.Rule, _ int) []string {
		return r.RequiredFields
	}))

	return BuildFieldIndex(fields, p, n).Map()
}

// ruleViolation renders the violation for a rule with missing fields
func ruleViolation(rule rules.Rule, missing []string) Violation {
	list := strings.Join(missing, ", ")

	return Violation{
		RuleID:      rule.ID,
		Severity:    rule.Severity,
		Description: fmt.Sprintf("%s – missing or unclear: %s", rule.Title, list),
		Suggestion:  fmt.Sprintf("Ensure the following field(s) are clearly disclosed: %s.", list),
	}
}

// Penalty returns the risk score penalty for a severity; unknown severities cost nothing
func Penalty(s rules.Severity) int {
	switch s {
	case rules.SeverityHigh:
		return penaltyHigh
	case rules.SeverityMedium:
		return penaltyMedium
	case rules.SeverityLow:
		return penaltyLow
	default:
		return 0
	}
}

// RiskScore returns 100 minus the summed severity penalties, never below 0
func RiskScore(violations []Violation) int {
	penalty := lo.SumBy(violations, func(v Violation) int {
		return Penalty(v.Severity)
	})

	return max(0, maxScore-penalty)
}
