package rules

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// defaultCatalogYAML is the built-in catalog of Indian consumer and e-commerce disclosure rules
//
//go:embed rules.yaml
var defaultCatalogYAML []byte

// catalogFile is the on-disk shape of a rule catalog
type catalogFile struct {
	Rules []Rule `yaml:"rules"`
}

// Catalog is an immutable, ordered collection of rules. It is safe for concurrent use
// and every accessor returns copies so callers cannot mutate shared state
type Catalog struct {
	rules  []Rule
	index  map[string]int
	fields []string
}

// New validates the rules and builds a catalog that owns private copies of them.
// Rules with an unrecognized category are skipped with a warning since no product
// can ever be classified into them
func New(rules []Rule) (*Catalog, error) {
	if len(rules) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		rules: make([]Rule, 0, len(rules)),
		index: make(map[string]int, len(rules)),
	}

	seenFields := make(map[string]struct{})

	for i, r := range rules {
		r.ID = strings.TrimSpace(r.ID)
		if r.ID == "" || strings.TrimSpace(r.Title) == "" || len(r.RequiredFields) == 0 {
			return nil, fmt.Errorf("%w: rule at position %d", ErrInvalidRule, i)
		}

		if _, dup := c.index[r.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRuleID, r.ID)
		}

		cat, ok := ParseCategory(string(r.Category))
		if !ok {
			log.Warn().Str("rule_id", r.ID).Str("category", string(r.Category)).Msg("skipping rule with unknown category")

			continue
		}

		sev, ok := ParseSeverity(string(r.Severity))
		if !ok {
			return nil, fmt.Errorf("%w: %q in rule %s", ErrUnknownSeverity, r.Severity, r.ID)
		}

		r.Category = cat
		r.Severity = sev
		r = r.clone()

		for _, f := range r.RequiredFields {
			if _, ok := seenFields[f]; !ok {
				seenFields[f] = struct{}{}
				c.fields = append(c.fields, f)
			}
		}

		c.index[r.ID] = len(c.rules)
		c.rules = append(c.rules, r)
	}

	if len(c.rules) == 0 {
		return nil, ErrEmptyCatalog
	}

	return c, nil
}

// Parse decodes a YAML catalog document
func Parse(data []byte) (*Catalog, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogDecode, err)
	}

	return New(doc.Rules)
}

// Load reads a YAML catalog from disk
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogRead, err)
	}

	return Parse(data)
}

// Default returns the built-in catalog
func Default() (*Catalog, error) {
	return Parse(defaultCatalogYAML)
}

// MustDefault returns the built-in catalog and panics if it is invalid
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}

	return c
}

// Len returns the number of rules in the catalog
func (c *Catalog) Len() int {
	return len(c.rules)
}

// Rules returns every rule in catalog order
func (c *Catalog) Rules() []Rule {
	out := make([]Rule, 0, len(c.rules))
	for _, r := range c.rules {
		out = append(out, r.clone())
	}

	return out
}

// ForCategory returns the rules that apply to a product of the given category, in catalog order
func (c *Catalog) ForCategory(cat Category) []Rule {
	var out []Rule

	for _, r := range c.rules {
		if r.AppliesTo(cat) {
			out = append(out, r.clone())
		}
	}

	return out
}

// Get looks up a rule by id
func (c *Catalog) Get(id string) (Rule, bool) {
	i, ok := c.index[id]
	if !ok {
		return Rule{}, false
	}

	return c.rules[i].clone(), true
}

// Fields returns every distinct required field referenced by the catalog, in first-seen order
func (c *Catalog) Fields() []string {
	out := make([]string, len(c.fields))
	copy(out, c.fields)

	return out
}
