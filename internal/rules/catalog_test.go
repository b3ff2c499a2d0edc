package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 40, c.Len())

	seen := make(map[string]bool)
	for _, r := range c.Rules() {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true

		assert.True(t, r.Category.Valid(), "rule %s", r.ID)
		assert.True(t, r.Severity.Valid(), "rule %s", r.ID)
		assert.NotEmpty(t, r.RequiredFields, "rule %s", r.ID)
	}

	first := c.Rules()[0]
	assert.Equal(t, "EC-01", first.ID)
	assert.Equal(t, "E-Commerce Rules 2020 – Rule 4(2)(a)", first.Law)
}

func TestDefaultCatalog_EveryCategoryPopulated(t *testing.T) {
	c := MustDefault()

	for _, cat := range Categories() {
		count := 0

		for _, r := range c.Rules() {
			if r.Category == cat {
				count++
			}
		}

		assert.Positive(t, count, "category %s has no rules", cat)
	}
}

func TestForCategory(t *testing.T) {
	c := MustDefault()

	all := c.ForCategory(CategoryAll)
	assert.Len(t, all, 11)

	for _, r := range all {
		assert.Equal(t, CategoryAll, r.Category)
	}

	health := c.ForCategory(CategoryHealth)
	assert.Len(t, health, 15)
	assert.Equal(t, "EC-01", health[0].ID)
	assert.Equal(t, "HL-04", health[len(health)-1].ID)

	for _, r := range health {
		assert.Contains(t, []Category{CategoryAll, CategoryHealth}, r.Category)
	}
}

func TestGuaranteedClaimRuleKeepsBothFields(t *testing.T) {
	r, ok := MustDefault().Get("HL-03")
	require.True(t, ok)

	assert.Equal(t, []string{"guaranteed", "100%"}, r.RequiredFields)
}

func TestGet_Unknown(t *testing.T) {
	_, ok := MustDefault().Get("XX-99")
	assert.False(t, ok)
}

func TestFields_FirstSeenOrder(t *testing.T) {
	fields := MustDefault().Fields()

	require.NotEmpty(t, fields)
	assert.Equal(t, "seller", fields[0])
	assert.Contains(t, fields, "100%")
	assert.Contains(t, fields, "energy_rating")

	seen := make(map[string]bool)
	for _, f := range fields {
		assert.False(t, seen[f], "duplicate field %s", f)
		seen[f] = true
	}
}

func TestCatalogIsImmutable(t *testing.T) {
	c := MustDefault()

	rs := c.Rules()
	rs[0].Title = "mutated"
	rs[0].RequiredFields[0] = "mutated"

	r, ok := c.Get("EC-01")
	require.True(t, ok)
	assert.Equal(t, "Seller name must be disclosed", r.Title)
	assert.Equal(t, []string{"seller"}, r.RequiredFields)

	fields := c.Fields()
	fields[0] = "mutated"
	assert.Equal(t, "seller", c.Fields()[0])
}

func TestNew_Validation(t *testing.T) {
	valid := Rule{ID: "X-01", Title: "x", Category: "all", Severity: "HIGH", RequiredFields: []string{"seller"}}

	tests := []struct {
		name    string
		rules   []Rule
		wantErr error
	}{
		{
			name:    "empty",
			rules:   nil,
			wantErr: ErrEmptyCatalog,
		},
		{
			name:    "missing id",
			rules:   []Rule{{Title: "x", Category: "all", Severity: "HIGH", RequiredFields: []string{"a"}}},
			wantErr: ErrInvalidRule,
		},
		{
			name:    "no fields",
			rules:   []Rule{{ID: "X-02", Title: "x", Category: "all", Severity: "HIGH"}},
			wantErr: ErrInvalidRule,
		},
		{
			name:    "duplicate",
			rules:   []Rule{valid, valid},
			wantErr: ErrDuplicateRuleID,
		},
		{
			name:    "only unknown categories",
			rules:   []Rule{{ID: "X-03", Title: "x", Category: "garden", Severity: "HIGH", RequiredFields: []string{"a"}}},
			wantErr: ErrEmptyCatalog,
		},
		{
			name:    "unknown severity",
			rules:   []Rule{{ID: "X-04", Title: "x", Category: "all", Severity: "CRITICAL", RequiredFields: []string{"a"}}},
			wantErr: ErrUnknownSeverity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.rules)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestNew_SkipsUnknownCategory(t *testing.T) {
	c, err := New([]Rule{
		{ID: "EC-01", Title: "Seller name", Category: "all", Severity: "HIGH", RequiredFields: []string{"seller"}},
		{ID: "GD-01", Title: "Soil type", Category: "garden", Severity: "LOW", RequiredFields: []string{"soil"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, c.Len())

	_, ok := c.Get("GD-01")
	assert.False(t, ok)
	assert.NotContains(t, c.Fields(), "soil")

	for _, cat := range Categories() {
		for _, r := range c.ForCategory(cat) {
			assert.NotEqual(t, "GD-01", r.ID)
		}
	}
}

func TestNew_NormalizesCase(t *testing.T) {
	c, err := New([]Rule{{ID: "X-01", Title: "x", Category: " Food ", Severity: "medium", RequiredFields: []string{"expiry"}}})
	require.NoError(t, err)

	r, ok := c.Get("X-01")
	require.True(t, ok)
	assert.Equal(t, CategoryFood, r.Category)
	assert.Equal(t, SeverityMedium, r.Severity)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	doc := `rules:
  - id: T-01
    title: Seller must be named
    law: Test Act
    category: all
    severity: LOW
    required_fields: [seller]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, []string{"seller"}, c.Fields())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrCatalogRead)

	_, err = Parse([]byte("rules: [this is: not: valid"))
	assert.ErrorIs(t, err, ErrCatalogDecode)
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("ELECTRONICS")
	assert.True(t, ok)
	assert.Equal(t, CategoryElectronics, c)

	_, ok = ParseCategory("furniture")
	assert.False(t, ok)
}
