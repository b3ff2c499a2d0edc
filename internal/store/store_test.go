package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theopenlane/shelfcheck/internal/compliance"
	"github.com/theopenlane/shelfcheck/internal/product"
	"github.com/theopenlane/shelfcheck/internal/rules"
	"github.com/theopenlane/shelfcheck/internal/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "scans.db"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func testScan(id string, scannedAt int64) *types.ScanResult {
	return &types.ScanResult{
		ID:        id,
		URL:       "https://www.amazon.in/dp/" + id,
		ScannedAt: scannedAt,
		EvaluationResult: types.EvaluationResult{
			Category:  rules.CategoryElectronics,
			RiskScore: 70,
			Violations: []compliance.Violation{
				{RuleID: "EC-06", Severity: rules.SeverityHigh, Description: "Return policy must be visible – missing or unclear: returns"},
			},
			TrustIndex: compliance.TrustIndex{Score: 55, Reasons: []string{"No returns information visible."}},
			Product:    &product.ProductData{URL: "https://www.amazon.in/dp/" + id, Title: "Earbuds", Price: &product.Price{Deal: product.Float(999)}},
		},
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "dsn")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scans.db")

	s, err := Open(context.Background(), DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), testScan("a", 1)))
	require.NoError(t, s.Close())

	s, err = Open(context.Background(), DriverSQLite, path)
	require.NoError(t, err)

	defer s.Close() //nolint:errcheck

	got, err := s.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := testScan("0b6f0c1e", 1705316400)
	require.NoError(t, s.Save(ctx, in))

	out, err := s.Get(ctx, "0b6f0c1e")
	require.NoError(t, err)

	assert.Equal(t, in.URL, out.URL)
	assert.Equal(t, in.ScannedAt, out.ScannedAt)
	assert.Equal(t, rules.CategoryElectronics, out.Category)
	assert.Equal(t, 70, out.RiskScore)
	assert.Equal(t, in.Violations, out.Violations)
	assert.Equal(t, in.TrustIndex, out.TrustIndex)
	require.NotNil(t, out.Product)
	assert.InDelta(t, 999.0, *out.Product.Price.Deal, 0.001)
	assert.Nil(t, out.Normalized)
}

func TestSave_AppendOnly(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testScan("dup", 1)))
	assert.Error(t, s.Save(ctx, testScan("dup", 2)), "ids are never overwritten")
}

func TestSave_Invalid(t *testing.T) {
	s := openTestStore(t)

	assert.ErrorIs(t, s.Save(context.Background(), nil), ErrInvalidScan)
	assert.ErrorIs(t, s.Save(context.Background(), &types.ScanResult{}), ErrInvalidScan)
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Save(ctx, testScan(fmt.Sprintf("scan-%d", i), int64(1000+i))))
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "scan-5", all[0].ID)
	assert.Equal(t, "scan-1", all[4].ID)

	top, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, []string{"scan-5", "scan-4"}, []string{top[0].ID, top[1].ID})
}

func TestList_Empty(t *testing.T) {
	s := openTestStore(t)

	out, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestPing(t *testing.T) {
	assert.NoError(t, openTestStore(t).Ping(context.Background()))
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	lite := &Store{driver: DriverSQLite}

	q := "SELECT * FROM scans WHERE id = ? AND url = ? LIMIT ?"

	assert.Equal(t, "SELECT * FROM scans WHERE id = $1 AND url = $2 LIMIT $3", pg.rebind(q))
	assert.Equal(t, q, lite.rebind(q))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "./shelfcheck.db?"+sqliteParams, sqliteDSN(""))
	assert.Equal(t, "file:x.db?mode=rwc&"+sqliteParams, sqliteDSN("file:x.db?mode=rwc"))
}
