// Package store persists scan results in SQLite or PostgreSQL
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver
	_ "github.com/mattn/go-sqlite3"    // registers the sqlite3 database/sql driver
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	"github.com/theopenlane/shelfcheck/internal/types"
)

const (
	// DefaultListLimit is used when List is called without a positive limit
	DefaultListLimit = 20
	// sqliteParams enables foreign keys and waits on locks instead of failing
	sqliteParams = "_foreign_keys=on&_busy_timeout=5000"
)

//go:embed migrations
var migrations embed.FS

// Driver selects the database backend
type Driver string

const (
	// DriverSQLite stores scans in a local SQLite file
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores scans in PostgreSQL
	DriverPostgres Driver = "postgres"
)

// Store is an append-only scan history
type Store struct {
	db     *sql.DB
	driver Driver
}

// Open connects to the database and applies the embedded migrations for the driver
func Open(ctx context.Context, driver Driver, dsn string) (*Store, error) {
	sqlDriver, dialect, err := driverInfo(driver)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	if driver == DriverSQLite {
		// sqlite serializes writers; a single connection avoids SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	if err := migrate(ctx, db, driver, dialect); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Store{db: db, driver: driver}, nil
}

// driverInfo maps a Driver to its database/sql driver name and goose dialect
func driverInfo(driver Driver) (string, goose.Dialect, error) {
	switch driver {
	case DriverSQLite:
		return "sqlite3", goose.DialectSQLite3, nil
	case DriverPostgres:
		return "pgx", goose.DialectPostgres, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// sqliteDSN appends the connection parameters shelfcheck relies on
func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = "./shelfcheck.db"
	}

	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqliteParams
	}

	return dsn + "?" + sqliteParams
}

// migrate applies every pending migration for the driver
func migrate(ctx context.Context, db *sql.DB, driver Driver, dialect goose.Dialect) error {
	fsys, err := fs.Sub(migrations, "migrations/"+string(driver))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys,
		goose.WithLogger(gooseLogger{}),
		goose.WithDisableGlobalRegistry(true),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}

	for _, r := range results {
		log.Debug().Str("migration", r.Source.Path).Dur("duration", r.Duration).Msg("applied scan store migration")
	}

	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Save appends a scan. Ids are never reused
func (s *Store) Save(ctx context.Context, r *types.ScanResult) error {
	if r == nil || r.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidScan)
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScan, err)
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO scans (id, url, category, risk_score, trust_score, scanned_at, result)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		r.ID, r.URL, string(r.Category), r.RiskScore, r.TrustIndex.Score, r.ScannedAt, string(data),
	)
	if err != nil {
		return fmt.Errorf("saving scan %s: %w", r.ID, err)
	}

	return nil
}

// Get returns the scan with the given id, or ErrNotFound
func (s *Store) Get(ctx context.Context, id string) (*types.ScanResult, error) {
	var data string

	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT result FROM scans WHERE id = ?`), id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("loading scan %s: %w", id, err)
	}

	return decode(data)
}

// List returns up to limit scans, newest first
func (s *Store) List(ctx context.Context, limit int) ([]types.ScanResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT result FROM scans
		ORDER BY scanned_at DESC, id DESC
		LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	defer rows.Close() //nolint:errcheck // rows close error is surfaced by rows.Err

	out := make([]types.ScanResult, 0, limit)

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("listing scans: %w", err)
		}

		r, err := decode(data)
		if err != nil {
			return nil, err
		}

		out = append(out, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}

	return out, nil
}

func decode(data string) (*types.ScanResult, error) {
	var r types.ScanResult
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("decoding stored scan: %w", err)
	}

	return &r, nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL. Every ? is rewritten, so
// queries must not contain a literal ? in strings or comments
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}

	var (
		b strings.Builder
		n int
	)

	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// gooseLogger routes migration output through zerolog
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	log.Debug().Msgf(strings.TrimSpace(format), v...)
}

func (gooseLogger) Fatalf(format string, v ...any) {
	log.Error().Msgf(strings.TrimSpace(format), v...)
}
