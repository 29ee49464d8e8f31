package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/heritage-atlas/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var (
	_ driven.SiteStore = (*Store)(nil)
	_ driven.ImportLog = (*Store)(nil)
)

// Store is a SQLite-backed site snapshot.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.atlas/data/sites.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".atlas", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return Open(filepath.Join(dataDir, "sites.db"))
}

// Open opens the database file at dbPath and applies pending migrations.
func Open(dbPath string) (*Store, error) {
	// WAL mode lets readers proceed during an import.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_sites.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// Version returns the applied schema version.
func (s *Store) Version(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// Replace swaps a category's stored records in one transaction, so the
// snapshot always mirrors the latest import of each sheet.
func (s *Store) Replace(ctx context.Context, category domain.Category, records []domain.SiteRecord) error {
	for _, rec := range records {
		if rec.Category != category {
			return fmt.Errorf("%w: site %s is %s, not %s", domain.ErrInvalidInput, rec.ID, rec.Category, category)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sites WHERE category = ?", string(category)); err != nil {
		return fmt.Errorf("clearing %s sites: %w", category, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sites (id, category, name, description, lat, lng, attributes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, rec := range records {
		attrs, err := json.Marshal(rec.Attributes)
		if err != nil {
			return fmt.Errorf("marshalling attributes of %s: %w", rec.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, string(rec.Category), rec.Name, rec.Description,
			rec.Coordinates.Lat, rec.Coordinates.Lng, string(attrs), now); err != nil {
			return fmt.Errorf("saving site %s: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

// List returns every record in insertion order.
func (s *Store) List(ctx context.Context) ([]domain.SiteRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, name, description, lat, lng, attributes
		FROM sites ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("listing sites: %w", err)
	}
	defer rows.Close()
	return scanSites(rows)
}

// ListByCategory returns one category's records in insertion order.
func (s *Store) ListByCategory(ctx context.Context, category domain.Category) ([]domain.SiteRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, name, description, lat, lng, attributes
		FROM sites WHERE category = ? ORDER BY seq
	`, string(category))
	if err != nil {
		return nil, fmt.Errorf("listing %s sites: %w", category, err)
	}
	defer rows.Close()
	return scanSites(rows)
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sites").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting sites: %w", err)
	}
	return n, nil
}

// RecordImport appends an entry to the import history.
func (s *Store) RecordImport(ctx context.Context, source string, report domain.IngestReport) error {
	var rejected sql.NullString
	if report.Rejected != nil {
		rejected = sql.NullString{String: report.Rejected.Error(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO imports (category, source, row_count, added, skipped, rejected, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, string(report.Category), source, report.Rows, report.Added, len(report.Skipped), rejected, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("recording import: %w", err)
	}
	return nil
}

// Imports returns the import history, newest first.
func (s *Store) Imports(ctx context.Context, limit int) ([]domain.ImportEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, source, row_count, added, skipped, rejected, imported_at
		FROM imports ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing imports: %w", err)
	}
	defer rows.Close()

	var out []domain.ImportEntry
	for rows.Next() {
		var (
			e        domain.ImportEntry
			category string
			rejected sql.NullString
		)
		if err := rows.Scan(&category, &e.Source, &e.Rows, &e.Added, &e.Skipped, &rejected, &e.ImportedAt); err != nil {
			return nil, fmt.Errorf("scanning import: %w", err)
		}
		e.Category = domain.Category(category)
		e.Rejected = rejected.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanSites(rows *sql.Rows) ([]domain.SiteRecord, error) {
	var out []domain.SiteRecord
	for rows.Next() {
		var (
			rec      domain.SiteRecord
			category string
			attrs    string
		)
		if err := rows.Scan(&rec.ID, &category, &rec.Name, &rec.Description,
			&rec.Coordinates.Lat, &rec.Coordinates.Lng, &attrs); err != nil {
			return nil, fmt.Errorf("scanning site: %w", err)
		}
		rec.Category = domain.Category(category)
		if err := json.Unmarshal([]byte(attrs), &rec.Attributes); err != nil {
			return nil, fmt.Errorf("unmarshalling attributes of %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
