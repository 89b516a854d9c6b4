package db

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	embeddedmigrations "github.com/solatis/prodrules/migrations"
)

// MigrationStatus represents the state of a single migration.
type MigrationStatus struct {
	ID          string  `db:"migration_id"`
	Checksum    string  `db:"checksum"`
	Applied     bool    `db:"-"`
	AppliedAt   *string `db:"applied_at"`
	ExecutionMs int64   `db:"execution_ms"`
}

// migration represents a parsed migration file
type migration struct {
	ID       string
	Checksum string
	SQL      string
}

// MigrateUp runs all pending migrations against the database.
// Selects the embedded migrations for the driver, validates checksums of
// applied migrations, and applies pending ones in filename order.
// Returns the IDs of migrations applied by this call.
func MigrateUp(ctx context.Context, db *sqlx.DB) ([]string, error) {
	migrations, err := prepare(ctx, db)
	if err != nil {
		return nil, err
	}

	// SHA256 hash detects modification of applied migrations
	if err := validateChecksums(ctx, db, migrations); err != nil {
		return nil, fmt.Errorf("migration checksum validation failed: %w", err)
	}

	applied, err := getAppliedMigrations(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}

	var done []string
	for _, m := range migrations {
		if applied[m.ID] {
			continue
		}
		if err := runMigration(ctx, db, m); err != nil {
			return done, err
		}
		done = append(done, m.ID)
	}

	return done, nil
}

// MigrateStatus returns the status of all migrations (applied and pending).
func MigrateStatus(ctx context.Context, db *sqlx.DB) ([]MigrationStatus, error) {
	migrations, err := prepare(ctx, db)
	if err != nil {
		return nil, err
	}

	var rows []MigrationStatus
	err = db.SelectContext(ctx, &rows,
		"SELECT migration_id, checksum, applied_at, execution_ms FROM migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}

	applied := make(map[string]MigrationStatus, len(rows))
	for _, s := range rows {
		s.Applied = true
		applied[s.ID] = s
	}

	statuses := make([]MigrationStatus, 0, len(migrations))
	for _, m := range migrations {
		if s, ok := applied[m.ID]; ok {
			statuses = append(statuses, s)
			continue
		}
		statuses = append(statuses, MigrationStatus{ID: m.ID, Checksum: m.Checksum})
	}

	return statuses, nil
}

// prepare ensures the tracking table exists and parses the driver's migrations.
func prepare(ctx context.Context, db *sqlx.DB) ([]migration, error) {
	fsys, dir, err := migrationSource(db.DriverName())
	if err != nil {
		return nil, err
	}

	if err := createMigrationsTable(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := parseMigrationFiles(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to parse migrations: %w", err)
	}
	return migrations, nil
}

func migrationSource(driver string) (fs.FS, string, error) {
	switch driver {
	case "sqlite3":
		return embeddedmigrations.SqliteMigrations, "sqlite", nil
	case "postgres":
		return embeddedmigrations.PostgresMigrations, "postgres", nil
	default:
		return nil, "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// parseMigrationFiles extracts ordered list of migrations from fsys
func parseMigrationFiles(fsys fs.FS, dir string) ([]migration, error) {
	var migrations []migration

	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".sql") {
			return nil
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		migrations = append(migrations, migration{
			ID:       filepath.Base(path),
			Checksum: fmt.Sprintf("%x", sha256.Sum256(content)),
			SQL:      string(content),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].ID < migrations[j].ID
	})

	return migrations, nil
}

// createMigrationsTable ensures migrations tracking table exists.
// applied_at is RFC3339 text on both drivers.
func createMigrationsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS migrations (
			migration_id TEXT PRIMARY KEY,
			checksum TEXT NOT NULL,
			applied_at TEXT NOT NULL,
			execution_ms INTEGER NOT NULL
		)
	`)
	return err
}

// getAppliedMigrations returns a set of applied migration IDs
func getAppliedMigrations(ctx context.Context, db *sqlx.DB) (map[string]bool, error) {
	var ids []string
	if err := db.SelectContext(ctx, &ids, "SELECT migration_id FROM migrations"); err != nil {
		return nil, err
	}

	applied := make(map[string]bool, len(ids))
	for _, id := range ids {
		applied[id] = true
	}
	return applied, nil
}

// validateChecksums verifies all applied migrations match embedded checksums
func validateChecksums(ctx context.Context, db *sqlx.DB, migrations []migration) error {
	var rows []struct {
		ID       string `db:"migration_id"`
		Checksum string `db:"checksum"`
	}
	if err := db.SelectContext(ctx, &rows, "SELECT migration_id, checksum FROM migrations"); err != nil {
		return err
	}

	expected := make(map[string]string, len(migrations))
	for _, m := range migrations {
		expected[m.ID] = m.Checksum
	}

	for _, r := range rows {
		want, ok := expected[r.ID]
		if !ok {
			return fmt.Errorf("migration %s exists in database but not in embedded files", r.ID)
		}
		if r.Checksum != want {
			return fmt.Errorf("checksum mismatch for migration %s: expected %s, got %s", r.ID, want, r.Checksum)
		}
	}

	return nil
}

// runMigration applies one migration and records it in the same transaction.
func runMigration(ctx context.Context, db *sqlx.DB, m migration) error {
	start := time.Now()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %s: %w", m.ID, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	// lib/pq doesn't support multiple statements in single Exec
	for _, stmt := range splitStatements(m.SQL) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration %s: statement failed: %w", m.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(
		"INSERT INTO migrations (migration_id, checksum, applied_at, execution_ms) VALUES (?, ?, ?, ?)"),
		m.ID, m.Checksum, time.Now().UTC().Format(time.RFC3339), time.Since(start).Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record migration %s: %w", m.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", m.ID, err)
	}
	return nil
}

// splitStatements drops "--" comment lines and splits on semicolons.
func splitStatements(sql string) []string {
	var b strings.Builder
	for _, line := range strings.Split(sql, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	var stmts []string
	for _, stmt := range strings.Split(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
