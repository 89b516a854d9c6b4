package db

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/jmoiron/sqlx"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	url := fmt.Sprintf("sqlite://%s", filepath.Join(t.TempDir(), "test.db"))
	db, err := Open(context.Background(), url)
	if err != nil {
		t.Fatalf("Open(%s) error = %v", url, err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_UnsupportedScheme(t *testing.T) {
	_, err := Open(context.Background(), "mysql://localhost/products")
	if err == nil {
		t.Error("expected error for unsupported scheme")
	}
}

func TestDataSource(t *testing.T) {
	tests := []struct {
		url        string
		wantDriver string
		wantDSN    string
	}{
		{"sqlite://products.db", "sqlite3", "products.db" + sqliteOptions},
		{"sqlite://data/products.db", "sqlite3", "data/products.db" + sqliteOptions},
		{"sqlite:///var/lib/products.db", "sqlite3", "/var/lib/products.db" + sqliteOptions},
		{"postgres://app@localhost/products", "postgres", "postgres://app@localhost/products"},
		{"postgresql://localhost/products", "postgres", "postgresql://localhost/products"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			driver, dsn, err := dataSource(tt.url)
			if err != nil {
				t.Fatalf("dataSource() error = %v, want nil", err)
			}
			if driver != tt.wantDriver || dsn != tt.wantDSN {
				t.Errorf("dataSource() = %q, %q, want %q, %q", driver, dsn, tt.wantDriver, tt.wantDSN)
			}
		})
	}
}

func TestMigrateUp(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	applied, err := MigrateUp(ctx, db)
	if err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	if len(applied) != 1 || applied[0] != "001_products.sql" {
		t.Errorf("applied = %v, want [001_products.sql]", applied)
	}

	// Second run is a no-op.
	applied, err = MigrateUp(ctx, db)
	if err != nil {
		t.Fatalf("second MigrateUp() error = %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("second run applied = %v, want none", applied)
	}

	var n int
	if err := db.GetContext(ctx, &n, "SELECT COUNT(*) FROM products"); err != nil {
		t.Fatalf("products table missing: %v", err)
	}
}

func TestMigrateStatus(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	statuses, err := MigrateStatus(ctx, db)
	if err != nil {
		t.Fatalf("MigrateStatus() error = %v", err)
	}
	if len(statuses) != 1 || statuses[0].Applied {
		t.Fatalf("statuses = %+v, want one pending", statuses)
	}

	if _, err := MigrateUp(ctx, db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	statuses, err = MigrateStatus(ctx, db)
	if err != nil {
		t.Fatalf("MigrateStatus() error = %v", err)
	}
	if !statuses[0].Applied || statuses[0].AppliedAt == nil {
		t.Errorf("status = %+v, want applied with timestamp", statuses[0])
	}
}

func TestMigrateUp_ChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if _, err := MigrateUp(ctx, db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	if _, err := db.ExecContext(ctx, "UPDATE migrations SET checksum = 'tampered'"); err != nil {
		t.Fatal(err)
	}

	if _, err := MigrateUp(ctx, db); err == nil {
		t.Error("expected checksum mismatch error")
	}
}

func TestParseMigrationFiles_Order(t *testing.T) {
	fsys := fstest.MapFS{
		"m/002_b.sql":  {Data: []byte("SELECT 2;")},
		"m/001_a.sql":  {Data: []byte("SELECT 1;")},
		"m/readme.txt": {Data: []byte("ignored")},
	}

	migrations, err := parseMigrationFiles(fsys, "m")
	if err != nil {
		t.Fatalf("parseMigrationFiles() error = %v", err)
	}
	if len(migrations) != 2 || migrations[0].ID != "001_a.sql" || migrations[1].ID != "002_b.sql" {
		t.Errorf("migrations = %+v, want 001_a.sql, 002_b.sql", migrations)
	}
}

func TestSplitStatements(t *testing.T) {
	sql := `-- leading comment
CREATE TABLE a (x TEXT);

-- another
CREATE INDEX i ON a (x);
`
	stmts := splitStatements(sql)
	if len(stmts) != 2 {
		t.Fatalf("len(stmts) = %d, want 2: %q", len(stmts), stmts)
	}
	if stmts[0] != "CREATE TABLE a (x TEXT)" {
		t.Errorf("stmts[0] = %q", stmts[0])
	}
}

func TestLoadQueries(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	if _, err := MigrateUp(ctx, db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	q, err := LoadQueries(db)
	if err != nil {
		t.Fatalf("LoadQueries() error = %v", err)
	}

	if _, err := q.Exec(ctx, "no-such-query"); err == nil {
		t.Error("expected error for unknown query")
	}

	_, err = q.Exec(ctx, "insert-product", "p-1", "W600", nil, "2026-01-01T00:00:00Z", "2026-01-01T00:00:00Z")
	if err != nil {
		t.Fatalf("Exec(insert-product) error = %v", err)
	}

	var typeclass string
	if err := db.GetContext(ctx, &typeclass, "SELECT typeclass FROM products WHERE product_id = 'p-1'"); err != nil {
		t.Fatalf("select inserted product: %v", err)
	}
	if typeclass != "W600" {
		t.Errorf("typeclass = %v, want W600", typeclass)
	}
}
