// Package db opens the product database and owns its schema and queries.
//
// Products live in SQLite for local runs and in PostgreSQL when shared.
// Both the migrations and the named queries are embedded in the binary.
package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Pool limits. A prodrules run holds one transaction per product write.
const (
	maxOpenConns    = 8
	maxIdleConns    = 2
	connMaxIdleTime = 5 * time.Minute
	connMaxLifetime = 30 * time.Minute
)

// sqliteOptions is appended to every SQLite path. go-sqlite3 applies DSN
// options per pooled connection, which PRAGMA statements would not.
const sqliteOptions = "?_foreign_keys=on&_busy_timeout=5000"

// Open connects to the product database named by dbURL and checks it is
// reachable.
//
//	sqlite://products.db          relative path
//	sqlite:///var/lib/products.db absolute path
//	postgres://host/products      passed to lib/pq unchanged
func Open(ctx context.Context, dbURL string) (*sqlx.DB, error) {
	driver, dsn, err := dataSource(dbURL)
	if err != nil {
		return nil, err
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetMaxIdleConns(maxIdleConns)
	conn.SetConnMaxIdleTime(connMaxIdleTime)
	conn.SetConnMaxLifetime(connMaxLifetime)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// dataSource maps a database URL to a sql driver name and DSN.
func dataSource(dbURL string) (driver, dsn string, err error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid database URL: %w", err)
	}

	switch u.Scheme {
	case "sqlite":
		// The host carries the first segment of a relative path.
		return "sqlite3", u.Host + u.Path + sqliteOptions, nil
	case "postgres", "postgresql":
		return "postgres", dbURL, nil
	default:
		return "", "", fmt.Errorf("unsupported database scheme: %s (expected sqlite or postgres)", u.Scheme)
	}
}
