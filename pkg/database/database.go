// Package database opens the bun handle used by the Northwind store.
// A postgres:// or postgresql:// DSN selects pgdriver with the Postgres dialect;
// anything else is treated as a SQLite path opened through modernc.org/sqlite.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"

	// Register the modernc sqlite driver under the name "sqlite"
	_ "modernc.org/sqlite"
)

const MemoryPath = ":memory:"

type Config struct {
	DSN          string        `envconfig:"DSN" default:"db/northwind.db"`
	MaxOpenConns int           `split_words:"true" default:"10"`
	PingTimeout  time.Duration `split_words:"true" default:"5s"`
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open returns a bun DB for cfg and verifies the connection.
func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("database.Open: dsn is required")
	}

	var db *bun.DB
	if isPostgres(dsn) {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		db = bun.NewDB(sqldb, pgdialect.New())
	} else {
		sqldb, err := openSQLite(dsn)
		if err != nil {
			return nil, err
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	// every new connection to :memory: is a separate empty database
	if dsn == MemoryPath {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database.Open: ping: %w", err)
	}

	return db, nil
}

func openSQLite(path string) (*sql.DB, error) {
	if path != MemoryPath {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("database.Open: sqlite file %q (dir %q): %w", path, filepath.Dir(path), err)
		}
	}

	// read-only workload; busy timeout covers a concurrent external writer
	dsn := path
	if path != MemoryPath {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=query_only(ON)"
	}

	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("database.Open: open %q: %w", path, err)
	}
	return sqldb, nil
}
