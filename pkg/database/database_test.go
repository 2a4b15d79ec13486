package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/dialect"
)

func TestOpenInMemorySQLite(t *testing.T) {
	db, err := Open(context.Background(), Config{DSN: MemoryPath})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, dialect.SQLite, db.Dialect().Name())

	var one int
	require.NoError(t, db.NewRaw("SELECT 1").Scan(context.Background(), &one))
	assert.Equal(t, 1, one)
}

func TestOpenMissingSQLiteFile(t *testing.T) {
	_, err := Open(context.Background(), Config{DSN: filepath.Join(t.TempDir(), "absent.db")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.db")
}

func TestOpenEmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), Config{DSN: "  "})
	require.Error(t, err)
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, isPostgres("postgres://u:p@localhost:5432/northwind"))
	assert.True(t, isPostgres("postgresql://localhost/northwind"))
	assert.False(t, isPostgres("db/northwind.db"))
	assert.False(t, isPostgres(MemoryPath))
}
