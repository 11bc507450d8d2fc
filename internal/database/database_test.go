package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_Error(t *testing.T) {
	cfg := Config{
		Driver:             "invalid",
		ConnectionString:   "invalid",
		MaxOpenConnections: 10,
		MaxIdleConnections: 5,
		ConnMaxLifetime:    time.Hour,
	}

	db, err := Connect(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "sql: unknown driver")
}

func TestConnect_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.db")
	cfg := Config{
		Driver:             DriverSQLite,
		ConnectionString:   path,
		MaxOpenConnections: 1,
		MaxIdleConnections: 1,
		ConnMaxLifetime:    time.Hour,
	}

	db, err := Connect(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, db.Close()) }()

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	var one int
	require.NoError(t, db.QueryRow("SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}

func TestSQLitePath(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{dsn: "/tmp/data.db", want: "/tmp/data.db"},
		{dsn: "file:/tmp/data.db?_foreign_keys=on", want: "/tmp/data.db"},
		{dsn: "data.db?cache=shared", want: "data.db"},
		{dsn: ":memory:", want: ""},
		{dsn: "file::memory:?cache=shared", want: ""},
		{dsn: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, sqlitePath(tt.dsn))
		})
	}
}
