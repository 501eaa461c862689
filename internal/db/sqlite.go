package db

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const sqliteBusyTimeout = "5000"

// SQLiteClient reads metadata from a SQLite database file or :memory:
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens path with a busy timeout so reads wait for a writer
// holding the database lock
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %s", path)
	}

	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to ping database %s", path)
	}
	return &SQLiteClient{db: db}, nil
}

// sqliteDSN appends the driver options to path, keeping options already present
func sqliteDSN(path string) string {
	if strings.Contains(path, "_busy_timeout=") {
		return path
	}
	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	return path + separator + "_busy_timeout=" + sqliteBusyTimeout
}

// Close closes the database
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database handle
func (c *SQLiteClient) GetDB() *sql.DB {
	return c.db
}
