package db

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// MySQLClient manages the connection to MySQL.
// Queries run on one pinned connection so USE and session state carry over between calls.
type MySQLClient struct {
	db   *sql.DB
	conn *sql.Conn
}

// NewMySQLClient creates a new MySQL client
func NewMySQLClient(ctx context.Context, connString string) (*MySQLClient, error) {
	db, err := sql.Open("mysql", connString)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	client, err := newMySQLClient(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return client, nil
}

func newMySQLClient(ctx context.Context, db *sql.DB) (*MySQLClient, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to acquire connection")
	}
	return &MySQLClient{db: db, conn: conn}, nil
}

// Close closes the database connection
func (c *MySQLClient) Close() error {
	if err := c.conn.Close(); err != nil {
		_ = c.db.Close()
		return err
	}
	return c.db.Close()
}

// GetDB returns the underlying database connection
func (c *MySQLClient) GetDB() *sql.DB {
	return c.db
}

// ParseDatabaseName extracts the database name from a MySQL DSN
func ParseDatabaseName(connString string) (string, error) {
	cfg, err := mysql.ParseDSN(connString)
	if err != nil {
		return "", errors.Wrap(err, "invalid MySQL connection string")
	}
	if cfg.DBName == "" {
		return "", errors.New("no database name in MySQL connection string")
	}
	return cfg.DBName, nil
}
