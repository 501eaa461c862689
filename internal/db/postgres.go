package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

const applicationName = "dbmeta"

// PostgresClient reads catalog metadata over one PostgreSQL connection
type PostgresClient struct {
	conn *pgx.Conn
}

// NewPostgresClient connects with a read-only session tagged with the dbmeta application name
func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	config, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, errors.Wrap(err, "invalid PostgreSQL connection string")
	}
	if _, ok := config.RuntimeParams["application_name"]; !ok {
		config.RuntimeParams["application_name"] = applicationName
	}
	config.RuntimeParams["default_transaction_read_only"] = "on"

	conn, err := pgx.ConnectConfig(ctx, config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return &PostgresClient{conn: conn}, nil
}

// Close closes the connection
func (c *PostgresClient) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// GetConnection returns the underlying connection
func (c *PostgresClient) GetConnection() *pgx.Conn {
	return c.conn
}
