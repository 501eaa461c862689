package db

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/tordrt/dbmeta/internal/schema"
)

var engineNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Tables returns the base tables of a schema
func (c *MySQLClient) Tables(ctx context.Context, schemaName string) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := c.conn.QueryContext(ctx, query, schemaName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list tables of %s", schemaName)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	return tables, rows.Err()
}

// TableIndexes returns the SHOW INDEXES rows of a table in server order
func (c *MySQLClient) TableIndexes(ctx context.Context, schemaName, table string) ([]schema.IndexRow, error) {
	query := fmt.Sprintf("SHOW INDEXES FROM %s FROM %s", quoteIdentifier(table), quoteIdentifier(schemaName))
	records, err := c.records(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read indexes of %s.%s", schemaName, table)
	}

	result := make([]schema.IndexRow, 0, len(records))
	for _, item := range records {
		result = append(result, item.indexRow())
	}
	return result, nil
}

// StorageEngines returns the SHOW STORAGE ENGINES rows
func (c *MySQLClient) StorageEngines(ctx context.Context) ([]schema.EngineRow, error) {
	records, err := c.records(ctx, "SHOW STORAGE ENGINES")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read storage engines")
	}

	result := make([]schema.EngineRow, 0, len(records))
	for _, item := range records {
		result = append(result, item.engineRow())
	}
	return result, nil
}

// ServerInfo reports the server version and flavour
func (c *MySQLClient) ServerInfo(ctx context.Context) (schema.ServerInfo, error) {
	var version string
	if err := c.conn.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version); err != nil {
		return schema.ServerInfo{}, errors.Wrap(err, "failed to read server version")
	}
	return schema.ServerInfo{
		Version: parseVersion(version),
		MariaDB: strings.Contains(strings.ToLower(version), "mariadb"),
		Raw:     version,
	}, nil
}

// GlobalVariables returns the global variables matching a LIKE pattern, or all of
// them when like is empty
func (c *MySQLClient) GlobalVariables(ctx context.Context, like string) ([]schema.Variable, error) {
	variables, err := c.variables(ctx, withLike("SHOW GLOBAL VARIABLES", like))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read global variables like %s", like)
	}
	return variables, nil
}

// GlobalStatus returns the global status counters matching a LIKE pattern, or all
// of them when like is empty
func (c *MySQLClient) GlobalStatus(ctx context.Context, like string) ([]schema.Variable, error) {
	variables, err := c.variables(ctx, withLike("SHOW GLOBAL STATUS", like))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read global status like %s", like)
	}
	return variables, nil
}

func withLike(query, like string) string {
	if like == "" {
		return query
	}
	return query + " LIKE " + quoteLiteral(like)
}

// EngineStatus returns the Status text of SHOW ENGINE ... STATUS
func (c *MySQLClient) EngineStatus(ctx context.Context, engine string) (string, error) {
	if !engineNamePattern.MatchString(engine) {
		return "", errors.Errorf("invalid engine name %q", engine)
	}
	records, err := c.records(ctx, fmt.Sprintf("SHOW ENGINE %s STATUS", strings.ToUpper(engine)))
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s status", engine)
	}
	var parts []string
	for _, item := range records {
		parts = append(parts, item.text("Status"))
	}
	return strings.Join(parts, "\n"), nil
}

// FetchValue returns the first column of the first row, or "" when there is no row
func (c *MySQLClient) FetchValue(ctx context.Context, query string) (string, error) {
	var value sql.NullString
	err := c.conn.QueryRowContext(ctx, query).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to run %q", query)
	}
	return value.String, nil
}

// SelectDatabase makes a database the default of the pinned connection
func (c *MySQLClient) SelectDatabase(ctx context.Context, name string) error {
	if _, err := c.conn.ExecContext(ctx, "USE "+quoteIdentifier(name)); err != nil {
		return errors.Wrapf(err, "failed to select database %s", name)
	}
	return nil
}

func (c *MySQLClient) records(ctx context.Context, query string) ([]record, error) {
	rows, err := c.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (c *MySQLClient) variables(ctx context.Context, query string) ([]schema.Variable, error) {
	rows, err := c.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variables []schema.Variable
	for rows.Next() {
		var variable schema.Variable
		var value sql.NullString
		if err := rows.Scan(&variable.Name, &value); err != nil {
			return nil, err
		}
		variable.Value = value.String
		variables = append(variables, variable)
	}
	return variables, rows.Err()
}
