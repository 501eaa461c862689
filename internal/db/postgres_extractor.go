package db

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/tordrt/dbmeta/internal/schema"
)

// Tables returns the base tables of a schema
func (c *PostgresClient) Tables(ctx context.Context, schemaName string) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := c.conn.Query(ctx, query, schemaName)
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

// TableIndexes maps pg_index entries onto SHOW INDEXES style rows.
// The primary key index is reported under the name PRIMARY; expression
// columns carry their definition and no column name.
func (c *PostgresClient) TableIndexes(ctx context.Context, schemaName, table string) ([]schema.IndexRow, error) {
	query := `
		SELECT
			CASE WHEN ix.indisprimary THEN 'PRIMARY' ELSE i.relname END AS key_name,
			NOT ix.indisunique AS non_unique,
			k.ord::int AS seq_in_index,
			a.attname AS column_name,
			CASE WHEN k.attnum = 0 THEN pg_get_indexdef(ix.indexrelid, k.ord::int, true) END AS expression,
			COALESCE(a.attnotnull, false) AS not_null,
			upper(am.amname) AS index_type,
			COALESCE(obj_description(i.oid, 'pg_class'), '') AS index_comment,
			GREATEST(i.reltuples, 0)::bigint AS cardinality
		FROM pg_class t
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_index ix ON ix.indrelid = t.oid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_am am ON am.oid = i.relam
		CROSS JOIN LATERAL unnest(ix.indkey::int2[]) WITH ORDINALITY AS k(attnum, ord)
		LEFT JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum AND k.attnum > 0
		WHERE n.nspname = $1
			AND t.relname = $2
			AND k.ord <= ix.indnkeyatts
		ORDER BY ix.indisprimary DESC, i.relname, k.ord
	`

	rows, err := c.conn.Query(ctx, query, schemaName, table)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read indexes of %s.%s", schemaName, table)
	}
	defer rows.Close()

	ascending := "A"
	var result []schema.IndexRow
	for rows.Next() {
		var (
			row         schema.IndexRow
			columnName  *string
			expression  *string
			notNull     bool
			cardinality int64
		)
		if err := rows.Scan(&row.KeyName, &row.NonUnique, &row.SeqInIndex, &columnName, &expression,
			&notNull, &row.IndexType, &row.IndexComment, &cardinality); err != nil {
			return nil, err
		}

		row.Table = table
		row.ColumnName = columnName
		row.Expression = expression
		row.Collation = &ascending
		row.Cardinality = &cardinality
		if !notNull {
			row.Null = "YES"
		}
		if row.IndexType == "GIST" && !strings.EqualFold(row.KeyName, "PRIMARY") {
			row.IndexType = "SPATIAL"
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
