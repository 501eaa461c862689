package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/tordrt/dbmeta/internal/schema"
)

const sqlitePrimary = "PRIMARY"

type sqliteColumn struct {
	name    string
	notNull bool
	pk      int
}

type sqliteIndex struct {
	name    string
	unique  bool
	origin  string
	partial bool
}

// Tables returns the user tables. SQLite has a single schema, so the name is ignored.
func (c *SQLiteClient) Tables(ctx context.Context, _ string) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tables")
	}
	defer rows.Close()

	var tableList []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tableList = append(tableList, tableName)
	}

	return tableList, rows.Err()
}

// TableIndexes maps PRAGMA index_list and index_xinfo onto SHOW INDEXES style rows.
// A rowid primary key has no index entry and is reported from table_info instead.
func (c *SQLiteClient) TableIndexes(ctx context.Context, _ string, table string) ([]schema.IndexRow, error) {
	columns, err := c.tableColumns(ctx, table)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read columns of %s", table)
	}
	indexes, err := c.indexList(ctx, table)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read indexes of %s", table)
	}

	notNull := make(map[string]bool, len(columns))
	for _, column := range columns {
		notNull[column.name] = column.notNull
	}

	var result []schema.IndexRow
	hasPrimary := false
	for _, idx := range indexes {
		if idx.origin == "pk" {
			hasPrimary = true
		}
	}
	if !hasPrimary {
		result = append(result, rowidPrimary(table, columns)...)
	}

	for _, idx := range indexes {
		rows, err := c.indexColumns(ctx, table, idx, notNull)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read columns of index %s", idx.name)
		}
		if idx.origin == "pk" {
			result = append(rows, result...)
			continue
		}
		result = append(result, rows...)
	}
	return result, nil
}

func rowidPrimary(table string, columns []sqliteColumn) []schema.IndexRow {
	var result []schema.IndexRow
	for _, column := range columns {
		if column.pk == 0 {
			continue
		}
		name := column.name
		ascending := "A"
		result = append(result, schema.IndexRow{
			Table:      table,
			KeyName:    sqlitePrimary,
			SeqInIndex: column.pk,
			ColumnName: &name,
			Collation:  &ascending,
			IndexType:  "BTREE",
		})
	}
	return result
}

func (c *SQLiteClient) tableColumns(ctx context.Context, table string) ([]sqliteColumn, error) {
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteSQLite(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []sqliteColumn
	for rows.Next() {
		var cid, notNull, pk int
		var name, colType string
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, err
		}
		columns = append(columns, sqliteColumn{name: name, notNull: notNull == 1, pk: pk})
	}
	return columns, rows.Err()
}

func (c *SQLiteClient) indexList(ctx context.Context, table string) ([]sqliteIndex, error) {
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%s)", quoteSQLite(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []sqliteIndex
	for rows.Next() {
		var seq, unique, partial int
		var name, origin string

		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			return nil, err
		}
		indexes = append(indexes, sqliteIndex{name: name, unique: unique == 1, origin: origin, partial: partial == 1})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// index_list reports the newest index first
	for i, j := 0, len(indexes)-1; i < j; i, j = i+1, j-1 {
		indexes[i], indexes[j] = indexes[j], indexes[i]
	}
	return indexes, nil
}

func (c *SQLiteClient) indexColumns(ctx context.Context, table string, idx sqliteIndex, notNull map[string]bool) ([]schema.IndexRow, error) {
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_xinfo(%s)", quoteSQLite(idx.name)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keyName := idx.name
	if idx.origin == "pk" {
		keyName = sqlitePrimary
	}
	comment := ""
	if idx.partial {
		comment = "partial"
	}

	var result []schema.IndexRow
	for rows.Next() {
		var seqno, cid, desc, key int
		var name, collation sql.NullString

		if err := rows.Scan(&seqno, &cid, &name, &desc, &collation, &key); err != nil {
			return nil, err
		}
		if key == 0 {
			continue
		}

		order := "A"
		if desc == 1 {
			order = "D"
		}
		row := schema.IndexRow{
			Table:      table,
			NonUnique:  !idx.unique,
			KeyName:    keyName,
			SeqInIndex: seqno + 1,
			Collation:  &order,
			IndexType:  "BTREE",
			Comment:    comment,
		}
		if cid == -2 {
			expression := "<expression>"
			row.Expression = &expression
		} else if name.Valid {
			column := name.String
			row.ColumnName = &column
			if !notNull[column] {
				row.Null = "YES"
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func quoteSQLite(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
