package db

import (
	"context"

	"github.com/tordrt/dbmeta/internal/schema"
)

// Extractor reads index metadata. Every client implements it; only MySQLClient
// also serves the storage engine queries.
type Extractor interface {
	Tables(ctx context.Context, schemaName string) ([]string, error)
	TableIndexes(ctx context.Context, schemaName, table string) ([]schema.IndexRow, error)
}

var (
	_ Extractor = (*MySQLClient)(nil)
	_ Extractor = (*PostgresClient)(nil)
	_ Extractor = (*SQLiteClient)(nil)
)
