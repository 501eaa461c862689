package db

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/tordrt/dbmeta/internal/schema"
)

// record is one result row keyed by column name. Servers add and drop columns of
// SHOW statements between versions, so rows are read by name rather than position.
type record map[string]sql.NullString

func scanRecords(rows *sql.Rows) ([]record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []record
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		targets := make([]interface{}, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		item := make(record, len(columns))
		for i, column := range columns {
			item[column] = values[i]
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r record) text(column string) string {
	return r[column].String
}

func (r record) optional(column string) *string {
	value, ok := r[column]
	if !ok || !value.Valid {
		return nil
	}
	text := value.String
	return &text
}

func (r record) number(column string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(r[column].String))
	return n
}

func (r record) optionalNumber(column string) *int {
	value := r.optional(column)
	if value == nil {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*value))
	if err != nil {
		return nil
	}
	return &n
}

func (r record) optionalInt64(column string) *int64 {
	value := r.optional(column)
	if value == nil {
		return nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(*value), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// indexRow maps a SHOW INDEXES row. Missing or malformed fields keep their zero value.
func (r record) indexRow() schema.IndexRow {
	return schema.IndexRow{
		Table:        r.text("Table"),
		NonUnique:    r.text("Non_unique") == "1",
		KeyName:      r.text("Key_name"),
		SeqInIndex:   r.number("Seq_in_index"),
		ColumnName:   r.optional("Column_name"),
		Expression:   r.optional("Expression"),
		Collation:    r.optional("Collation"),
		Cardinality:  r.optionalInt64("Cardinality"),
		SubPart:      r.optionalNumber("Sub_part"),
		Packed:       r.optional("Packed"),
		Null:         r.text("Null"),
		IndexType:    r.text("Index_type"),
		Comment:      r.text("Comment"),
		IndexComment: r.text("Index_comment"),
		KeyBlockSize: r.number("Key_block_size"),
		Parser:       r.text("Parser"),
	}
}

func (r record) engineRow() schema.EngineRow {
	return schema.EngineRow{
		Engine:       r.text("Engine"),
		Support:      r.text("Support"),
		Comment:      r.text("Comment"),
		Transactions: r.text("Transactions"),
		XA:           r.text("XA"),
		Savepoints:   r.text("Savepoints"),
	}
}

func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func quoteLiteral(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return "'" + strings.ReplaceAll(value, `'`, `\'`) + "'"
}

// parseVersion turns "8.0.34-0ubuntu0.22.04.1" into 80034
func parseVersion(version string) int {
	main, _, _ := strings.Cut(version, "-")
	parts := strings.SplitN(main, ".", 3)
	result := 0
	for i, weight := range []int{10000, 100, 1} {
		if i >= len(parts) {
			break
		}
		n, err := strconv.Atoi(strings.TrimFunc(parts[i], func(r rune) bool { return r < '0' || r > '9' }))
		if err != nil {
			return result
		}
		result += n * weight
	}
	return result
}
