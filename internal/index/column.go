package index

import (
	"strconv"

	"github.com/tordrt/dbmeta/internal/schema"
)

// Column represents one column (or expression) taking part in an index
type Column struct {
	name        string
	seqInIndex  int
	subPart     *int
	cardinality *int64
	collation   *string
	nullable    bool
	expression  *string
}

// ColumnParams describes a column supplied by a caller rather than the server
type ColumnParams struct {
	Name    string
	SubPart *int
}

// ColumnView is the comparable projection of a column
type ColumnView struct {
	Name         string
	SeqInIndex   int
	Collation    string
	HasCollation bool
	SubPart      int
	HasSubPart   bool
	Nullable     bool
}

// NewColumn creates a column from a SHOW INDEXES row
func NewColumn(row schema.IndexRow) *Column {
	c := &Column{
		seqInIndex:  row.SeqInIndex,
		subPart:     row.SubPart,
		cardinality: row.Cardinality,
		collation:   row.Collation,
		nullable:    row.Null == "YES",
		expression:  row.Expression,
	}
	if row.ColumnName != nil {
		c.name = *row.ColumnName
	}
	return c
}

func newParamsColumn(params ColumnParams) *Column {
	return &Column{name: params.Name, subPart: params.SubPart}
}

// Key returns the lookup key of the column inside its index.
// Expressions are not unique by themselves, so the sequence number is appended.
func (c *Column) Key() string {
	if c.expression != nil {
		key := c.name
		if key == "" {
			key = *c.expression
		}
		return key + strconv.Itoa(c.seqInIndex)
	}
	return c.name
}

// Name returns the column name, empty for an expression part
func (c *Column) Name() string {
	return c.name
}

// SeqInIndex returns the 1-based position of the column in the index
func (c *Column) SeqInIndex() int {
	return c.seqInIndex
}

// SubPart returns the indexed prefix length and whether one is set
func (c *Column) SubPart() (int, bool) {
	if c.subPart == nil {
		return 0, false
	}
	return *c.subPart, true
}

// Cardinality returns the server estimate of distinct values and whether one is set
func (c *Column) Cardinality() (int64, bool) {
	if c.cardinality == nil {
		return 0, false
	}
	return *c.cardinality, true
}

// Collation returns the column collation ("A", "D") and whether one is set
func (c *Column) Collation() (string, bool) {
	if c.collation == nil {
		return "", false
	}
	return *c.collation, true
}

// Nullable reports whether the column may contain NULL
func (c *Column) Nullable() bool {
	return c.nullable
}

// Expression returns the functional key part and whether one is set
func (c *Column) Expression() (string, bool) {
	if c.expression == nil {
		return "", false
	}
	return *c.expression, true
}

// View returns the comparable projection used for duplicate detection
func (c *Column) View() ColumnView {
	v := ColumnView{
		Name:       c.name,
		SeqInIndex: c.seqInIndex,
		Nullable:   c.nullable,
	}
	v.Collation, v.HasCollation = c.Collation()
	v.SubPart, v.HasSubPart = c.SubPart()
	return v
}
