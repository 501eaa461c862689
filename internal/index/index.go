package index

import (
	"slices"

	"github.com/tordrt/dbmeta/internal/schema"
)

// Params configures a new Index.
//
// Zero values are the defaults: empty strings, NonUnique false, no packing,
// KeyBlockSize 0. An empty Kind means the kind is derived from Name, Method
// and NonUnique.
type Params struct {
	Schema       string
	Table        string
	Name         string
	Method       string // BTREE, HASH, RTREE, or FULLTEXT/SPATIAL as reported by the server
	Kind         Kind
	Remarks      string // server Comment column
	Comment      string // COMMENT given when the index was created
	NonUnique    bool
	Packed       *string
	KeyBlockSize int
	Parser       string
	Columns      []ColumnParams
}

// Index represents one index of a table
type Index struct {
	schema       string
	table        string
	name         string
	columns      []*Column
	positions    map[string]int
	method       string
	kind         Kind
	remarks      string
	comment      string
	nonUnique    bool
	packed       *string
	keyBlockSize int
	parser       string
}

// View is the comparable projection of an index
type View struct {
	Packed    string
	HasPacked bool
	Kind      Kind
	Columns   []ColumnView
}

// Equal reports whether two views are identical, column order included
func (v View) Equal(other View) bool {
	return v.Packed == other.Packed &&
		v.HasPacked == other.HasPacked &&
		v.Kind == other.Kind &&
		slices.Equal(v.Columns, other.Columns)
}

// New creates an index from params
func New(params Params) *Index {
	idx := &Index{
		schema:       params.Schema,
		table:        params.Table,
		name:         params.Name,
		method:       params.Method,
		remarks:      params.Remarks,
		comment:      params.Comment,
		nonUnique:    params.NonUnique,
		packed:       params.Packed,
		keyBlockSize: params.KeyBlockSize,
		parser:       params.Parser,
		positions:    map[string]int{},
	}
	idx.kind = idx.deriveKind(params.Kind)
	idx.AddColumns(params.Columns)
	return idx
}

// newFromRow creates an index from the first SHOW INDEXES row of that index
func newFromRow(schemaName string, row schema.IndexRow) *Index {
	return New(Params{
		Schema:       schemaName,
		Table:        row.Table,
		Name:         row.KeyName,
		Method:       row.IndexType,
		Remarks:      row.Comment,
		Comment:      row.IndexComment,
		NonUnique:    row.NonUnique,
		Packed:       row.Packed,
		KeyBlockSize: row.KeyBlockSize,
		Parser:       row.Parser,
	})
}

func (i *Index) deriveKind(explicit Kind) Kind {
	switch {
	case explicit != "":
		return explicit
	case i.name == "PRIMARY":
		return KindPrimary
	case i.method == string(KindFulltext):
		i.method = ""
		return KindFulltext
	case i.method == string(KindSpatial):
		i.method = ""
		return KindSpatial
	case !i.nonUnique:
		return KindUnique
	}
	return KindIndex
}

// AddColumn adds a column from a SHOW INDEXES row. A row with an existing key replaces the column in place,
// a row without a key is ignored.
func (i *Index) AddColumn(row schema.IndexRow) {
	i.add(NewColumn(row))
}

// AddColumns adds caller supplied columns
func (i *Index) AddColumns(columns []ColumnParams) {
	for _, params := range columns {
		i.add(newParamsColumn(params))
	}
}

func (i *Index) add(column *Column) {
	key := column.Key()
	if key == "" {
		return
	}
	if pos, ok := i.positions[key]; ok {
		i.columns[pos] = column
		return
	}
	i.positions[key] = len(i.columns)
	i.columns = append(i.columns, column)
}

// HasColumn reports whether a column with the key takes part in the index
func (i *Index) HasColumn(key string) bool {
	_, ok := i.positions[key]
	return ok
}

// Column returns the column with the key or nil
func (i *Index) Column(key string) *Column {
	if pos, ok := i.positions[key]; ok {
		return i.columns[pos]
	}
	return nil
}

// Columns returns the index columns in index order
func (i *Index) Columns() []*Column {
	return slices.Clone(i.columns)
}

// ColumnCount returns the number of columns
func (i *Index) ColumnCount() int {
	return len(i.columns)
}

func (i *Index) Schema() string { return i.schema }

func (i *Index) Table() string { return i.table }

func (i *Index) Name() string { return i.name }

// SetName renames the index
func (i *Index) SetName(name string) {
	i.name = name
}

// Method returns the index method (BTREE, HASH, RTREE); empty for FULLTEXT and SPATIAL
func (i *Index) Method() string { return i.method }

func (i *Index) Kind() Kind { return i.kind }

// Remarks returns the server remarks
func (i *Index) Remarks() string { return i.remarks }

// Comment returns the COMMENT given at creation time
func (i *Index) Comment() string { return i.comment }

// Comments returns remarks and comment separated by a newline
func (i *Index) Comments() string {
	comments := i.remarks
	if comments != "" {
		comments += "\n"
	}
	return comments + i.comment
}

func (i *Index) NonUnique() bool { return i.nonUnique }

// IsUnique reports whether the index rejects duplicate values
func (i *Index) IsUnique() bool { return !i.nonUnique }

// Packed returns how the key is packed and whether it is packed at all
func (i *Index) Packed() (string, bool) {
	if i.packed == nil {
		return "", false
	}
	return *i.packed, true
}

// PackedText returns "No" for an unpacked index, the packing otherwise
func (i *Index) PackedText() string {
	if packed, ok := i.Packed(); ok {
		return packed
	}
	return "No"
}

func (i *Index) KeyBlockSize() int { return i.keyBlockSize }

func (i *Index) Parser() string { return i.parser }

// View returns the comparable projection of the index
func (i *Index) View() View {
	v := View{Kind: i.kind}
	v.Packed, v.HasPacked = i.Packed()
	for _, column := range i.columns {
		v.Columns = append(v.Columns, column.View())
	}
	return v
}
