package schema

// IndexRow represents one row of SHOW INDEXES output: one column of one index.
// Nullable server columns are pointers; nil means the server returned NULL.
type IndexRow struct {
	Table        string
	NonUnique    bool
	KeyName      string
	SeqInIndex   int
	ColumnName   *string
	Expression   *string
	Collation    *string
	Cardinality  *int64
	SubPart      *int
	Packed       *string
	Null         string // "YES" or ""
	IndexType    string
	Comment      string
	IndexComment string
	KeyBlockSize int
	Parser       string
}

// EngineRow represents one row of SHOW STORAGE ENGINES
type EngineRow struct {
	Engine       string
	Support      string // DEFAULT, YES, NO, DISABLED
	Comment      string
	Transactions string
	XA           string
	Savepoints   string
}

// Variable represents a server variable or status counter
type Variable struct {
	Name  string
	Value string
}

// ServerInfo describes the connected server
type ServerInfo struct {
	Version int // e.g. 80034 for 8.0.34
	MariaDB bool
	Raw     string
}
