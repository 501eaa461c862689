package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/tordrt/dbmeta/internal/engine"
	"github.com/tordrt/dbmeta/internal/index"
)

const (
	formatMarkdown = "markdown"
	formatText     = "text"
)

// TableIndexes is the index report of one table
type TableIndexes struct {
	Table      string
	Indexes    []*index.Index
	Duplicates []index.Duplicate
}

// EngineReport is the detail report of one storage engine
type EngineReport struct {
	Engine    *engine.Engine
	Variables []engine.VariableStatus
}

// DiskUsage is the Mroonga storage use of one table
type DiskUsage struct {
	Table      string
	DataBytes  int64
	IndexBytes int64
}

// Formatter renders reports in one output format
type Formatter interface {
	FormatIndexes(tables []TableIndexes) error
	FormatDuplicates(tables []TableIndexes) error
	FormatEngines(engines []engine.Summary) error
	FormatEngine(report EngineReport) error
	FormatPage(page *engine.Page) error
	FormatDiskUsage(usage DiskUsage) error
}

// New returns the formatter for "text" or "markdown"
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case formatText, "":
		return NewTextFormatter(w), nil
	case formatMarkdown:
		return NewMarkdownFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid format %q: must be 'text' or 'markdown'", format)
	}
}

// formatColumns renders index columns as "last(10), first DESC, lower(`email`)"
func formatColumns(idx *index.Index) string {
	parts := make([]string, 0, idx.ColumnCount())
	for _, column := range idx.Columns() {
		part := column.Name()
		if expression, ok := column.Expression(); ok {
			part = expression
		}
		if subPart, ok := column.SubPart(); ok {
			part = fmt.Sprintf("%s(%d)", part, subPart)
		}
		if collation, ok := column.Collation(); ok && collation == "D" {
			part += " DESC"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// formatCardinality renders the cardinality of the first column, "-" when unknown
func formatCardinality(idx *index.Index) string {
	columns := idx.Columns()
	if len(columns) == 0 {
		return "-"
	}
	cardinality, ok := columns[0].Cardinality()
	if !ok {
		return "-"
	}
	return humanize.Comma(cardinality)
}

func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

func comments(idx *index.Index) string {
	return strings.TrimSpace(strings.ReplaceAll(idx.Comments(), "\n", " "))
}

func variableValue(e *engine.Engine, status engine.VariableStatus) string {
	value := e.FormatValue(status)
	if value == "" {
		return status.Value
	}
	return value
}
