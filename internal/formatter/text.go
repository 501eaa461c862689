package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/dbmeta/internal/engine"
	"github.com/tordrt/dbmeta/internal/index"
)

// TextFormatter formats reports as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// FormatIndexes writes the indexes of each table
func (f *TextFormatter) FormatIndexes(tables []TableIndexes) error {
	for i, table := range tables {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between tables
		}
		f.formatTable(f.writer, table)
	}
	return nil
}

func (f *TextFormatter) formatTable(w io.Writer, table TableIndexes) {
	_, _ = fmt.Fprintf(w, "TABLE %s\n", table.Table)
	if len(table.Indexes) == 0 {
		_, _ = fmt.Fprintln(w, "  (no indexes)")
	}
	for _, idx := range table.Indexes {
		_, _ = fmt.Fprintf(w, "  %s\n", f.formatIndex(idx))
	}

	if len(table.Duplicates) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "  DUPLICATES:")
		for _, duplicate := range table.Duplicates {
			_, _ = fmt.Fprintf(w, "    %s\n", duplicate.Message())
		}
	}
}

func (f *TextFormatter) formatIndex(idx *index.Index) string {
	parts := []string{idx.Name() + ":", string(idx.Kind())}
	if idx.Method() != "" {
		parts = append(parts, idx.Method())
	}
	parts = append(parts, "("+formatColumns(idx)+")")

	if cardinality := formatCardinality(idx); cardinality != "-" {
		parts = append(parts, "CARDINALITY "+cardinality)
	}
	if packed, ok := idx.Packed(); ok && packed != "" {
		parts = append(parts, "PACKED "+packed)
	}
	if idx.Parser() != "" {
		parts = append(parts, "PARSER "+idx.Parser())
	}
	if text := comments(idx); text != "" {
		parts = append(parts, fmt.Sprintf("COMMENT %q", text))
	}
	return strings.Join(parts, " ")
}

// FormatDuplicates writes one notice per duplicate pair
func (f *TextFormatter) FormatDuplicates(tables []TableIndexes) error {
	found := false
	for _, table := range tables {
		for _, duplicate := range table.Duplicates {
			found = true
			_, _ = fmt.Fprintf(f.writer, "%s: %s\n", table.Table, duplicate.Message())
		}
	}
	if !found {
		_, _ = fmt.Fprintln(f.writer, "No duplicate indexes found.")
	}
	return nil
}

// FormatEngines writes the engines available for new tables
func (f *TextFormatter) FormatEngines(engines []engine.Summary) error {
	for _, e := range engines {
		marker := ""
		if e.IsDefault {
			marker = " (default)"
		}
		_, _ = fmt.Fprintf(f.writer, "%s%s: %s\n", e.Name, marker, e.Comment)
	}
	return nil
}

// FormatEngine writes the support message and the variables report of an engine
func (f *TextFormatter) FormatEngine(report EngineReport) error {
	e := report.Engine
	_, _ = fmt.Fprintf(f.writer, "ENGINE %s\n", e.Title)
	if e.Comment != "" {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", e.Comment)
	}
	_, _ = fmt.Fprintf(f.writer, "  %s\n", e.SupportMessage())
	_, _ = fmt.Fprintf(f.writer, "  Documentation: %s\n", e.HelpPage())

	if pages := e.InfoPages(); len(pages) > 0 {
		ids := make([]string, 0, len(pages))
		for _, page := range pages {
			ids = append(ids, page.ID)
		}
		_, _ = fmt.Fprintf(f.writer, "  Pages: %s\n", strings.Join(ids, ", "))
	}

	if len(report.Variables) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintln(f.writer, "  VARIABLES:")
	for _, status := range report.Variables {
		_, _ = fmt.Fprintf(f.writer, "    %s = %s\n", status.Title, variableValue(e, status))
	}
	return nil
}

// FormatPage writes an info page
func (f *TextFormatter) FormatPage(page *engine.Page) error {
	if page.Title == "" {
		_, _ = fmt.Fprintf(f.writer, "No page %s for this engine.\n", page.ID)
		return nil
	}
	_, _ = fmt.Fprintf(f.writer, "PAGE %s\n", page.Title)
	for _, variable := range page.Variables {
		_, _ = fmt.Fprintf(f.writer, "  %s = %s\n", variable.Name, variable.Value)
	}
	if page.Text != "" {
		_, _ = fmt.Fprintln(f.writer, page.Text)
	}
	return nil
}

// FormatDiskUsage writes the data and index sizes of a table
func (f *TextFormatter) FormatDiskUsage(usage DiskUsage) error {
	_, _ = fmt.Fprintf(f.writer, "TABLE %s\n", usage.Table)
	_, _ = fmt.Fprintf(f.writer, "  data: %s\n", formatBytes(usage.DataBytes))
	_, _ = fmt.Fprintf(f.writer, "  index: %s\n", formatBytes(usage.IndexBytes))
	_, _ = fmt.Fprintf(f.writer, "  total: %s\n", formatBytes(usage.DataBytes+usage.IndexBytes))
	return nil
}
