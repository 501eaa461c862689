package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/dbmeta/internal/engine"
	"github.com/tordrt/dbmeta/internal/index"
)

// MarkdownFormatter formats reports as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// FormatIndexes writes the indexes of each table
func (f *MarkdownFormatter) FormatIndexes(tables []TableIndexes) error {
	_, _ = fmt.Fprintln(f.writer, "# Indexes")
	_, _ = fmt.Fprintln(f.writer)

	for _, table := range tables {
		f.FormatTable(f.writer, table)
	}
	return nil
}

// FormatTable formats a single table (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatTable(w io.Writer, table TableIndexes) {
	_, _ = fmt.Fprintf(w, "## %s\n\n", table.Table)

	_, _ = fmt.Fprintln(w, "### Indexes")
	_, _ = fmt.Fprintln(w)
	if len(table.Indexes) == 0 {
		_, _ = fmt.Fprintln(w, "_No indexes._")
	}
	for _, idx := range table.Indexes {
		_, _ = fmt.Fprintf(w, "- **%s:** %s\n", idx.Name(), f.describe(idx))
	}
	_, _ = fmt.Fprintln(w)

	if len(table.Duplicates) > 0 {
		_, _ = fmt.Fprintln(w, "### Duplicates")
		_, _ = fmt.Fprintln(w)
		for _, duplicate := range table.Duplicates {
			_, _ = fmt.Fprintf(w, "- %s\n", duplicate.Message())
		}
		_, _ = fmt.Fprintln(w)
	}
}

func (f *MarkdownFormatter) describe(idx *index.Index) string {
	text := fmt.Sprintf("%s on (%s)", idx.Kind(), formatColumns(idx))

	var details []string
	if idx.Method() != "" {
		details = append(details, idx.Method())
	}
	if cardinality := formatCardinality(idx); cardinality != "-" {
		details = append(details, "cardinality "+cardinality)
	}
	details = append(details, "packed: "+idx.PackedText())
	if idx.Parser() != "" {
		details = append(details, "parser "+idx.Parser())
	}
	if c := comments(idx); c != "" {
		details = append(details, "_"+c+"_")
	}
	return text + ", " + strings.Join(details, ", ")
}

// FormatDuplicates writes one notice per duplicate pair
func (f *MarkdownFormatter) FormatDuplicates(tables []TableIndexes) error {
	_, _ = fmt.Fprintln(f.writer, "# Duplicate indexes")
	_, _ = fmt.Fprintln(f.writer)

	found := false
	for _, table := range tables {
		for _, duplicate := range table.Duplicates {
			found = true
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", table.Table, duplicate.Message())
		}
	}
	if !found {
		_, _ = fmt.Fprintln(f.writer, "_No duplicate indexes found._")
	}
	return nil
}

// FormatEngines writes the engines available for new tables
func (f *MarkdownFormatter) FormatEngines(engines []engine.Summary) error {
	_, _ = fmt.Fprintln(f.writer, "# Storage engines")
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintln(f.writer, "| Engine | Comment |")
	_, _ = fmt.Fprintln(f.writer, "|--------|---------|")
	for _, e := range engines {
		name := e.Name
		if e.IsDefault {
			name = "**" + name + "** (default)"
		}
		_, _ = fmt.Fprintf(f.writer, "| %s | %s |\n", name, escapeCell(e.Comment))
	}
	return nil
}

// FormatEngine writes the support message and the variables report of an engine
func (f *MarkdownFormatter) FormatEngine(report EngineReport) error {
	e := report.Engine
	_, _ = fmt.Fprintf(f.writer, "# %s\n\n", e.Title)
	if e.Comment != "" {
		_, _ = fmt.Fprintf(f.writer, "%s\n\n", e.Comment)
	}
	_, _ = fmt.Fprintf(f.writer, "%s\n\n", e.SupportMessage())
	_, _ = fmt.Fprintf(f.writer, "Documentation: `%s`\n\n", e.HelpPage())

	if len(report.Variables) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(f.writer, "## Variables")
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintln(f.writer, "| Variable | Value | Description |")
	_, _ = fmt.Fprintln(f.writer, "|----------|-------|-------------|")
	for _, status := range report.Variables {
		_, _ = fmt.Fprintf(f.writer, "| %s | %s | %s |\n",
			escapeCell(status.Title),
			escapeCell(variableValue(e, status)),
			escapeCell(status.Description))
	}
	return nil
}

// FormatPage writes an info page
func (f *MarkdownFormatter) FormatPage(page *engine.Page) error {
	if page.Title == "" {
		_, _ = fmt.Fprintf(f.writer, "_No page %s for this engine._\n", page.ID)
		return nil
	}
	_, _ = fmt.Fprintf(f.writer, "# %s\n\n", page.Title)
	if len(page.Variables) > 0 {
		_, _ = fmt.Fprintln(f.writer, "| Variable | Value |")
		_, _ = fmt.Fprintln(f.writer, "|----------|-------|")
		for _, variable := range page.Variables {
			_, _ = fmt.Fprintf(f.writer, "| %s | %s |\n", escapeCell(variable.Name), escapeCell(variable.Value))
		}
		_, _ = fmt.Fprintln(f.writer)
	}
	if page.Text != "" {
		_, _ = fmt.Fprintf(f.writer, "```\n%s\n```\n", page.Text)
	}
	return nil
}

// FormatDiskUsage writes the data and index sizes of a table
func (f *MarkdownFormatter) FormatDiskUsage(usage DiskUsage) error {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", usage.Table)
	_, _ = fmt.Fprintf(f.writer, "- **Data:** %s\n", formatBytes(usage.DataBytes))
	_, _ = fmt.Fprintf(f.writer, "- **Index:** %s\n", formatBytes(usage.IndexBytes))
	_, _ = fmt.Fprintf(f.writer, "- **Total:** %s\n", formatBytes(usage.DataBytes+usage.IndexBytes))
	return nil
}

func escapeCell(text string) string {
	text = strings.ReplaceAll(text, "|", `\|`)
	return strings.ReplaceAll(text, "\n", " ")
}
