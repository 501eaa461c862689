package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// MultiFileFormatter writes index reports to multiple files in a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes an overview plus one file per table
func (f *MultiFileFormatter) Format(tables []TableIndexes) error {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Write overview file
	if err := f.writeOverview(tables); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	// Write per-table files
	for _, table := range tables {
		if err := f.writeTableFile(table); err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", table.Table, err)
		}
	}

	return nil
}

// writeOverview writes the overview file
func (f *MultiFileFormatter) writeOverview(tables []TableIndexes) error {
	ext := f.getFileExtension()
	filename := filepath.Join(f.OutputDir, "_overview"+ext)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	// Sort tables alphabetically
	sorted := make([]TableIndexes, len(tables))
	copy(sorted, tables)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Table < sorted[j].Table
	})

	if f.OutputFormat == formatMarkdown {
		f.writeMarkdownOverview(file, sorted)
		return nil
	}
	f.writeTextOverview(file, sorted)
	return nil
}

func (f *MultiFileFormatter) writeMarkdownOverview(w io.Writer, tables []TableIndexes) {
	_, _ = fmt.Fprintf(w, "# Index Overview\n\n")
	_, _ = fmt.Fprintf(w, "Each table has a corresponding file: `<table_name>%s`\n\n", f.getFileExtension())
	_, _ = fmt.Fprintf(w, "## Tables\n\n")

	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "- **%s** (%s)", table.Table, pluralize(len(table.Indexes), "index", "indexes"))
		if len(table.Duplicates) > 0 {
			_, _ = fmt.Fprintf(w, ", %s", pluralize(len(table.Duplicates), "duplicate", "duplicates"))
		}
		_, _ = fmt.Fprintf(w, "\n")
	}
}

func (f *MultiFileFormatter) writeTextOverview(w io.Writer, tables []TableIndexes) {
	_, _ = fmt.Fprintf(w, "INDEX OVERVIEW\n")
	_, _ = fmt.Fprintf(w, "Each table has a file: <table_name>%s\n\n", f.getFileExtension())

	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "%s (%s", table.Table, pluralize(len(table.Indexes), "index", "indexes"))
		if len(table.Duplicates) > 0 {
			_, _ = fmt.Fprintf(w, ", %s", pluralize(len(table.Duplicates), "duplicate", "duplicates"))
		}
		_, _ = fmt.Fprintf(w, ")\n")
	}
}

// writeTableFile writes a single table to its own file
func (f *MultiFileFormatter) writeTableFile(table TableIndexes) error {
	ext := f.getFileExtension()
	filename := filepath.Join(f.OutputDir, table.Table+ext)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == formatMarkdown {
		NewMarkdownFormatter(file).FormatTable(file, table)
		return nil
	}
	NewTextFormatter(file).formatTable(file, table)
	return nil
}

func (f *MultiFileFormatter) getFileExtension() string {
	if f.OutputFormat == formatMarkdown {
		return ".md"
	}
	return ".txt"
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
