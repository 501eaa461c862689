package engine

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/tordrt/dbmeta/internal/schema"
)

// ErrUnsupported is returned for an operation the engine kind does not provide
var ErrUnsupported = errors.New("operation not supported by storage engine")

// Info page identifiers
const (
	PageBufferpool    = "Bufferpool"
	PageStatus        = "Status"
	PageDocumentation = "Documentation"
)

// Engine describes one storage engine of the server
type Engine struct {
	ID      string
	Title   string
	Comment string
	Support Support

	profile  *profile
	registry *Registry
}

// VariableStatus is one line of an engine variables report
type VariableStatus struct {
	Name        string
	Title       string
	Value       string
	Type        DetailsType
	Description string
}

// Page is the content of an info page
type Page struct {
	ID        string
	Title     string
	Variables []schema.Variable
	Text      string
}

// Kind returns the engine specific variant of the descriptor
func (e *Engine) Kind() Kind {
	return e.profile.kind
}

// SupportMessage tells whether the engine can be used on the server
func (e *Engine) SupportMessage() string {
	return e.Support.Message(e.Title)
}

// HelpPage returns the MySQL manual page name about the engine
func (e *Engine) HelpPage() string {
	if e.profile.helpPage != "" {
		return e.profile.helpPage
	}
	return strings.ToLower(e.ID) + "-storage-engine"
}

// LikePattern returns the LIKE pattern of the engine variables, empty to match by engine name prefix
func (e *Engine) LikePattern() string {
	return e.profile.like
}

// KnownVariables returns the variables the engine documents
func (e *Engine) KnownVariables() []VariableInfo {
	return e.profile.variables
}

// InfoPages returns the engine information pages
func (e *Engine) InfoPages() []InfoPage {
	return e.profile.pages
}

// Variables builds the engine variables report from SHOW GLOBAL VARIABLES.
// Known variables carry their title, type and description; other variables matching
// the LIKE pattern (or, without one, starting with the engine name) are listed as plain text.
func (e *Engine) Variables(ctx context.Context) ([]VariableStatus, error) {
	known := make(map[string]VariableInfo, len(e.profile.variables))
	for _, info := range e.profile.variables {
		known[info.Name] = info
	}

	like := e.profile.like
	rows, err := e.registry.source.GlobalVariables(ctx, like)
	if err != nil {
		return nil, fmt.Errorf("failed to read variables of %s: %w", e.ID, err)
	}

	prefix := strings.ToLower(e.ID)
	var result []VariableStatus
	for _, row := range rows {
		info, ok := known[row.Name]
		if !ok && like == "" && !strings.HasPrefix(strings.ToLower(row.Name), prefix) {
			continue
		}
		status := VariableStatus{
			Name:        row.Name,
			Title:       info.Title,
			Value:       row.Value,
			Type:        info.Type,
			Description: info.Description,
		}
		if status.Title == "" {
			status.Title = row.Name
		}
		result = append(result, status)
	}
	return result, nil
}

// FormatSize renders a size value, using the engine override when there is one
func (e *Engine) FormatSize(value string) (string, bool) {
	if e.profile.sizeFn != nil {
		return e.profile.sizeFn(value)
	}
	return formatBytes(value)
}

// FormatValue renders a report value according to its type
func (e *Engine) FormatValue(status VariableStatus) string {
	switch status.Type {
	case DetailsSize:
		if formatted, ok := e.FormatSize(status.Value); ok {
			return formatted
		}
		return ""
	case DetailsNumeric:
		if number, err := strconv.ParseInt(status.Value, 10, 64); err == nil {
			return humanize.Comma(number)
		}
	}
	return status.Value
}

// Page returns an information page. An unknown id gives an empty page.
func (e *Engine) Page(ctx context.Context, id string) (*Page, error) {
	var label string
	for _, page := range e.profile.pages {
		if page.ID == id {
			label = page.Label
		}
	}
	if label == "" {
		return &Page{ID: id}, nil
	}

	page := &Page{ID: id, Title: label}
	var err error
	switch id {
	case PageBufferpool:
		page.Variables, err = e.registry.source.GlobalStatus(ctx, `Innodb\_buffer\_pool\_%`)
	case PageStatus:
		page.Text, err = e.registry.source.EngineStatus(ctx, "innodb")
	case PageDocumentation:
		page.Text = "PBXT is a transactional storage engine for MySQL. " +
			"Documentation and further information about PBXT can be found on the PrimeBase XT home page: " +
			"https://www.primebase.org/"
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build %s page of %s: %w", id, e.ID, err)
	}
	return page, nil
}

func formatBytes(value string) (string, bool) {
	size, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return "", false
	}
	return humanize.IBytes(size), true
}

var pbxtSizeExpr = regexp.MustCompile(`^([0-9]+)([a-zA-Z]+)$`)

// pbxtSize understands values such as 32MB reported by PBXT
func pbxtSize(value string) (string, bool) {
	match := pbxtSizeExpr.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return formatBytes(value)
	}
	size, err := strconv.ParseUint(match[1], 10, 64)
	if err != nil {
		return "", false
	}
	unit := strings.TrimSuffix(strings.ToUpper(match[2]), "B")
	exponent := -1
	if unit != "" {
		if exponent = strings.Index("KMGTPE", unit); exponent < 0 || len(unit) != 1 {
			return "", false
		}
	}
	for i := 0; i <= exponent; i++ {
		size *= 1024
	}
	return humanize.IBytes(size), true
}
