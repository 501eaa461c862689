package index

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/tordrt/dbmeta/internal/schema"
)

// Source provides the raw index rows of a table in server order
type Source interface {
	TableIndexes(ctx context.Context, schemaName, table string) ([]schema.IndexRow, error)
}

// Registry caches the indexes of every table it was asked about.
// Repeated lookups return the same *Index.
type Registry struct {
	source           Source
	logger           *slog.Logger
	invertedFulltext bool

	mu     sync.Mutex
	tables map[string]map[string]*tableIndexes
}

type tableIndexes struct {
	ordered []*Index
	byName  map[string]*Index
}

// Option configures a Registry
type Option func(r *Registry)

// WithLogger sets the registry logger
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithInvertedFulltextFilter makes ByKind select FULLTEXT indexes when FULLTEXT is
// missing from the mask and drop them when it is present. Other kinds are unaffected.
func WithInvertedFulltextFilter() Option {
	return func(r *Registry) {
		r.invertedFulltext = true
	}
}

// NewRegistry creates an empty registry backed by source
func NewRegistry(source Source, opts ...Option) *Registry {
	r := &Registry{
		source: source,
		logger: slog.Default(),
		tables: map[string]map[string]*tableIndexes{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// load returns the cached indexes of the table, querying the source on first use.
// Callers must hold r.mu.
func (r *Registry) load(ctx context.Context, schemaName, table string) (*tableIndexes, error) {
	if entry, ok := r.tables[schemaName][table]; ok {
		return entry, nil
	}

	rows, err := r.source.TableIndexes(ctx, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("failed to load indexes of %s.%s: %w", schemaName, table, err)
	}

	entry := &tableIndexes{byName: map[string]*Index{}}
	for _, row := range rows {
		idx, ok := entry.byName[row.KeyName]
		if !ok {
			idx = newFromRow(schemaName, row)
			entry.byName[row.KeyName] = idx
			entry.ordered = append(entry.ordered, idx)
		}
		idx.AddColumn(row)
	}

	if r.tables[schemaName] == nil {
		r.tables[schemaName] = map[string]*tableIndexes{}
	}
	r.tables[schemaName][table] = entry
	r.logger.Debug("loaded indexes", "schema", schemaName, "table", table, "rows", len(rows), "indexes", len(entry.ordered))
	return entry, nil
}

// Get returns the named index of the table. An unknown name creates and registers
// an empty index under that name. The empty name returns a new unregistered placeholder.
func (r *Registry) Get(ctx context.Context, schemaName, table, name string) (*Index, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.load(ctx, schemaName, table)
	if err != nil {
		return nil, err
	}
	if idx, ok := entry.byName[name]; ok {
		return idx, nil
	}

	idx := New(Params{Schema: schemaName, Table: table})
	if name == "" {
		return idx, nil
	}
	idx.SetName(name)
	entry.byName[name] = idx
	entry.ordered = append(entry.ordered, idx)
	return idx, nil
}

// Table returns every index of the table in server order
func (r *Registry) Table(ctx context.Context, schemaName, table string) ([]*Index, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.load(ctx, schemaName, table)
	if err != nil {
		return nil, err
	}
	return slices.Clone(entry.ordered), nil
}

// ByKind returns the indexes of the table whose kind is selected by mask
func (r *Registry) ByKind(ctx context.Context, schemaName, table string, mask Mask) ([]*Index, error) {
	indexes, err := r.Table(ctx, schemaName, table)
	if err != nil {
		return nil, err
	}

	var result []*Index
	for _, idx := range indexes {
		kind := idx.Kind()
		for _, k := range []Kind{KindPrimary, KindUnique, KindIndex, KindSpatial} {
			if mask.Has(k) && kind == k {
				result = append(result, idx)
			}
		}
		if kind == KindFulltext && mask.Has(KindFulltext) != r.invertedFulltext {
			result = append(result, idx)
		}
	}
	return result, nil
}

// Primary returns the PRIMARY index of the table or nil
func (r *Registry) Primary(ctx context.Context, schemaName, table string) (*Index, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.load(ctx, schemaName, table)
	if err != nil {
		return nil, err
	}
	return entry.byName["PRIMARY"], nil
}

// HasPrimary reports whether the table of idx has a PRIMARY index
func (r *Registry) HasPrimary(ctx context.Context, idx *Index) (bool, error) {
	primary, err := r.Primary(ctx, idx.Schema(), idx.Table())
	return primary != nil, err
}
