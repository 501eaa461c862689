package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/tordrt/dbmeta/internal/cache"
	"github.com/tordrt/dbmeta/internal/schema"
)

const (
	disabledEnginesKey = "disabled_storage_engines"
	// first MySQL release with @@disabled_storage_engines
	disabledEnginesVersion = 50708
	// engine name accepted regardless of the server engine list
	legacyEngine = "PBMS"
	// internal engine never offered for new tables
	internalEngine = "PERFORMANCE_SCHEMA"
)

// Source provides the server metadata the engine registry needs
type Source interface {
	StorageEngines(ctx context.Context) ([]schema.EngineRow, error)
	ServerInfo(ctx context.Context) (schema.ServerInfo, error)
	GlobalVariables(ctx context.Context, like string) ([]schema.Variable, error)
	GlobalStatus(ctx context.Context, like string) ([]schema.Variable, error)
	EngineStatus(ctx context.Context, engine string) (string, error)
	FetchValue(ctx context.Context, query string) (string, error)
	SelectDatabase(ctx context.Context, name string) error
}

// Summary is an engine that can be chosen for a table
type Summary struct {
	Name      string
	Comment   string
	IsDefault bool
}

// Registry resolves storage engine descriptors from the server engine list
type Registry struct {
	source Source
	cache  cache.Cache
	logger *slog.Logger

	mu      sync.Mutex
	engines []schema.EngineRow
	loaded  bool
}

// NewRegistry creates a registry. The cache holds values shared across the session.
func NewRegistry(source Source, c cache.Cache, logger *slog.Logger) *Registry {
	if c == nil {
		c = cache.NewMemory()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{source: source, cache: c, logger: logger}
}

// List returns the server storage engines in server order. The list is read once;
// engines named in @@disabled_storage_engines are reported as DISABLED.
func (r *Registry) List(ctx context.Context) ([]schema.EngineRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return slices.Clone(r.engines), nil
	}

	engines, err := r.source.StorageEngines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage engines: %w", err)
	}

	info, err := r.source.ServerInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read server version: %w", err)
	}
	if !info.MariaDB && info.Version >= disabledEnginesVersion {
		disabled, err := cache.Remember(r.cache, disabledEnginesKey, func() (string, error) {
			return r.source.FetchValue(ctx, "SELECT @@disabled_storage_engines")
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read disabled storage engines: %w", err)
		}
		markDisabled(engines, disabled, r.logger)
	}

	r.engines = engines
	r.loaded = true
	return slices.Clone(engines), nil
}

func markDisabled(engines []schema.EngineRow, disabled string, logger *slog.Logger) {
	for _, name := range strings.Split(disabled, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		for i := range engines {
			if strings.EqualFold(engines[i].Engine, name) {
				engines[i].Support = SupportDisabled.String()
				logger.Info("storage engine disabled", "engine", engines[i].Engine)
			}
		}
	}
}

func (r *Registry) find(ctx context.Context, id string) (*schema.EngineRow, error) {
	engines, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range engines {
		if strings.EqualFold(engines[i].Engine, id) {
			return &engines[i], nil
		}
	}
	return nil, nil
}

// Resolve returns the descriptor of the engine. Engine ids are matched case-insensitively;
// an id the server does not know gives a generic descriptor that is not supported.
func (r *Registry) Resolve(ctx context.Context, id string) (*Engine, error) {
	row, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		ID:       id,
		Title:    id,
		Support:  SupportNo,
		profile:  lookupProfile(id),
		registry: r,
	}
	if row != nil {
		e.Title = row.Engine
		e.Comment = row.Comment
		e.Support = ParseSupport(row.Support)
	}
	return e, nil
}

// IsValid reports whether the server knows the engine
func (r *Registry) IsValid(ctx context.Context, id string) (bool, error) {
	if id == legacyEngine {
		return true, nil
	}
	row, err := r.find(ctx, id)
	return row != nil, err
}

// Available returns the engines that can be used for new tables
func (r *Registry) Available(ctx context.Context) ([]Summary, error) {
	engines, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var result []Summary
	for _, row := range engines {
		support := ParseSupport(row.Support)
		if support == SupportNo || support == SupportDisabled || row.Engine == internalEngine {
			continue
		}
		result = append(result, Summary{
			Name:      row.Engine,
			Comment:   row.Comment,
			IsDefault: support == SupportDefault,
		})
	}
	return result, nil
}
