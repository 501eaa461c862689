package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/francoispqt/gojay"

	"github.com/tordrt/dbmeta/internal/cache"
)

const (
	mroongaProbeKey      = "storage-engine.mroonga.has.mroonga_command"
	mroongaCatalogKey    = "storage-engine.mroonga.object_list."
	mroongaObjectList    = "SELECT mroonga_command('object_list')"
	mroongaObjectInspect = "SELECT mroonga_command('object_inspect %s')"
)

// Groonga object type ids of tables (hash, pat, dat, no key) and columns (fix, var, index)
var mroongaObjectTypes = map[int]bool{48: true, 49: true, 50: true, 51: true, 64: true, 65: true, 72: true}

type mroongaType struct {
	id int
}

func (t *mroongaType) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	if key == "id" {
		return dec.Int(&t.id)
	}
	return nil
}

func (t *mroongaType) NKeys() int { return 0 }

type mroongaObject struct {
	objectType mroongaType
}

func (o *mroongaObject) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	if key == "type" {
		return dec.Object(&o.objectType)
	}
	return nil
}

func (o *mroongaObject) NKeys() int { return 0 }

// mroongaCatalog keeps the names of table and column objects in document order
type mroongaCatalog struct {
	names []string
}

func (c *mroongaCatalog) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	object := &mroongaObject{}
	if err := dec.Object(object); err != nil {
		return err
	}
	if mroongaObjectTypes[object.objectType.id] {
		c.names = append(c.names, key)
	}
	return nil
}

func (c *mroongaCatalog) NKeys() int { return 0 }

type mroongaInspection struct {
	diskUsage int64
}

func (i *mroongaInspection) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	if key == "disk_usage" {
		return dec.Int64(&i.diskUsage)
	}
	return nil
}

func (i *mroongaInspection) NKeys() int { return 0 }

// HasMroonga reports whether mroonga_command can be called on the server
func (r *Registry) HasMroonga(ctx context.Context) bool {
	if r.cache.Has(mroongaProbeKey) {
		ok, _ := r.cache.Get(mroongaProbeKey, false).(bool)
		return ok
	}
	_, err := r.source.FetchValue(ctx, mroongaObjectList)
	if err != nil {
		r.logger.Debug("mroonga_command unavailable", "error", err)
	}
	r.cache.Set(mroongaProbeKey, err == nil)
	return err == nil
}

// DiskUsage returns the data and index bytes Mroonga uses for a table.
// Objects named <table>#<table>... are index storage, everything else of the table is data.
func (e *Engine) DiskUsage(ctx context.Context, dbName, table string) (dataBytes, indexBytes int64, err error) {
	if e.profile.kind != KindMroonga {
		return 0, 0, fmt.Errorf("disk usage of %s: %w", e.ID, ErrUnsupported)
	}
	r := e.registry
	if err = r.source.SelectDatabase(ctx, dbName); err != nil {
		return 0, 0, fmt.Errorf("failed to select database %s: %w", dbName, err)
	}

	names, err := cache.Remember(r.cache, mroongaCatalogKey+dbName, func() ([]string, error) {
		return r.mroongaCatalog(ctx)
	})
	if err != nil {
		return 0, 0, err
	}

	indexPrefix := table + "#" + table
	for _, name := range names {
		if !strings.HasPrefix(name, table) {
			continue
		}
		payload, err := r.source.FetchValue(ctx, fmt.Sprintf(mroongaObjectInspect, escapeLiteral(name)))
		if err != nil {
			return 0, 0, fmt.Errorf("failed to inspect mroonga object %s: %w", name, err)
		}
		inspection := &mroongaInspection{}
		if err := gojay.UnmarshalJSONObject([]byte(payload), inspection); err != nil {
			r.logger.Warn("invalid mroonga object_inspect payload", "object", name, "error", err)
			continue
		}
		if strings.HasPrefix(name, indexPrefix) {
			indexBytes += inspection.diskUsage
			continue
		}
		dataBytes += inspection.diskUsage
	}
	return dataBytes, indexBytes, nil
}

func (r *Registry) mroongaCatalog(ctx context.Context) ([]string, error) {
	payload, err := r.source.FetchValue(ctx, mroongaObjectList)
	if err != nil {
		return nil, fmt.Errorf("failed to list mroonga objects: %w", err)
	}
	catalog := &mroongaCatalog{names: []string{}}
	if payload == "" {
		return catalog.names, nil
	}
	if err := gojay.UnmarshalJSONObject([]byte(payload), catalog); err != nil {
		r.logger.Warn("invalid mroonga object_list payload", "error", err)
		return []string{}, nil
	}
	return catalog.names, nil
}

func escapeLiteral(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `'`, `\'`)
}
