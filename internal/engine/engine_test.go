package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/dbmeta/internal/cache"
	"github.com/tordrt/dbmeta/internal/schema"
)

type fakeSource struct {
	engines   []schema.EngineRow
	info      schema.ServerInfo
	variables []schema.Variable
	status    []schema.Variable
	values    map[string]string
	valueErr  map[string]error
	engineErr error

	calls    map[string]int
	likes    []string
	selected []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		engines: []schema.EngineRow{
			{Engine: "InnoDB", Support: "DEFAULT", Comment: "Supports transactions"},
			{Engine: "MyISAM", Support: "YES", Comment: "MyISAM storage engine"},
			{Engine: "MEMORY", Support: "YES", Comment: "Hash based, stored in memory"},
			{Engine: "FEDERATED", Support: "NO", Comment: "Federated MySQL storage engine"},
			{Engine: "PERFORMANCE_SCHEMA", Support: "YES", Comment: "Performance Schema"},
			{Engine: "ARCHIVE", Support: "YES", Comment: "Archive storage engine"},
		},
		info:     schema.ServerInfo{Version: 80034},
		values:   map[string]string{"SELECT @@disabled_storage_engines": "ARCHIVE"},
		valueErr: map[string]error{},
		calls:    map[string]int{},
	}
}

func (f *fakeSource) StorageEngines(context.Context) ([]schema.EngineRow, error) {
	f.calls["engines"]++
	if f.engineErr != nil {
		return nil, f.engineErr
	}
	return append([]schema.EngineRow(nil), f.engines...), nil
}

func (f *fakeSource) ServerInfo(context.Context) (schema.ServerInfo, error) {
	return f.info, nil
}

func (f *fakeSource) GlobalVariables(_ context.Context, like string) ([]schema.Variable, error) {
	f.likes = append(f.likes, like)
	if like == "" {
		return f.variables, nil
	}
	prefix := strings.TrimSuffix(strings.ReplaceAll(like, `\_`, "_"), "%")
	var result []schema.Variable
	for _, v := range f.variables {
		if strings.HasPrefix(strings.ToLower(v.Name), strings.ToLower(prefix)) {
			result = append(result, v)
		}
	}
	return result, nil
}

func (f *fakeSource) GlobalStatus(_ context.Context, like string) ([]schema.Variable, error) {
	f.likes = append(f.likes, like)
	return f.status, nil
}

func (f *fakeSource) EngineStatus(_ context.Context, engine string) (string, error) {
	return "status of " + engine, nil
}

func (f *fakeSource) FetchValue(_ context.Context, query string) (string, error) {
	f.calls[query]++
	if err, ok := f.valueErr[query]; ok {
		return "", err
	}
	return f.values[query], nil
}

func (f *fakeSource) SelectDatabase(_ context.Context, name string) error {
	f.selected = append(f.selected, name)
	return nil
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(newFakeSource(), nil, nil)

	for _, id := range []string{"INNODB", "innodb", "InnoDB"} {
		e, err := registry.Resolve(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, KindInnoDB, e.Kind(), id)
		assert.Equal(t, "InnoDB", e.Title)
		assert.Equal(t, SupportDefault, e.Support)
		assert.Len(t, e.InfoPages(), 2)
	}

	e, err := registry.Resolve(ctx, "innobase")
	require.NoError(t, err)
	assert.Equal(t, KindInnobase, e.Kind())
	assert.Equal(t, SupportNo, e.Support)

	e, err = registry.Resolve(ctx, "totally_unknown")
	require.NoError(t, err)
	assert.Equal(t, KindGeneric, e.Kind())
	assert.Equal(t, SupportNo, e.Support)
	assert.Empty(t, e.InfoPages())
	assert.Equal(t, "totally_unknown-storage-engine", e.HelpPage())
}

func TestResolveAllKnownKinds(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(newFakeSource(), nil, nil)
	want := map[string]Kind{
		"bdb":                KindBdb,
		"BerkeleyDB":         KindBerkeleyDB,
		"binlog":             KindBinlog,
		"memory":             KindMemory,
		"MERGE":              KindMerge,
		"MRG_MYISAM":         KindMrgMyISAM,
		"MyISAM":             KindMyISAM,
		"ndbcluster":         KindNDBCluster,
		"PBXT":               KindPBXT,
		"PERFORMANCE_SCHEMA": KindPerformanceSchema,
		"Mroonga":            KindMroonga,
	}
	for id, kind := range want {
		e, err := registry.Resolve(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, kind, e.Kind(), id)
	}
}

func TestListMemoizedAndDisabled(t *testing.T) {
	ctx := context.Background()
	source := newFakeSource()
	registry := NewRegistry(source, nil, nil)

	engines, err := registry.List(ctx)
	require.NoError(t, err)
	require.Len(t, engines, 6)
	assert.Equal(t, "DISABLED", engines[5].Support)

	_, err = registry.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls["engines"])
	assert.Equal(t, 1, source.calls["SELECT @@disabled_storage_engines"])

	e, err := registry.Resolve(ctx, "archive")
	require.NoError(t, err)
	assert.Equal(t, SupportDisabled, e.Support)
	assert.Equal(t, "ARCHIVE has been disabled for this MySQL server.", e.SupportMessage())
}

func TestListSkipsDisabledCheck(t *testing.T) {
	ctx := context.Background()
	for _, info := range []schema.ServerInfo{{Version: 100611, MariaDB: true}, {Version: 50707}} {
		source := newFakeSource()
		source.info = info
		registry := NewRegistry(source, nil, nil)

		engines, err := registry.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "YES", engines[5].Support)
		assert.Zero(t, source.calls["SELECT @@disabled_storage_engines"])
	}
}

func TestDisabledEnginesSharedThroughCache(t *testing.T) {
	ctx := context.Background()
	source := newFakeSource()
	c := cache.NewMemory()

	_, err := NewRegistry(source, c, nil).List(ctx)
	require.NoError(t, err)
	_, err = NewRegistry(source, c, nil).List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, source.calls["engines"])
	assert.Equal(t, 1, source.calls["SELECT @@disabled_storage_engines"])
}

func TestListErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	source := newFakeSource()
	source.engineErr = errors.New("server has gone away")
	registry := NewRegistry(source, nil, nil)

	_, err := registry.List(ctx)
	require.ErrorIs(t, err, source.engineErr)

	source.engineErr = nil
	engines, err := registry.List(ctx)
	require.NoError(t, err)
	assert.Len(t, engines, 6)
}

func TestIsValid(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(newFakeSource(), nil, nil)

	for id, want := range map[string]bool{"PBMS": true, "InnoDB": true, "myisam": true, "FEDERATED": true, "nope": false} {
		ok, err := registry.IsValid(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, ok, id)
	}
}

func TestAvailable(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(newFakeSource(), nil, nil)

	engines, err := registry.Available(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Summary{
		{Name: "InnoDB", Comment: "Supports transactions", IsDefault: true},
		{Name: "MyISAM", Comment: "MyISAM storage engine"},
		{Name: "MEMORY", Comment: "Hash based, stored in memory"},
	}, engines)
}

func TestSupportMessage(t *testing.T) {
	assert.Equal(t, "InnoDB is the default storage engine on this MySQL server.", SupportDefault.Message("InnoDB"))
	assert.Equal(t, "MyISAM is available on this MySQL server.", SupportYes.Message("MyISAM"))
	assert.Equal(t, "This MySQL server does not support the X storage engine.", SupportNo.Message("X"))
	assert.Equal(t, SupportNo, ParseSupport("NO"))
	assert.Equal(t, SupportNo, ParseSupport(""))
	assert.Equal(t, SupportYes, ParseSupport("YES"))
}

func TestVariablesWithPattern(t *testing.T) {
	ctx := context.Background()
	source := newFakeSource()
	source.variables = []schema.Variable{
		{Name: "innodb_buffer_pool_size", Value: "134217728"},
		{Name: "innodb_undocumented_knob", Value: "ON"},
		{Name: "max_connections", Value: "151"},
	}
	registry := NewRegistry(source, nil, nil)

	e, err := registry.Resolve(ctx, "InnoDB")
	require.NoError(t, err)
	report, err := e.Variables(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{`innodb\_%`}, source.likes)
	require.Len(t, report, 2)
	assert.Equal(t, VariableStatus{
		Name:        "innodb_buffer_pool_size",
		Title:       "Buffer pool size",
		Value:       "134217728",
		Type:        DetailsSize,
		Description: "The size of the memory buffer InnoDB uses to cache data and indexes of its tables.",
	}, report[0])
	assert.Equal(t, VariableStatus{
		Name:  "innodb_undocumented_knob",
		Title: "innodb_undocumented_knob",
		Value: "ON",
		Type:  DetailsPlaintext,
	}, report[1])
	assert.Equal(t, "128 MiB", e.FormatValue(report[0]))
}

func TestVariablesWithoutPattern(t *testing.T) {
	ctx := context.Background()
	source := newFakeSource()
	source.variables = []schema.Variable{
		{Name: "max_heap_table_size", Value: "16777216"},
		{Name: "memory_extra", Value: "1"},
		{Name: "max_connections", Value: "151"},
	}
	registry := NewRegistry(source, nil, nil)

	e, err := registry.Resolve(ctx, "MEMORY")
	require.NoError(t, err)
	report, err := e.Variables(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{""}, source.likes)
	require.Len(t, report, 2)
	assert.Equal(t, "max_heap_table_size", report[0].Name)
	assert.Equal(t, DetailsSize, report[0].Type)
	assert.Equal(t, "memory_extra", report[1].Name)
	assert.Equal(t, "16 MiB", e.FormatValue(report[0]))
}

func TestFormatValue(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(newFakeSource(), nil, nil)
	generic, err := registry.Resolve(ctx, "InnoDB")
	require.NoError(t, err)
	pbxt, err := registry.Resolve(ctx, "PBXT")
	require.NoError(t, err)

	assert.Equal(t, "1,000,000", generic.FormatValue(VariableStatus{Type: DetailsNumeric, Value: "1000000"}))
	assert.Equal(t, "abc", generic.FormatValue(VariableStatus{Type: DetailsNumeric, Value: "abc"}))
	assert.Equal(t, "ON", generic.FormatValue(VariableStatus{Type: DetailsBoolean, Value: "ON"}))
	assert.Equal(t, "", generic.FormatValue(VariableStatus{Type: DetailsSize, Value: "32MB"}))

	formatted, ok := pbxt.FormatSize("32MB")
	assert.True(t, ok)
	assert.Equal(t, "32 MiB", formatted)
	formatted, ok = pbxt.FormatSize("2G")
	assert.True(t, ok)
	assert.Equal(t, "2.0 GiB", formatted)
	formatted, ok = pbxt.FormatSize("1024")
	assert.True(t, ok)
	assert.Equal(t, "1.0 KiB", formatted)
	formatted, ok = pbxt.FormatSize("512B")
	assert.True(t, ok)
	assert.Equal(t, "512 B", formatted)
	_, ok = pbxt.FormatSize("12XB")
	assert.False(t, ok)
}

func TestPages(t *testing.T) {
	ctx := context.Background()
	source := newFakeSource()
	source.status = []schema.Variable{{Name: "Innodb_buffer_pool_pages_total", Value: "8192"}}
	registry := NewRegistry(source, nil, nil)

	innodb, err := registry.Resolve(ctx, "InnoDB")
	require.NoError(t, err)

	page, err := innodb.Page(ctx, PageBufferpool)
	require.NoError(t, err)
	assert.Equal(t, "Buffer Pool", page.Title)
	assert.Equal(t, source.status, page.Variables)
	assert.Equal(t, []string{`Innodb\_buffer\_pool\_%`}, source.likes)

	page, err = innodb.Page(ctx, PageStatus)
	require.NoError(t, err)
	assert.Equal(t, "status of innodb", page.Text)

	page, err = innodb.Page(ctx, "Nope")
	require.NoError(t, err)
	assert.Empty(t, page.Title)
	assert.Empty(t, page.Text)

	myisam, err := registry.Resolve(ctx, "MyISAM")
	require.NoError(t, err)
	page, err = myisam.Page(ctx, PageStatus)
	require.NoError(t, err)
	assert.Empty(t, page.Text)
}
