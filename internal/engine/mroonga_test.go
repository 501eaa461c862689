package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const objectList = `{
	"articles": {"id": 256, "name": "articles", "type": {"id": 48, "name": "table:hash_key"}},
	"articles.content": {"id": 257, "name": "articles.content", "type": {"id": 65, "name": "column:var_size"}},
	"articles#articles_content": {"id": 258, "name": "articles#articles_content", "type": {"id": 49, "name": "table:pat_key"}},
	"articles#articles_content.index": {"id": 259, "name": "articles#articles_content.index", "type": {"id": 72, "name": "column:index"}},
	"ShortText": {"id": 14, "name": "ShortText", "type": {"id": 32, "name": "type"}},
	"TokenBigram": {"id": 67, "name": "TokenBigram", "type": {"id": 52, "name": "proc"}},
	"comments": {"id": 300, "name": "comments", "type": {"id": 51, "name": "table:no_key"}}
}`

func mroongaSource() *fakeSource {
	source := newFakeSource()
	source.values[mroongaObjectList] = objectList
	inspect := func(name string, usage int) {
		source.values[fmt.Sprintf(mroongaObjectInspect, name)] = fmt.Sprintf(`{"id": 1, "name": %q, "disk_usage": %d}`, name, usage)
	}
	inspect("articles", 1000)
	inspect("articles.content", 200)
	inspect("articles#articles_content", 30)
	inspect("articles#articles_content.index", 4)
	inspect("comments", 99999)
	return source
}

func TestDiskUsage(t *testing.T) {
	ctx := context.Background()
	source := mroongaSource()
	registry := NewRegistry(source, nil, nil)

	e, err := registry.Resolve(ctx, "Mroonga")
	require.NoError(t, err)

	data, index, err := e.DiskUsage(ctx, "blog", "articles")
	require.NoError(t, err)
	assert.Equal(t, int64(1200), data)
	assert.Equal(t, int64(34), index)
	assert.Equal(t, []string{"blog"}, source.selected)

	data, index, err = e.DiskUsage(ctx, "blog", "comments")
	require.NoError(t, err)
	assert.Equal(t, int64(99999), data)
	assert.Zero(t, index)

	assert.Equal(t, 1, source.calls[mroongaObjectList])
	assert.True(t, registry.cache.Has(mroongaCatalogKey+"blog"))
	assert.Equal(t, 1, source.calls[fmt.Sprintf(mroongaObjectInspect, "articles")])
}

func TestDiskUsageSkipsInvalidPayloads(t *testing.T) {
	ctx := context.Background()
	source := mroongaSource()
	source.values[fmt.Sprintf(mroongaObjectInspect, "articles.content")] = "<error>"
	registry := NewRegistry(source, nil, nil)

	e, err := registry.Resolve(ctx, "mroonga")
	require.NoError(t, err)
	data, index, err := e.DiskUsage(ctx, "blog", "articles")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), data)
	assert.Equal(t, int64(34), index)
}

func TestDiskUsageEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	source := newFakeSource()
	registry := NewRegistry(source, nil, nil)

	e, err := registry.Resolve(ctx, "mroonga")
	require.NoError(t, err)
	data, index, err := e.DiskUsage(ctx, "blog", "articles")
	require.NoError(t, err)
	assert.Zero(t, data)
	assert.Zero(t, index)
}

func TestDiskUsageUnsupported(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(newFakeSource(), nil, nil)

	e, err := registry.Resolve(ctx, "InnoDB")
	require.NoError(t, err)
	_, _, err = e.DiskUsage(ctx, "blog", "articles")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestHasMroonga(t *testing.T) {
	ctx := context.Background()

	source := newFakeSource()
	registry := NewRegistry(source, nil, nil)
	assert.True(t, registry.HasMroonga(ctx))
	assert.True(t, registry.HasMroonga(ctx))
	assert.Equal(t, 1, source.calls[mroongaObjectList])

	source = newFakeSource()
	source.valueErr[mroongaObjectList] = errors.New("FUNCTION mroonga_command does not exist")
	registry = NewRegistry(source, nil, nil)
	assert.False(t, registry.HasMroonga(ctx))
	assert.False(t, registry.HasMroonga(ctx))
	assert.Equal(t, 1, source.calls[mroongaObjectList])
}
