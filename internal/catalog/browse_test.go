package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/remedia/internal/store"
)

func TestBrowse_PrevNext(t *testing.T) {
	kv := store.NewMemory()
	b := NewBrowse(kv)
	require.NoError(t, b.Record(page("a", "b", "c"), 1))

	assert.True(t, b.HasPrev())
	assert.True(t, b.HasNext())

	it, ok, err := b.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "c", it.ID)
	assert.False(t, b.HasNext(), "at the last entry")

	_, ok, err = b.Next()
	require.NoError(t, err)
	assert.False(t, ok)

	raw, _, _ := kv.Get(store.KeyFilteredIndex)
	assert.Equal(t, "2", raw, "index is persisted")

	it, ok, _ = b.Prev()
	require.True(t, ok)
	assert.Equal(t, "b", it.ID)
	it, ok, _ = b.Prev()
	require.True(t, ok)
	assert.Equal(t, "a", it.ID)
	assert.False(t, b.HasPrev())
}

func TestBrowse_SurvivesReopen(t *testing.T) {
	kv := store.NewMemory()
	require.NoError(t, NewBrowse(kv).Record(page("a", "b"), 0))

	items, idx := NewBrowse(kv).Snapshot()
	assert.Len(t, items, 2)
	assert.Equal(t, 0, idx)
}

func TestBrowse_MalformedReadsEmpty(t *testing.T) {
	kv := store.NewMemory()
	require.NoError(t, kv.Set(store.KeyFilteredProducts, "not json"))
	b := NewBrowse(kv)

	items, idx := b.Snapshot()
	assert.Empty(t, items)
	assert.Equal(t, -1, idx)
	assert.False(t, b.HasPrev())
	assert.False(t, b.HasNext())

	require.NoError(t, kv.Set(store.KeyFilteredProducts, `[{"_id":"a"},{"_id":"b"}]`))
	require.NoError(t, kv.Set(store.KeyFilteredIndex, "oops"))
	items, idx = b.Snapshot()
	assert.Len(t, items, 2)
	assert.Equal(t, -1, idx)
	assert.False(t, b.HasNext(), "no position, no next")
}

func TestBrowse_Focus(t *testing.T) {
	b := NewBrowse(store.NewMemory())
	require.NoError(t, b.Record(page("a", "b", "c"), 0))
	require.NoError(t, b.Focus("c"))
	_, idx := b.Snapshot()
	assert.Equal(t, 2, idx)

	require.NoError(t, b.Focus("nope"))
	_, idx = b.Snapshot()
	assert.Equal(t, 2, idx, "unknown id leaves the position alone")
}
