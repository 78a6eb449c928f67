package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/remedia/internal/cart"
	"github.com/Makepad-fr/remedia/internal/model"
	"github.com/Makepad-fr/remedia/internal/store"
)

func page(ids ...string) []model.CatalogItem {
	out := make([]model.CatalogItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.CatalogItem{ID: id, Name: id, Price: 1})
	}
	return out
}

func TestSelection_Toggle(t *testing.T) {
	s := NewSelection()
	s.Toggle("a")
	s.Toggle("b")
	s.Toggle("a")
	assert.Equal(t, []string{"b"}, s.IDs())
	assert.False(t, s.Selected("a"))
}

func TestSelection_ToggleAllOnlyTouchesVisiblePage(t *testing.T) {
	s := NewSelection()
	page1 := page("a", "b")
	page2 := page("c", "d")

	s.Toggle("a")
	s.ToggleAll(page2)
	assert.True(t, s.AllSelected(page2))
	assert.False(t, s.AllSelected(page1))
	assert.Equal(t, []string{"a", "c", "d"}, s.IDs())

	s.ToggleAll(page2)
	assert.Equal(t, []string{"a"}, s.IDs(), "deselecting page 2 keeps the page 1 pick")

	s.ToggleAll(page1) // partially selected -> selects the rest
	assert.True(t, s.AllSelected(page1))
	assert.Equal(t, 2, s.Len())
}

func TestSelection_AllSelectedEmptyPage(t *testing.T) {
	s := NewSelection()
	assert.False(t, s.AllSelected(nil))
	s.ToggleAll(nil)
	assert.Zero(t, s.Len())
}

func TestSelection_AddSelected(t *testing.T) {
	c := cart.New(store.NewMemory(), nil)
	_, err := c.Add(model.CatalogItem{ID: "b"}, model.KindRemedy)
	require.NoError(t, err)

	s := NewSelection()
	visible := page("a", "b", "c")
	s.Toggle("a")
	s.Toggle("b")
	s.Toggle("z") // picked on another page, not visible now

	added, skipped, err := s.AddSelected(c, visible, model.KindRemedy)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, skipped)
	assert.Zero(t, s.Len(), "selection is cleared after a bulk add")

	got := c.Load()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, model.KindRemedy, got[1].Type)
}
