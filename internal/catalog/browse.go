package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Makepad-fr/remedia/internal/model"
	"github.com/Makepad-fr/remedia/internal/store"
)

// Browse is the persisted snapshot of the last listing page and the user's
// position in it, so a detail view can step to neighbours after the listing
// is gone.
type Browse struct {
	kv store.Storage
}

func NewBrowse(kv store.Storage) *Browse {
	return &Browse{kv: kv}
}

// Record stores a listing snapshot and the index of the entry being viewed.
func (b *Browse) Record(items []model.CatalogItem, index int) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := b.kv.Set(store.KeyFilteredProducts, string(raw)); err != nil {
		return err
	}
	return b.setIndex(index)
}

func (b *Browse) setIndex(i int) error {
	return b.kv.Set(store.KeyFilteredIndex, strconv.Itoa(i))
}

// Snapshot returns the recorded items and index. Anything unreadable reads
// as an empty snapshot at index -1.
func (b *Browse) Snapshot() ([]model.CatalogItem, int) {
	raw, ok, err := b.kv.Get(store.KeyFilteredProducts)
	if err != nil || !ok {
		return nil, -1
	}
	var items []model.CatalogItem
	if json.Unmarshal([]byte(raw), &items) != nil {
		return nil, -1
	}
	idxRaw, ok, err := b.kv.Get(store.KeyFilteredIndex)
	if err != nil || !ok {
		return items, -1
	}
	var idx int
	if json.Unmarshal([]byte(idxRaw), &idx) != nil {
		return items, -1
	}
	return items, idx
}

// HasPrev mirrors the detail page: there must be an entry before the current one.
func (b *Browse) HasPrev() bool {
	items, i := b.Snapshot()
	return len(items) > 0 && i > 0
}

// HasNext requires a valid position that is not the last entry.
func (b *Browse) HasNext() bool {
	items, i := b.Snapshot()
	return len(items) > 0 && i > -1 && i < len(items)-1
}

// Prev moves one entry back and persists the new position.
func (b *Browse) Prev() (model.CatalogItem, bool, error) {
	if !b.HasPrev() {
		return model.CatalogItem{}, false, nil
	}
	items, i := b.Snapshot()
	if err := b.setIndex(i - 1); err != nil {
		return model.CatalogItem{}, false, err
	}
	return items[i-1], true, nil
}

// Next moves one entry forward and persists the new position.
func (b *Browse) Next() (model.CatalogItem, bool, error) {
	if !b.HasNext() {
		return model.CatalogItem{}, false, nil
	}
	items, i := b.Snapshot()
	if err := b.setIndex(i + 1); err != nil {
		return model.CatalogItem{}, false, err
	}
	return items[i+1], true, nil
}

// IndexOf finds id in the snapshot, -1 if absent.
func (b *Browse) IndexOf(id string) int {
	items, _ := b.Snapshot()
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Focus points the snapshot at id when it is part of it.
func (b *Browse) Focus(id string) error {
	i := b.IndexOf(id)
	if i < 0 {
		return nil
	}
	return b.setIndex(i)
}
