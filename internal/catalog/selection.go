package catalog

import (
	"github.com/Makepad-fr/remedia/internal/cart"
	"github.com/Makepad-fr/remedia/internal/model"
)

// Selection is the set of checked catalog ids on a listing screen. It spans
// pages: moving to another page keeps earlier picks.
type Selection struct {
	order []string
	set   map[string]struct{}
}

func NewSelection() *Selection {
	return &Selection{set: map[string]struct{}{}}
}

func (s *Selection) Selected(id string) bool {
	_, ok := s.set[id]
	return ok
}

func (s *Selection) Len() int { return len(s.order) }

// IDs in the order they were checked.
func (s *Selection) IDs() []string {
	return append([]string(nil), s.order...)
}

func (s *Selection) add(id string) {
	if s.Selected(id) {
		return
	}
	s.set[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *Selection) drop(id string) {
	if !s.Selected(id) {
		return
	}
	delete(s.set, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Toggle flips one id.
func (s *Selection) Toggle(id string) {
	if s.Selected(id) {
		s.drop(id)
		return
	}
	s.add(id)
}

// AllSelected is true when page is non-empty and every entry on it is checked.
func (s *Selection) AllSelected(page []model.CatalogItem) bool {
	if len(page) == 0 {
		return false
	}
	for _, it := range page {
		if !s.Selected(it.ID) {
			return false
		}
	}
	return true
}

// ToggleAll checks every entry on page, or unchecks them all if they already
// were. Picks from other pages are left alone.
func (s *Selection) ToggleAll(page []model.CatalogItem) {
	if s.AllSelected(page) {
		for _, it := range page {
			s.drop(it.ID)
		}
		return
	}
	for _, it := range page {
		s.add(it.ID)
	}
}

// Clear unchecks everything.
func (s *Selection) Clear() {
	s.order = nil
	s.set = map[string]struct{}{}
}

// AddSelected puts the checked entries of page into the cart as kind and
// clears the selection. Only entries on the visible page are considered.
func (s *Selection) AddSelected(c *cart.Store, page []model.CatalogItem, kind model.Kind) (added, skipped int, err error) {
	batch := make([]model.CatalogItem, 0, s.Len())
	for _, it := range page {
		if s.Selected(it.ID) {
			batch = append(batch, it)
		}
	}
	added, skipped, err = c.AddMany(batch, kind)
	if err != nil {
		return 0, 0, err
	}
	s.Clear()
	return added, skipped, nil
}
