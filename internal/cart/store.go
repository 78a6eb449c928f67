// Package cart owns the persisted cart: a JSON array of line items kept under
// one storage key, rewritten whole on every mutation, with a change
// notification fanned out to every subscriber after each write.
package cart

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Makepad-fr/remedia/internal/logging"
	"github.com/Makepad-fr/remedia/internal/model"
	"github.com/Makepad-fr/remedia/internal/store"
)

// AddResult reports the outcome of a single add. A duplicate is not an error.
type AddResult struct {
	Item  model.CartItem
	Added bool
}

// Store is the single owner of the cart. Consumers hold at most a copy
// returned by Load.
type Store struct {
	mu  sync.Mutex
	kv  store.Storage
	log *zap.Logger

	subMu  sync.Mutex
	nextID int
	subs   map[int]func()
}

// New wraps a Storage. log may be nil.
func New(kv store.Storage, log *zap.Logger) *Store {
	return &Store{kv: kv, log: logging.OrNop(log), subs: map[int]func(){}}
}

// Load returns the persisted items. Missing or malformed data reads as an
// empty cart; the failure is logged and never returned.
func (s *Store) Load() []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() []model.CartItem {
	raw, ok, err := s.kv.Get(store.KeyCart)
	if err != nil {
		s.log.Debug("cart read failed", zap.Error(err))
		return []model.CartItem{}
	}
	if !ok || raw == "" {
		return []model.CartItem{}
	}
	var items []model.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Debug("cart parse failed, treating as empty", zap.Error(err))
		return []model.CartItem{}
	}
	if items == nil {
		items = []model.CartItem{}
	}
	return items
}

func (s *Store) save(items []model.CartItem) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := s.kv.Set(store.KeyCart, string(b)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Add tags item with kind and appends it unless an entry with the same id is
// already present.
func (s *Store) Add(item model.CatalogItem, kind model.Kind) (AddResult, error) {
	ci := model.NewCartItem(item, kind)
	s.mu.Lock()
	items := s.load()
	for _, it := range items {
		if it.ID == item.ID {
			s.mu.Unlock()
			return AddResult{Item: ci}, nil
		}
	}
	items = append(items, ci)
	err := s.save(items)
	s.mu.Unlock()
	if err != nil {
		return AddResult{Item: ci}, err
	}
	s.log.Debug("cart add", zap.String("id", item.ID), zap.String("kind", string(kind)))
	s.Notify()
	return AddResult{Item: ci, Added: true}, nil
}

// AddMany adds every item against a single snapshot of the cart. Items whose
// id is already in the cart, or earlier in the same batch, are skipped.
func (s *Store) AddMany(batch []model.CatalogItem, kind model.Kind) (added, skipped int, err error) {
	s.mu.Lock()
	items := s.load()
	seen := make(map[string]struct{}, len(items)+len(batch))
	for _, it := range items {
		seen[it.ID] = struct{}{}
	}
	for _, c := range batch {
		if _, dup := seen[c.ID]; dup {
			skipped++
			continue
		}
		seen[c.ID] = struct{}{}
		items = append(items, model.NewCartItem(c, kind))
		added++
	}
	if added > 0 {
		err = s.save(items)
	}
	s.mu.Unlock()
	if err != nil {
		return 0, len(batch), err
	}
	s.log.Debug("cart add many", zap.Int("added", added), zap.Int("skipped", skipped))
	if added > 0 {
		s.Notify()
	}
	return added, skipped, nil
}

// Remove drops the item with id. Reports whether anything was removed.
func (s *Store) Remove(id string) (bool, error) {
	s.mu.Lock()
	items := s.load()
	out := items[:0]
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	if len(out) == len(items) {
		s.mu.Unlock()
		return false, nil
	}
	err := s.save(out)
	s.mu.Unlock()
	if err != nil {
		return false, err
	}
	s.Notify()
	return true, nil
}

// FilterOutKind persists the cart without items of kind and returns what is
// left, in original order.
func (s *Store) FilterOutKind(kind model.Kind) ([]model.CartItem, error) {
	s.mu.Lock()
	items := s.load()
	rest := make([]model.CartItem, 0, len(items))
	for _, it := range items {
		if it.Type != kind {
			rest = append(rest, it)
		}
	}
	err := s.save(rest)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.Notify()
	return rest, nil
}

// Clear removes the persisted cart.
func (s *Store) Clear() error {
	s.mu.Lock()
	err := s.kv.Remove(store.KeyCart)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.Notify()
	return nil
}

// Subscribe registers fn to run after every change. fn receives no payload;
// it is expected to re-read the store. The returned func unsubscribes and may
// be called more than once.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// Subscribers is the number of live subscriptions.
func (s *Store) Subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

// Notify fans a change out to every subscriber without mutating the cart.
// Also used when the storage changed underneath the process.
func (s *Store) Notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
