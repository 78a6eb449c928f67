package cart

import "sync"

// Badge keeps a cart item count in step with the store for a header or
// status line. Close it when the hosting view goes away, or the store keeps
// one dead listener per view.
type Badge struct {
	mu       sync.Mutex
	store    *Store
	count    int
	onChange func(int)
	unsub    func()
}

// NewBadge subscribes to s and reads the count once immediately.
// onChange, if set, runs with the fresh count on every notification.
func NewBadge(s *Store, onChange func(int)) *Badge {
	b := &Badge{store: s, onChange: onChange}
	b.refresh()
	b.unsub = s.Subscribe(b.refresh)
	return b
}

func (b *Badge) refresh() {
	n := len(b.store.Load())
	b.mu.Lock()
	b.count = n
	fn := b.onChange
	b.mu.Unlock()
	if fn != nil {
		fn(n)
	}
}

// Count is the last count read from the store.
func (b *Badge) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Close unsubscribes. Idempotent.
func (b *Badge) Close() {
	b.unsub()
}
