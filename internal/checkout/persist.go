package checkout

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Makepad-fr/remedia/internal/cart"
	"github.com/Makepad-fr/remedia/internal/model"
	"github.com/Makepad-fr/remedia/internal/store"
)

// Snapshot is the part of a Flow that has to survive between processes.
type Snapshot struct {
	State    State            `json:"state"`
	Single   *model.CartItem  `json:"single,omitempty"`
	Consumed bool             `json:"consumed,omitempty"`
	Remedies []model.CartItem `json:"remedies,omitempty"`
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		State:    f.state,
		Single:   f.single,
		Consumed: f.consumed,
		Remedies: f.remedies,
	}
}

func (f *Flow) restore(s Snapshot) {
	f.mu.Lock()
	f.state = s.State
	f.single = s.Single
	f.consumed = s.Consumed
	f.remedies = s.Remedies
	f.mu.Unlock()
}

// Resume rebuilds the flow saved under store.KeyCheckout, or a fresh one
// at CartReview when nothing usable is saved.
func Resume(c *cart.Store, kv store.Storage, log *zap.Logger) *Flow {
	f := NewFlow(c, log)
	raw, ok, err := kv.Get(store.KeyCheckout)
	if err != nil || !ok {
		return f
	}
	var s Snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		f.log.Warn("discarding unreadable checkout", zap.Error(err))
		return f
	}
	if _, known := stateNames[s.State]; !known {
		return f
	}
	f.restore(s)
	return f
}

// Persist saves the flow, or drops the saved one once the flow has ended.
func Persist(kv store.Storage, f *Flow) error {
	s := f.Snapshot()
	if s.State == Terminal || s.State == DetailReturn || s.State == CartReview {
		return kv.Remove(store.KeyCheckout)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return kv.Set(store.KeyCheckout, string(raw))
}
