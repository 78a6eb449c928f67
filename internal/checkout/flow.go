package checkout

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Makepad-fr/remedia/internal/cart"
	"github.com/Makepad-fr/remedia/internal/logging"
	"github.com/Makepad-fr/remedia/internal/model"
)

// Confirmation is what the address step hands back: a reference for the
// shipped products and where the (simulated) confirmation went.
type Confirmation struct {
	OrderID string
	Email   string
	Shipped []model.CartItem
}

// Flow runs the state machine against a cart store. One Flow is one pass
// through checkout; start a new one (or Reset) for the next purchase.
type Flow struct {
	mu    sync.Mutex
	cart  *cart.Store
	log   *zap.Logger
	newID func() string

	state  State
	single *model.CartItem

	consumed bool
	remedies []model.CartItem
}

// NewFlow starts at CartReview. log may be nil.
func NewFlow(c *cart.Store, log *zap.Logger) *Flow {
	return &Flow{
		cart:  c,
		log:   logging.OrNop(log),
		newID: uuid.NewString,
		state: CartReview,
	}
}

// At positions the flow at s. Used by callers that drive one step per
// process, such as the CLI.
func (f *Flow) At(s State) *Flow {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
	return f
}

// State is the current step.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Single is the item of a single-item purchase, or nil for a cart checkout.
func (f *Flow) Single() *model.CartItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.single
}

// Reset returns to CartReview and forgets anything consumed.
func (f *Flow) Reset() {
	f.mu.Lock()
	f.state = CartReview
	f.single = nil
	f.consumed = false
	f.remedies = nil
	f.mu.Unlock()
}

func (f *Flow) move(t Trigger, form Address) (State, error) {
	next, err := Next(f.state, t, f.cart.Load(), form)
	if err != nil {
		return f.state, err
	}
	f.log.Debug("checkout transition",
		zap.Stringer("from", f.state), zap.Stringer("trigger", t), zap.Stringer("to", next))
	f.state = next
	return next, nil
}

// BuyAll starts checkout for the whole cart.
func (f *Flow) BuyAll() (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.move(BuyAll, Address{})
}

// BuyNow starts a single-item purchase that leaves the cart alone.
func (f *Flow) BuyNow(item model.CatalogItem, kind model.Kind) State {
	f.mu.Lock()
	defer f.mu.Unlock()
	ci := model.NewCartItem(item, kind)
	f.single = &ci
	f.state = PaymentConfirm
	f.log.Debug("checkout buy now", zap.String("id", item.ID))
	return f.state
}

// Paid confirms payment. A cart with products goes on to the address step,
// otherwise straight to the remedies summary. A single-item purchase ends.
func (f *Flow) Paid() (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.single != nil {
		if f.state != PaymentConfirm {
			return f.state, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, Paid, f.state)
		}
		f.state = DetailReturn
		return f.state, nil
	}
	return f.move(Paid, Address{})
}

// SubmitAddress validates the form, ships the products (removing them from
// the cart) and moves on to the remedies summary, or ends if nothing is left.
func (f *Flow) SubmitAddress(form Address) (State, Confirmation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := f.cart.Load()
	if _, err := Next(f.state, Submit, items, form); err != nil {
		return f.state, Confirmation{}, err
	}
	shipped := cart.OfKind(items, model.KindProduct)
	rest, err := f.cart.FilterOutKind(model.KindProduct)
	if err != nil {
		return f.state, Confirmation{}, fmt.Errorf("ship products: %w", err)
	}
	conf := Confirmation{OrderID: f.newID(), Email: form.Email, Shipped: shipped}
	f.log.Info("confirmation email sent",
		zap.String("order_id", conf.OrderID),
		zap.String("email", form.Email),
		zap.Int("products", len(shipped)))

	if len(rest) == 0 {
		f.state = Terminal
	} else {
		f.state = RemedySummary
	}
	return f.state, conf, nil
}

// EnterSummary returns the remedies to deliver. The first entry with
// remedies in the cart takes them and clears the cart; later entries in the
// same flow return that same list and leave the store alone.
func (f *Flow) EnterSummary() ([]model.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != RemedySummary {
		return nil, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, Enter, f.state)
	}
	if f.consumed {
		return f.remedies, nil
	}
	remedies := cart.OfKind(f.cart.Load(), model.KindRemedy)
	if len(remedies) == 0 {
		return remedies, nil
	}
	if err := f.cart.Clear(); err != nil {
		return nil, fmt.Errorf("consume cart: %w", err)
	}
	f.consumed = true
	f.remedies = remedies
	f.log.Info("remedies consumed", zap.Int("count", len(remedies)))
	return remedies, nil
}

// Remedies is what EnterSummary consumed, nil before that.
func (f *Flow) Remedies() []model.CartItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remedies
}

// Finish leaves the remedies summary for the catalog. Any other step is an
// invalid transition and the flow stays where it is.
func (f *Flow) Finish() (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != RemedySummary {
		return f.state, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, Leave, f.state)
	}
	f.state = Terminal
	return f.state, nil
}
