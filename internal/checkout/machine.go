// Package checkout is the checkout state machine and the flow that runs it
// against the cart store.
//
// Products need an address (they ship); remedies are delivered as a document.
// A mixed cart goes through the address step first, and the remedies summary
// consumes whatever is left.
package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Makepad-fr/remedia/internal/cart"
	"github.com/Makepad-fr/remedia/internal/model"
)

// State is a checkout step.
type State int

const (
	CartReview State = iota
	PaymentConfirm
	AddressCollect
	RemedySummary
	// Terminal ends the flow; the caller returns to the catalog.
	Terminal
	// DetailReturn ends a single-item purchase; the caller returns to the
	// detail view it came from.
	DetailReturn
)

var stateNames = map[State]string{
	CartReview:     "cart",
	PaymentConfirm: "payment",
	AddressCollect: "address",
	RemedySummary:  "remedies",
	Terminal:       "done",
	DetailReturn:   "detail",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Trigger is a user action.
type Trigger int

const (
	BuyAll Trigger = iota
	Paid
	Submit
	Enter
	// Leave closes the remedies summary.
	Leave
)

func (t Trigger) String() string {
	switch t {
	case BuyAll:
		return "buy-all"
	case Paid:
		return "paid"
	case Submit:
		return "submit"
	case Enter:
		return "enter"
	case Leave:
		return "leave"
	}
	return fmt.Sprintf("trigger(%d)", int(t))
}

var (
	ErrEmptyCart         = errors.New("checkout: cart is empty")
	ErrInvalidTransition = errors.New("checkout: invalid transition")
)

// Address is the shipping form.
type Address struct {
	Name    string
	Address string
	Email   string
}

// FormError lists required fields left blank.
type FormError struct {
	Missing []string
}

func (e *FormError) Error() string {
	return "checkout: required: " + strings.Join(e.Missing, ", ")
}

// Validate requires every field to be non-blank.
func (a Address) Validate() error {
	var missing []string
	if strings.TrimSpace(a.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(a.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(a.Email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return &FormError{Missing: missing}
	}
	return nil
}

// Next maps (state, trigger, cart, form) to the following state. It has no
// side effects; cart is the cart as it stands when the trigger fires.
func Next(from State, t Trigger, items []model.CartItem, form Address) (State, error) {
	switch {
	case from == CartReview && t == BuyAll:
		if len(items) == 0 {
			return from, ErrEmptyCart
		}
		return PaymentConfirm, nil

	case from == PaymentConfirm && t == Paid:
		if cart.HasKind(items, model.KindProduct) {
			return AddressCollect, nil
		}
		return RemedySummary, nil

	case from == AddressCollect && t == Submit:
		if err := form.Validate(); err != nil {
			return from, err
		}
		if len(withoutKind(items, model.KindProduct)) == 0 {
			return Terminal, nil
		}
		return RemedySummary, nil

	case from == RemedySummary && t == Enter:
		return RemedySummary, nil
	}
	return from, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, t, from)
}

func withoutKind(items []model.CartItem, k model.Kind) []model.CartItem {
	out := make([]model.CartItem, 0, len(items))
	for _, it := range items {
		if it.Type != k {
			out = append(out, it)
		}
	}
	return out
}
