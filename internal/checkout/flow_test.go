package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/remedia/internal/cart"
	"github.com/Makepad-fr/remedia/internal/model"
	"github.com/Makepad-fr/remedia/internal/store"
)

func newFlow(t *testing.T, items ...model.CartItem) (*Flow, *cart.Store, *store.Memory) {
	t.Helper()
	kv := store.NewMemory()
	c := cart.New(kv, nil)
	for _, it := range items {
		_, err := c.Add(it.CatalogItem, it.Type)
		require.NoError(t, err)
	}
	f := NewFlow(c, nil)
	f.newID = func() string { return "order-1" }
	return f, c, kv
}

func cartIDs(c *cart.Store) []string {
	var out []string
	for _, it := range c.Load() {
		out = append(out, it.ID)
	}
	return out
}

func TestFlow_MixedCart(t *testing.T) {
	f, c, _ := newFlow(t, line("a", model.KindProduct, 10), line("b", model.KindRemedy, 5))

	st, err := f.BuyAll()
	require.NoError(t, err)
	assert.Equal(t, PaymentConfirm, st)

	st, err = f.Paid()
	require.NoError(t, err)
	assert.Equal(t, AddressCollect, st, "a product in the cart needs an address")

	st, conf, err := f.SubmitAddress(fullForm)
	require.NoError(t, err)
	assert.Equal(t, RemedySummary, st)
	assert.Equal(t, "order-1", conf.OrderID)
	assert.Equal(t, "ada@example.com", conf.Email)
	require.Len(t, conf.Shipped, 1)
	assert.Equal(t, "a", conf.Shipped[0].ID)
	assert.Equal(t, []string{"b"}, cartIDs(c))

	remedies, err := f.EnterSummary()
	require.NoError(t, err)
	require.Len(t, remedies, 1)
	assert.Equal(t, "b", remedies[0].ID)
	assert.Empty(t, c.Load())
}

func TestFlow_RemediesOnly(t *testing.T) {
	f, c, _ := newFlow(t, line("b", model.KindRemedy, 5))

	_, err := f.BuyAll()
	require.NoError(t, err)
	st, err := f.Paid()
	require.NoError(t, err)
	assert.Equal(t, RemedySummary, st)

	remedies, err := f.EnterSummary()
	require.NoError(t, err)
	assert.Len(t, remedies, 1)
	assert.Empty(t, c.Load(), "entering the summary clears the cart")
}

func TestFlow_ProductsOnlyEndsAfterAddress(t *testing.T) {
	f, c, _ := newFlow(t, line("a", model.KindProduct, 10))
	_, _ = f.BuyAll()
	_, _ = f.Paid()

	st, _, err := f.SubmitAddress(fullForm)
	require.NoError(t, err)
	assert.Equal(t, Terminal, st)
	assert.Empty(t, c.Load())
}

func TestFlow_SummaryConsumesOnce(t *testing.T) {
	f, c, _ := newFlow(t, line("b", model.KindRemedy, 5))
	_, _ = f.BuyAll()
	_, _ = f.Paid()

	clears := 0
	defer c.Subscribe(func() { clears++ })()

	first, err := f.EnterSummary()
	require.NoError(t, err)
	second, err := f.EnterSummary()
	require.NoError(t, err)

	assert.Equal(t, first, second, "re-entry shows what was consumed")
	assert.Equal(t, 1, clears, "the cart is cleared exactly once")

	// a remedy added after consumption is not swept up by re-entry
	_, _ = c.Add(model.CatalogItem{ID: "late"}, model.KindRemedy)
	third, err := f.EnterSummary()
	require.NoError(t, err)
	assert.Equal(t, first, third)
	assert.Equal(t, []string{"late"}, cartIDs(c))
}

func TestFlow_SummaryWithoutRemediesKeepsCart(t *testing.T) {
	f, _, _ := newFlow(t)
	f.At(RemedySummary)
	remedies, err := f.EnterSummary()
	require.NoError(t, err)
	assert.Empty(t, remedies)
	assert.Nil(t, f.Remedies())
}

func TestFlow_BadFormBlocksSubmit(t *testing.T) {
	f, c, _ := newFlow(t, line("a", model.KindProduct, 10))
	_, _ = f.BuyAll()
	_, _ = f.Paid()

	st, _, err := f.SubmitAddress(Address{Name: "Ada"})
	var fe *FormError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, AddressCollect, st)
	assert.Equal(t, []string{"a"}, cartIDs(c), "nothing shipped")
}

func TestFlow_EmptyCartCannotCheckout(t *testing.T) {
	f, _, _ := newFlow(t)
	st, err := f.BuyAll()
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, CartReview, st)
}

func TestFlow_EnterSummaryOutOfOrder(t *testing.T) {
	f, c, _ := newFlow(t, line("b", model.KindRemedy, 5))
	_, err := f.EnterSummary()
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Len(t, c.Load(), 1)
}

func TestFlow_BuyNowBypassesCart(t *testing.T) {
	f, c, kv := newFlow(t, line("a", model.KindProduct, 10))
	before, _, _ := kv.Get(store.KeyCart)

	st := f.BuyNow(model.CatalogItem{ID: "x", Price: 3}, model.KindProduct)
	assert.Equal(t, PaymentConfirm, st)
	require.NotNil(t, f.Single())
	assert.Equal(t, "x", f.Single().ID)

	st, err := f.Paid()
	require.NoError(t, err)
	assert.Equal(t, DetailReturn, st)

	after, _, _ := kv.Get(store.KeyCart)
	assert.Equal(t, before, after)
	assert.Equal(t, []string{"a"}, cartIDs(c))

	_, err = f.Paid()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestFlow_Reset(t *testing.T) {
	f, _, _ := newFlow(t, line("b", model.KindRemedy, 5))
	_, _ = f.BuyAll()
	_, _ = f.Paid()
	_, _ = f.EnterSummary()
	st, err := f.Finish()
	require.NoError(t, err)
	assert.Equal(t, Terminal, st)

	f.Reset()
	assert.Equal(t, CartReview, f.State())
	assert.Nil(t, f.Remedies())
	assert.Nil(t, f.Single())
}

func TestFlow_FinishOnlyFromSummary(t *testing.T) {
	f, c, _ := newFlow(t, line("a", model.KindProduct, 2), line("b", model.KindRemedy, 5))

	st, err := f.Finish()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, CartReview, st)

	_, _ = f.BuyAll()
	_, err = f.Finish()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, PaymentConfirm, f.State(), "payment step is kept")

	_, _ = f.Paid()
	_, err = f.Finish()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, AddressCollect, f.State(), "address step is kept")
	assert.Len(t, c.Load(), 2)
}
