package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/remedia/internal/cart"
	"github.com/Makepad-fr/remedia/internal/model"
	"github.com/Makepad-fr/remedia/internal/store"
)

func TestResume_NothingSaved(t *testing.T) {
	kv := store.NewMemory()
	f := Resume(cart.New(kv, nil), kv, nil)
	assert.Equal(t, CartReview, f.State())
}

func TestResume_Garbage(t *testing.T) {
	kv := store.NewMemory()
	require.NoError(t, kv.Set(store.KeyCheckout, "{nope"))
	assert.Equal(t, CartReview, Resume(cart.New(kv, nil), kv, nil).State())

	require.NoError(t, kv.Set(store.KeyCheckout, `{"state":99}`))
	assert.Equal(t, CartReview, Resume(cart.New(kv, nil), kv, nil).State())
}

func TestPersist_AcrossProcesses(t *testing.T) {
	f, c, kv := newFlow(t, line("b", model.KindRemedy, 5))
	_, err := f.BuyAll()
	require.NoError(t, err)
	_, err = f.Paid()
	require.NoError(t, err)
	require.NoError(t, Persist(kv, f))

	// next invocation consumes
	g := Resume(c, kv, nil)
	assert.Equal(t, RemedySummary, g.State())
	first, err := g.EnterSummary()
	require.NoError(t, err)
	require.NoError(t, Persist(kv, g))
	assert.Empty(t, c.Load())

	// and the one after sees the same remedies without touching the cart
	_, _ = c.Add(model.CatalogItem{ID: "late"}, model.KindRemedy)
	h := Resume(c, kv, nil)
	again, err := h.EnterSummary()
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Len(t, c.Load(), 1)

	_, err = h.Finish()
	require.NoError(t, err)
	require.NoError(t, Persist(kv, h))
	_, ok, _ := kv.Get(store.KeyCheckout)
	assert.False(t, ok, "finished checkout is dropped")
}

func TestPersist_SinglePurchase(t *testing.T) {
	f, c, kv := newFlow(t)
	f.BuyNow(model.CatalogItem{ID: "x", Name: "X"}, model.KindProduct)
	require.NoError(t, Persist(kv, f))

	g := Resume(c, kv, nil)
	require.NotNil(t, g.Single())
	assert.Equal(t, "x", g.Single().ID)
	st, err := g.Paid()
	require.NoError(t, err)
	assert.Equal(t, DetailReturn, st)
}
