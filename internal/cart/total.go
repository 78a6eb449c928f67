package cart

import (
	"fmt"

	"github.com/Makepad-fr/remedia/internal/model"
)

// Total is the sum of unit prices. Empty cart totals 0.
func Total(items []model.CartItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price
	}
	return sum
}

// FormatMoney renders an amount the way the storefront shows prices.
func FormatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// HasKind reports whether any item is of kind k.
func HasKind(items []model.CartItem, k model.Kind) bool {
	for _, it := range items {
		if it.Type == k {
			return true
		}
	}
	return false
}

// OfKind returns the items of kind k, order preserved.
func OfKind(items []model.CartItem, k model.Kind) []model.CartItem {
	out := make([]model.CartItem, 0, len(items))
	for _, it := range items {
		if it.Type == k {
			out = append(out, it)
		}
	}
	return out
}
