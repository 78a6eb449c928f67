package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/remedia/internal/cart"
	"github.com/Makepad-fr/remedia/internal/catalog"
	"github.com/Makepad-fr/remedia/internal/model"
)

// catalogEntry adapts a catalog item to bubbles/list.Item.
type catalogEntry struct {
	item model.CatalogItem
}

func (e catalogEntry) Title() string       { return e.item.Name }
func (e catalogEntry) Description() string { return e.item.Description }
func (e catalogEntry) FilterValue() string { return e.item.Name }

// catalogDelegate draws one line per entry with its checkbox.
type catalogDelegate struct {
	sel *catalog.Selection
}

func (d catalogDelegate) Height() int                               { return 1 }
func (d catalogDelegate) Spacing() int                              { return 0 }
func (d catalogDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d catalogDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	e, ok := li.(catalogEntry)
	if !ok {
		return
	}
	box := mutedStyle.Render(boxUnchecked)
	if d.sel.Selected(e.item.ID) {
		box = successStyle.Render(boxChecked)
	}
	name := e.item.Name
	if !e.item.Available() {
		name = outStyle.Render(name) + mutedStyle.Render(" (out of stock)")
	}
	line := fmt.Sprintf("%s %s  %s", box, name, priceStyle.Render(cart.FormatMoney(e.item.Price)))
	if e.item.Category != "" {
		line += mutedStyle.Render("  · " + e.item.Category)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// cartEntry adapts a cart line to bubbles/list.Item.
type cartEntry struct {
	item model.CartItem
}

func (e cartEntry) Title() string       { return e.item.Name }
func (e cartEntry) Description() string { return string(e.item.Type) }
func (e cartEntry) FilterValue() string { return e.item.Name }

type cartDelegate struct{}

func (d cartDelegate) Height() int                               { return 1 }
func (d cartDelegate) Spacing() int                              { return 0 }
func (d cartDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d cartDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	e, ok := li.(cartEntry)
	if !ok {
		return
	}
	kind := mutedStyle.Render(fmt.Sprintf("%-7s", e.item.Type))
	if e.item.Type == model.KindRemedy {
		kind = accentStyle.Render(fmt.Sprintf("%-7s", e.item.Type))
	}
	line := fmt.Sprintf("%s %s  %s", kind, e.item.Name, priceStyle.Render(cart.FormatMoney(e.item.Price)))
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

func catalogItems(items []model.CatalogItem) []list.Item {
	out := make([]list.Item, 0, len(items))
	for _, it := range items {
		out = append(out, catalogEntry{item: it})
	}
	return out
}

func cartItems(items []model.CartItem) []list.Item {
	out := make([]list.Item, 0, len(items))
	for _, it := range items {
		out = append(out, cartEntry{item: it})
	}
	return out
}
