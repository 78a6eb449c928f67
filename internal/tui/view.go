package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/Makepad-fr/remedia/internal/cart"
	"github.com/Makepad-fr/remedia/internal/checkout"
	"github.com/Makepad-fr/remedia/internal/export"
	"github.com/Makepad-fr/remedia/internal/language"
	"github.com/Makepad-fr/remedia/internal/model"
)

func (m Model) View() string {
	var body string
	switch m.screen {
	case screenCatalog:
		body = m.viewCatalog()
	case screenDetail:
		body = m.viewDetail()
	case screenCart:
		body = m.viewCart()
	case screenPayment:
		body = m.viewPayment()
	case screenAddress:
		body = m.viewAddress()
	case screenSummary:
		body = m.viewSummary()
	}
	parts := []string{m.header(), "", body}
	if m.status != "" {
		st := successStyle.Render(m.status)
		if m.statusErr {
			st = errorStyle.Render(m.status)
		}
		parts = append(parts, "", st)
	}
	return panelString(strings.Join(parts, "\n"))
}

func (m Model) header() string {
	badge := fmt.Sprintf("Cart (%d)", m.badge.Count())
	if m.badge.Count() > 0 {
		badge = accentStyle.Render(badge)
	} else {
		badge = mutedStyle.Render(badge)
	}
	return fmt.Sprintf("%s   %s   %s",
		titleStyle.Render("remedia"),
		badge,
		mutedStyle.Render("lang "+language.Get(m.d.KV)),
	)
}

func (m Model) viewCatalog() string {
	var b strings.Builder
	if m.loading {
		b.WriteString(m.spin.View() + " Loading...\n")
	}
	if m.searching {
		b.WriteString(m.search.View() + "\n")
	}
	if n := m.sel.Len(); n > 0 {
		all := ""
		if m.sel.AllSelected(m.page.Items) {
			all = " (whole page)"
		}
		b.WriteString(accentStyle.Render(fmt.Sprintf("%d selected%s", n, all)) + "\n")
	}
	b.WriteString(m.list.View())
	return b.String()
}

func (m Model) viewDetail() string {
	it := m.detail
	if it == nil {
		return mutedStyle.Render("nothing to show")
	}
	lines := []string{
		titleStyle.Render(it.Name),
		priceStyle.Render(cart.FormatMoney(it.Price)) + mutedStyle.Render(detailMeta(*it)),
	}
	if it.Available() {
		lines = append(lines, successStyle.Render("In stock"))
	} else {
		lines = append(lines, errorStyle.Render("Out of stock"))
	}
	if it.Description != "" {
		lines = append(lines, "", it.Description)
	}
	lines = append(lines, "")
	if m.kind == model.KindRemedy {
		for _, f := range export.Fields(*it) {
			lines = append(lines, accentStyle.Render(f.Label+":")+" "+f.Value)
		}
	} else {
		lines = appendList(lines, "Symptoms", it.Symptoms)
		if it.Dosage != "" {
			lines = append(lines, accentStyle.Render("Dosage:")+" "+it.Dosage)
		}
		lines = appendList(lines, "Side effects", it.SideEffects)
		lines = appendList(lines, "Contraindications", it.Contraindications)
	}

	bindings := []key.Binding{keys.AddOne, keys.BuyNow}
	if m.browse.HasPrev() {
		bindings = append(bindings, keys.Prev)
	}
	if m.browse.HasNext() {
		bindings = append(bindings, keys.Next)
	}
	bindings = append(bindings, keys.Back)
	lines = append(lines, "", m.help.ShortHelpView(bindings))
	return strings.Join(lines, "\n")
}

func detailMeta(it model.CatalogItem) string {
	var meta []string
	if it.Category != "" {
		meta = append(meta, it.Category)
	}
	if it.Rating > 0 {
		meta = append(meta, fmt.Sprintf("★ %.1f (%d reviews)", it.Rating, it.ReviewCount))
	}
	if len(meta) == 0 {
		return ""
	}
	return "  · " + strings.Join(meta, " · ")
}

func appendList(lines []string, label string, vals []string) []string {
	if len(vals) == 0 {
		return lines
	}
	return append(lines, accentStyle.Render(label+":")+" "+strings.Join(vals, ", "))
}

func (m Model) viewCart() string {
	items := m.d.Cart.Load()
	if len(items) == 0 {
		return mutedStyle.Render("Your cart is empty") + "\n\n" +
			m.help.ShortHelpView([]key.Binding{keys.Back})
	}
	return stepBar(checkout.CartReview) + "\n\n" +
		m.cartList.View() + "\n" +
		titleStyle.Render("Total: ") + priceStyle.Render(cart.FormatMoney(cart.Total(items)))
}

func (m Model) viewPayment() string {
	var items []model.CartItem
	bindings := []key.Binding{keys.Pay}
	if s := m.flow.Single(); s != nil {
		items = []model.CartItem{*s}
		if m.browse.HasPrev() {
			bindings = append(bindings, keys.Prev)
		}
		if m.browse.HasNext() {
			bindings = append(bindings, keys.Next)
		}
	} else {
		items = m.d.Cart.Load()
	}
	bindings = append(bindings, keys.Back)

	lines := []string{stepBar(checkout.PaymentConfirm), ""}
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("  %-7s %s  %s", it.Type, it.Name, priceStyle.Render(cart.FormatMoney(it.Price))))
	}
	lines = append(lines,
		"",
		titleStyle.Render("Amount due: ")+priceStyle.Render(cart.FormatMoney(cart.Total(items))),
		mutedStyle.Render("Complete the payment, then confirm."),
		"",
		m.help.ShortHelpView(bindings),
	)
	return strings.Join(lines, "\n")
}

func (m Model) viewAddress() string {
	lines := []string{stepBar(checkout.AddressCollect), "", titleStyle.Render("Shipping address"), ""}
	for _, ti := range m.form {
		lines = append(lines, ti.View())
	}
	lines = append(lines, "", m.help.ShortHelpView([]key.Binding{keys.FocusNext, keys.Submit, keys.Back}))
	return strings.Join(lines, "\n")
}

func (m Model) viewSummary() string {
	return stepBar(checkout.RemedySummary) + "\n\n" +
		warnStyle.Render(summaryWarning) + "\n" +
		m.summary + "\n" +
		m.help.ShortHelpView([]key.Binding{keys.Download, keys.Back})
}
