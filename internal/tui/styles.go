package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/remedia/internal/checkout"
)

// ------- minimal styling helpers (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	priceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("228")).Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	outStyle      = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

func panelString(inner string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(inner)
}

var checkoutSteps = []struct {
	state checkout.State
	label string
}{
	{checkout.CartReview, "Cart"},
	{checkout.PaymentConfirm, "Payment"},
	{checkout.AddressCollect, "Address"},
	{checkout.RemedySummary, "Remedies"},
}

// stepBar shows where the checkout stands.
func stepBar(current checkout.State) string {
	at := -1
	for i, s := range checkoutSteps {
		if s.state == current {
			at = i
		}
	}
	parts := make([]string, len(checkoutSteps))
	for i, s := range checkoutSteps {
		switch {
		case at >= 0 && i < at:
			parts[i] = successStyle.Render("✔ " + s.label)
		case i == at:
			parts[i] = accentStyle.Render("[" + s.label + "]")
		default:
			parts[i] = mutedStyle.Render(s.label)
		}
	}
	return strings.Join(parts, mutedStyle.Render(" ▸ "))
}
