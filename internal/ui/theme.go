package ui

import "strings"

// Theme bundles palette, symbols and box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Price string
	BoxUnchecked, BoxChecked                    string
	CornerTL, CornerTR, CornerBL, CornerBR      string
	H, V                                        string
	SymDone, SymProduct, SymRemedy, Sep         string
}

var current = classic()

func classic() Theme {
	return Theme{
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Price: fgYellow,
		BoxUnchecked: "☐", BoxChecked: "☑",
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
		SymDone: "✔", SymProduct: "▣", SymRemedy: "❦", Sep: "▸",
	}
}

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Price: "\033[93m",
			BoxUnchecked: "◻", BoxChecked: "◼",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymDone: "✔", SymProduct: "◆", SymRemedy: "✿", Sep: "›",
		}
	case "mono":
		disableColor = true
		current = Theme{
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymDone: "x", SymProduct: "P", SymRemedy: "R", Sep: ">",
		}
	default:
		current = classic()
	}
}

func Current() Theme { return current }

// KindSymbol marks a catalog line as product or remedy.
func KindSymbol(kind string) string {
	if kind == "remedy" {
		return C(current.Accent, current.SymRemedy)
	}
	return C(current.Muted, current.SymProduct)
}
