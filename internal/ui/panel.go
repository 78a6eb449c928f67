package ui

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

func visible(s string) int { return utf8.RuneCountInString(stripANSI(s)) }

// StepBar renders checkout progress, e.g. "cart ▸ [payment] ▸ address".
// current is an index into steps; out of range highlights nothing.
func StepBar(steps []string, current int) string {
	t := Current()
	parts := make([]string, len(steps))
	for i, s := range steps {
		switch {
		case i < current:
			parts[i] = C(t.Success, t.SymDone+" "+s)
		case i == current:
			parts[i] = C(t.Accent, "["+s+"]")
		default:
			parts[i] = C(t.Muted, s)
		}
	}
	return strings.Join(parts, C(t.Muted, " "+t.Sep+" "))
}

// Columns pads each cell to width, truncating long cells with "...".
func Columns(cells []string, widths []int) string {
	var b strings.Builder
	for i, c := range cells {
		w := 0
		if i < len(widths) {
			w = widths[i]
		}
		if w > 3 && visible(c) > w {
			r := []rune(stripANSI(c))
			c = string(r[:w-3]) + "..."
		}
		b.WriteString(c)
		if pad := w - visible(c); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		if i < len(cells)-1 {
			b.WriteString("  ")
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Panel draws a framed box using the current theme.
func Panel(lines []string) {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		if w := visible(ln); w > maxw {
			maxw = w
		}
	}
	pad := func(s string) string {
		if vis := visible(s); vis < maxw {
			s += strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	fmt.Fprintln(Out, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		fmt.Fprintln(Out, t.V+" "+pad(ln)+" "+t.V)
	}
	fmt.Fprintln(Out, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}
