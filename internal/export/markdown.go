package export

import (
	"strings"

	"github.com/Makepad-fr/remedia/internal/model"
)

// Markdown lays the remedies out the way the document does, for rendering
// on screen.
func Markdown(remedies []model.CartItem) string {
	var b strings.Builder
	b.WriteString("# " + Title + "\n\n")
	if len(remedies) == 0 {
		b.WriteString("_No remedies found._\n")
		return b.String()
	}
	for _, r := range remedies {
		b.WriteString("## " + r.Name + "\n\n")
		for _, f := range Fields(r.CatalogItem) {
			b.WriteString("- **" + f.Label + ":** " + f.Value + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
