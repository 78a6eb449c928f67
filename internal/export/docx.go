// Package export renders checkout results as files: the remedies document
// handed over on the summary step and a spreadsheet of the cart.
package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/ctypes"

	"github.com/Makepad-fr/remedia/internal/model"
)

// DocxFileName is the default name for the remedies document.
const DocxFileName = "remedies.docx"

// Title heads both the document and the on-screen summary.
const Title = "Your Remedies"

const placeholder = "-"

// nameColor is the heading color of each remedy.
const nameColor = "2E74B5"

// Field is one labelled line of a remedy.
type Field struct {
	Label string
	Value string
}

// Fields lists a remedy's lines in document order. Blank optional values
// become "-".
func Fields(r model.CatalogItem) []Field {
	return []Field{
		{"Ingredients", r.Ingredients},
		{"Procedure", r.Procedure},
		{"Application", r.Application},
		{"Duration", r.Duration},
		{"Precautions", orPlaceholder(r.Precautions)},
		{"Modification if any", orPlaceholder(r.ModificationIfAny)},
		{"Prescribed age group", orPlaceholder(r.PrescribedAgeGroup)},
	}
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

// Docx builds the remedies document. It has no side effects.
func Docx(remedies []model.CartItem) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDocx(&buf, remedies); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDocx streams the remedies document to w.
func WriteDocx(w io.Writer, remedies []model.CartItem) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("docx: new document: %w", err)
	}
	defer doc.Close()

	title := doc.AddEmptyParagraph()
	title.AddText(Title).Bold(true).Size(18)
	spaceAfter(title, 400)
	for _, r := range remedies {
		name := doc.AddEmptyParagraph()
		name.AddText(r.Name).Bold(true).Size(16).Color(nameColor)
		spaceAfter(name, 200)
		for _, f := range Fields(r.CatalogItem) {
			doc.AddParagraph(f.Label + ": " + f.Value)
		}
		doc.AddEmptyParagraph()
	}

	if err := doc.Write(w); err != nil {
		return fmt.Errorf("docx: %w", err)
	}
	return nil
}

// spaceAfter sets the gap below p, in twentieths of a point.
func spaceAfter(p *docx.Paragraph, after uint64) {
	ct := p.GetCT()
	if ct.Property == nil {
		ct.Property = ctypes.DefaultParaProperty()
	}
	ct.Property.Spacing = &ctypes.Spacing{After: &after}
}
