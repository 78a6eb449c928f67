package export

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"

	"github.com/Makepad-fr/remedia/internal/cart"
	"github.com/Makepad-fr/remedia/internal/model"
)

// SheetFileName is the default name for the cart spreadsheet.
const SheetFileName = "cart.xlsx"

// CartSheet writes the cart as a workbook: a header, one row per item and a
// total row.
func CartSheet(w io.Writer, items []model.CartItem) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Cart")
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range []string{"ID", "Name", "Type", "Price"} {
		header.AddCell().SetValue(h)
	}
	for _, it := range items {
		row := sheet.AddRow()
		row.AddCell().SetValue(it.ID)
		row.AddCell().SetValue(it.Name)
		row.AddCell().SetValue(string(it.Type))
		row.AddCell().SetFloat(it.Price)
	}
	total := sheet.AddRow()
	total.AddCell().SetValue("Total")
	total.AddCell()
	total.AddCell()
	total.AddCell().SetFloat(cart.Total(items))

	if err := file.Write(w); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	return nil
}
