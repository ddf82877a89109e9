package io

import (
	"strconv"
	"strings"

	"github.com/matzehuels/roomkit/pkg/catalog"
	"github.com/matzehuels/roomkit/pkg/placement"
)

// BOMHeader is the header row of the bill of materials.
var BOMHeader = []string{"Item", "Qty", "Unit Price", "Total"}

// BOMLine is one bill-of-materials row: every placed instance of a
// catalog id, priced from the catalog.
type BOMLine struct {
	CatalogID string
	Name      string
	Qty       int
	UnitPrice float64
}

// Total is Qty times UnitPrice.
func (l BOMLine) Total() float64 { return float64(l.Qty) * l.UnitPrice }

// BillOfMaterials groups placed instances by catalog id in order of first
// appearance. Ids missing from reg are listed under their id with a zero
// price.
func BillOfMaterials(placed []placement.PlacedItem, reg *catalog.Registry) []BOMLine {
	if reg == nil {
		reg = catalog.Default()
	}
	lines := []BOMLine{}
	index := make(map[string]int)
	for _, p := range placed {
		if i, ok := index[p.CatalogID]; ok {
			lines[i].Qty++
			continue
		}
		line := BOMLine{CatalogID: p.CatalogID, Name: p.CatalogID, Qty: 1}
		if item, ok := reg.Lookup(p.CatalogID); ok {
			line.Name = item.Name
			line.UnitPrice = item.Price
		}
		index[p.CatalogID] = len(lines)
		lines = append(lines, line)
	}
	return lines
}

// BillOfMaterialsCSV renders the bill of materials as CSV. Every field is
// double-quoted, rows are joined with "\n" and there is no trailing newline.
func BillOfMaterialsCSV(placed []placement.PlacedItem, reg *catalog.Registry) string {
	lines := BillOfMaterials(placed, reg)
	rows := make([]string, 0, len(lines)+1)
	rows = append(rows, csvRow(BOMHeader...))
	for _, l := range lines {
		rows = append(rows, csvRow(
			l.Name,
			strconv.Itoa(l.Qty),
			formatNumber(l.UnitPrice),
			formatNumber(l.Total()),
		))
	}
	return strings.Join(rows, "\n")
}

func csvRow(fields ...string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// formatNumber prints the shortest decimal form: 299, 12.5, 0.1.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
