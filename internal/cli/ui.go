package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/roomkit/pkg/catalog"
	"github.com/matzehuels/roomkit/pkg/geom"
	pkgio "github.com/matzehuels/roomkit/pkg/io"
	"github.com/matzehuels/roomkit/pkg/placement"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Room Tables
// =============================================================================

// headerRow is the row index lipgloss tables pass for the header.
const headerRow = -1

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...)
}

// formatNumber prints the shortest decimal form of v.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatVec renders a Vec3 as "x, y, z" rounded to three decimals.
func formatVec(v geom.Vec3) string {
	parts := make([]string, 3)
	for i, c := range v {
		r := math.Round(c*1000) / 1000
		if r == 0 {
			r = 0 // drop negative zero
		}
		parts[i] = formatNumber(r)
	}
	return strings.Join(parts, ", ")
}

// renderPlacedTable lists placed instances; the row for selected is
// highlighted.
func renderPlacedTable(placed []placement.PlacedItem, reg *catalog.Registry, selected string) string {
	rows := make([][]string, len(placed))
	for i, p := range placed {
		name := p.CatalogID
		if item, ok := reg.Lookup(p.CatalogID); ok {
			name = item.Name
		}
		rows[i] = []string{p.InstanceID, name, formatVec(p.Position), formatVec(p.Rotation)}
	}
	return newTable("Instance", "Item", "Position", "Rotation").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return tableHeaderStyle
			}
			if row < len(placed) && placed[row].InstanceID == selected && selected != "" {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

// renderCatalogTable lists catalog items.
func renderCatalogTable(items []catalog.Item) string {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{it.ID, it.Name, formatNumber(it.Price), it.ModelRef}
	}
	return newTable("ID", "Name", "Price", "Model").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return tableHeaderStyle
			}
			if col == 2 {
				return StyleNumber
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

// renderBOMTable renders the bill of materials with a grand total row.
func renderBOMTable(lines []pkgio.BOMLine) string {
	rows := make([][]string, 0, len(lines)+1)
	var total float64
	var qty int
	for _, l := range lines {
		rows = append(rows, []string{l.Name, strconv.Itoa(l.Qty), formatNumber(l.UnitPrice), formatNumber(l.Total())})
		total += l.Total()
		qty += l.Qty
	}
	rows = append(rows, []string{"Total", strconv.Itoa(qty), "", formatNumber(total)})
	return newTable(pkgio.BOMHeader...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return tableHeaderStyle
			}
			if row == len(rows)-1 {
				return lipgloss.NewStyle().Bold(true)
			}
			if col > 0 {
				return StyleNumber
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
