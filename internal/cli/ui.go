package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gemdiff/perturbviz/pkg/annotate"
	"github.com/gemdiff/perturbviz/pkg/rank"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// Category colours follow the figure palette closely enough to be
// recognizable in a terminal.
var categoryColors = map[annotate.Category]lipgloss.Color{
	annotate.Perturbed: lipgloss.Color("167"),
	annotate.Up:        lipgloss.Color("71"),
	annotate.Down:      lipgloss.Color("68"),
	annotate.Other:     colorDim,
}

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
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
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

// printError prints an error message.
func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

// =============================================================================
// Network Summary
// =============================================================================

// printStats prints network size and category counts on a single line.
func printStats(nodes, edges int, counts map[annotate.Category]int) {
	line := "  " + StyleDim.Render(fmt.Sprintf("%d genes", nodes)) +
		StyleDim.Render(" · ") + StyleDim.Render(fmt.Sprintf("%d interactions", edges))
	for _, cat := range annotate.AllCategories {
		if counts[cat] == 0 {
			continue
		}
		style := lipgloss.NewStyle().Foreground(categoryColors[cat])
		line += StyleDim.Render(" · ") + style.Render(fmt.Sprintf("%d %s", counts[cat], cat))
	}
	fmt.Println(line)
}

// maxTableRows caps the ranked genes shown in the terminal; the CSV has all.
const maxTableRows = 15

// renderRankTable formats the leading rows of the ranked gene table.
func renderRankTable(rows []rank.Row) string {
	shown := rows
	if len(shown) > maxTableRows {
		shown = shown[:maxTableRows]
	}

	cells := make([][]string, len(shown))
	for i, r := range shown {
		fc := "-"
		if r.HasLog2FC {
			fc = strconv.FormatFloat(r.Log2FC, 'f', 2, 64)
		}
		cells[i] = []string{
			r.Gene,
			string(r.Category),
			strconv.Itoa(r.Degree),
			strconv.FormatFloat(r.Betweenness, 'f', 3, 64),
			fc,
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Gene", "Category", "Degree", "Betweenness", "log2FC").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if row < 0 || row >= len(shown) {
				return cellStyle
			}
			if col == 1 {
				return cellStyle.Foreground(categoryColors[shown[row].Category])
			}
			if col == 0 {
				return cellStyle.Foreground(colorWhite)
			}
			return cellStyle.Foreground(colorGray)
		})

	out := t.Render()
	if len(rows) > len(shown) {
		out += "\n" + StyleDim.Render(fmt.Sprintf("  … %d more in the CSV table", len(rows)-len(shown)))
	}
	return out
}
