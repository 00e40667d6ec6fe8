// Package table lays out rows of text in aligned columns.
package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Alignment says which side of a cell the padding goes on.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Gap separates neighbouring columns.
const Gap = "  "

// Format pads every cell to the widest cell of its column. Widths are
// measured in terminal cells so accented and wide names still line up.
// Columns without an alignment are left aligned.
func Format(rows [][]string, alignments []Alignment) []string {
	if len(rows) == 0 {
		return nil
	}
	widths := columnWidths(rows)
	out := make([]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for c, cell := range row {
			align := AlignLeft
			if c < len(alignments) {
				align = alignments[c]
			}
			cells[c] = pad(cell, widths[c], align)
		}
		out[i] = strings.Join(cells, Gap)
	}
	return out
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for c, cell := range row {
			if c == len(widths) {
				widths = append(widths, 0)
			}
			widths[c] = max(widths[c], lipgloss.Width(cell))
		}
	}
	return widths
}

func pad(cell string, width int, align Alignment) string {
	fill := strings.Repeat(" ", max(width-lipgloss.Width(cell), 0))
	if align == AlignRight {
		return fill + cell
	}
	return cell + fill
}
