package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// column describes one table column. Max > 0 truncates wider cells.
type column struct {
	Title string
	Right bool
	Max   int
}

// layoutTable renders rows under cols with one space between columns.
// Rows shorter than cols are padded with empty cells; extra cells are dropped.
func layoutTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	cells := make([][]string, 0, len(rows)+1)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Title
	}
	cells = append(cells, header)
	for _, row := range rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			if i >= len(row) {
				continue
			}
			line[i] = row[i]
			if c.Max > 0 {
				line[i] = runewidth.Truncate(line[i], c.Max, "...")
			}
		}
		cells = append(cells, line)
	}

	widths := make([]int, len(cols))
	for _, line := range cells {
		for i, cell := range line {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	out := make([]string, 0, len(cells))
	for _, line := range cells {
		var b strings.Builder
		for i, cell := range line {
			if i > 0 {
				b.WriteByte(' ')
			}
			if cols[i].Right {
				b.WriteString(runewidth.FillLeft(cell, widths[i]))
			} else {
				b.WriteString(runewidth.FillRight(cell, widths[i]))
			}
		}
		out = append(out, strings.TrimRight(b.String(), " "))
	}
	return out
}
