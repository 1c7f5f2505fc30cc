package ctl

import (
	"fmt"
	"strings"
)

// table accumulates rows and prints them with aligned columns. Column widths
// are computed at flush time from the widest cell.
type table struct {
	indent     string
	headers    []string
	rows       [][]string
	rightAlign map[int]bool
}

// newTable creates a table with the given indent prefix and column headers.
func newTable(indent string, headers ...string) *table {
	return &table{
		indent:     indent,
		headers:    headers,
		rightAlign: make(map[int]bool),
	}
}

// alignRight right-aligns the given column index.
func (t *table) alignRight(col int) {
	t.rightAlign[col] = true
}

// row appends one row of cells. Missing cells render empty.
func (t *table) row(cells ...string) {
	t.rows = append(t.rows, cells)
}

// flush prints the headers, a separator, and every accumulated row.
func (t *table) flush() {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, r := range t.rows {
		for i, c := range r {
			if i < len(widths) && len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}

	var hdr strings.Builder
	for i, h := range t.headers {
		hdr.WriteString(t.cell(h, widths[i], i))
		hdr.WriteString("  ")
	}
	fmt.Println(t.indent + colorize(bold, strings.TrimRight(hdr.String(), " ")))

	total := 0
	for _, w := range widths {
		total += w + 2
	}
	fmt.Println(t.indent + colorize(dim, strings.Repeat("─", total-2)))

	for _, r := range t.rows {
		var line strings.Builder
		for i := range t.headers {
			c := ""
			if i < len(r) {
				c = r[i]
			}
			line.WriteString(t.cell(c, widths[i], i))
			line.WriteString("  ")
		}
		fmt.Println(t.indent + strings.TrimRight(line.String(), " "))
	}
}

func (t *table) cell(s string, width, col int) string {
	if t.rightAlign[col] {
		if len(s) >= width {
			return s
		}
		return strings.Repeat(" ", width-len(s)) + s
	}
	return padRight(s, width)
}
