package reports

import "strings"

// Grid renders headers and rows as a bordered text table:
//
//	+----------+--------+
//	| Category | Amount |
//	+==========+========+
//	| Food     | $10.00 |
//	+----------+--------+
//
// Cells are left-aligned and padded to the widest value in their column.
func Grid(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRule(&b, widths, '-')
	writeRow(&b, widths, headers)
	writeRule(&b, widths, '=')
	for _, row := range rows {
		writeRow(&b, widths, row)
		writeRule(&b, widths, '-')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeRule(b *strings.Builder, widths []int, fill rune) {
	for _, w := range widths {
		b.WriteByte('+')
		b.WriteString(strings.Repeat(string(fill), w+2))
	}
	b.WriteString("+\n")
}

func writeRow(b *strings.Builder, widths []int, cells []string) {
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		b.WriteString("| ")
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", w-len(cell)+1))
	}
	b.WriteString("|\n")
}
