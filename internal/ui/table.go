package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// column defines one table column: header label and fixed rune width.
type column struct {
	label string
	width int
}

// cell is one rendered table cell: plain text plus an optional style. Text
// is padded before styling so ANSI codes never skew the layout.
type cell struct {
	text  string
	style *lipgloss.Style
}

// renderListTable renders a fixed-width table with a header row and one
// selected row. Rows beyond maxRows are windowed around the selection.
func (m Model) renderListTable(cols []column, rows [][]cell, selected, maxRows int) string {
	styles := m.theme.Styles()

	var b strings.Builder

	headerParts := make([]string, len(cols))
	for i, col := range cols {
		headerParts[i] = padRight(truncate(col.label, col.width), col.width)
	}
	b.WriteString(styles.AccentText.Bold(true).Render(strings.Join(headerParts, "  ")))
	b.WriteString("\n")

	start := 0
	if maxRows > 0 && len(rows) > maxRows {
		// Keep the selection visible.
		start = selected - maxRows/2
		if start < 0 {
			start = 0
		}
		if start+maxRows > len(rows) {
			start = len(rows) - maxRows
		}
	}
	end := len(rows)
	if maxRows > 0 && start+maxRows < end {
		end = start + maxRows
	}

	for idx := start; idx < end; idx++ {
		row := rows[idx]
		parts := make([]string, len(cols))
		for i := range cols {
			text := ""
			if i < len(row) {
				text = row[i].text
			}
			parts[i] = padRight(truncate(text, cols[i].width), cols[i].width)
		}

		if idx == selected {
			b.WriteString(styles.Selected.Render(strings.Join(parts, "  ")))
			b.WriteString("\n")
			continue
		}

		rendered := make([]string, len(parts))
		for i, part := range parts {
			style := styles.Text
			if i < len(row) && row[i].style != nil {
				style = *row[i].style
			}
			rendered[i] = style.Render(part)
		}
		b.WriteString(strings.Join(rendered, "  "))
		b.WriteString("\n")
	}

	return b.String()
}

// contentHeight is the number of rows available below the two header lines.
func (m Model) contentHeight() int {
	h := m.height - 2
	if h < 1 {
		return 1
	}
	return h
}

// listRows is how many table rows fit in the content area after the column
// header.
func (m Model) listRows() int {
	rows := m.contentHeight() - 3
	if rows < 1 {
		return 1
	}
	return rows
}
