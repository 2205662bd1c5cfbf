package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderPatrons renders the registered-reader table.
func (m Model) renderPatrons() string {
	styles := m.theme.Styles()

	if len(m.patrons) == 0 {
		msg := styles.MutedText.Render("No registered patrons.")
		return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, msg)
	}

	cols := []column{
		{"Name", 30},
		{"Email", 30},
		{"Barcode", 16},
		{"Device", 10},
		{"Registered", 12},
	}

	rows := make([][]cell, 0, len(m.patrons))
	for _, patron := range m.patrons {
		rows = append(rows, []cell{
			{text: patron.FullName},
			{text: patron.Email, style: &styles.MutedText},
			{text: patron.Barcode, style: &styles.InfoText},
			{text: patron.DeviceType, style: &styles.FaintText},
			{text: formatDate(patron.ParsedCreatedAt()), style: &styles.MutedText},
		})
	}

	return m.renderListTable(cols, rows, m.selected[ViewPatrons], m.listRows())
}
