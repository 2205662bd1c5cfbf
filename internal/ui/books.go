package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// renderBooks renders the catalog table with the search bar on top.
func (m Model) renderBooks() string {
	styles := m.theme.Styles()

	var b strings.Builder

	if m.searching {
		b.WriteString(styles.AccentText.Render("Search: "))
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}

	if len(m.books) == 0 {
		label := "No books in the catalog."
		if m.activeSearch != "" {
			label = fmt.Sprintf("No books match %q.", m.activeSearch)
		}
		msg := styles.MutedText.Render(label)
		return b.String() + lipgloss.Place(m.width, m.contentHeight()-1, lipgloss.Center, lipgloss.Center, msg)
	}

	cols := []column{
		{"Title", 40},
		{"Author", 26},
		{"ISBN", 15},
		{"Genre", 14},
		{"Copies", 8},
		{"Free", 6},
	}

	rows := make([][]cell, 0, len(m.books))
	for _, book := range m.books {
		freeStyle := &styles.SuccessText
		if book.AvailableCount == 0 {
			freeStyle = &styles.DangerText
		}
		rows = append(rows, []cell{
			{text: book.Title},
			{text: book.Author, style: &styles.MutedText},
			{text: book.ISBN, style: &styles.FaintText},
			{text: book.Genre, style: &styles.MutedText},
			{text: fmt.Sprintf("%d", book.TotalCopies)},
			{text: fmt.Sprintf("%d", book.AvailableCount), style: freeStyle},
		})
	}

	b.WriteString(m.renderListTable(cols, rows, m.selected[ViewBooks], m.listRows()))
	return b.String()
}

// handleBooksKey processes keyboard input for the catalog view.
func (m Model) handleBooksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Search) {
		m.searching = true
		m.searchInput.SetValue(m.activeSearch)
		m.searchInput.Focus()
		return m, textinput.Blink
	}
	return m.handleListNav(msg, ViewBooks, len(m.books))
}

// handleSearchKey routes keys while the search input is focused.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		m.activeSearch = strings.TrimSpace(m.searchInput.Value())
		m.selected[ViewBooks] = 0
		return m, fetchBooksCmd(m.ctx, m.client, m.activeSearch)
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}
