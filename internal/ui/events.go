package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/biblioteka14/stacks/internal/api"
)

// renderEvents renders the events table.
func (m Model) renderEvents() string {
	styles := m.theme.Styles()

	if len(m.events) == 0 {
		text := "No events scheduled."
		if m.eventsUpcoming {
			text = "No upcoming events. Press u to show all."
		}
		msg := styles.MutedText.Render(text)
		return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, msg)
	}

	cols := []column{
		{"Date", 17},
		{"Title", 38},
		{"Location", 20},
		{"Seats", 10},
		{"Status", 10},
	}

	rows := make([][]cell, 0, len(m.events))
	for _, event := range m.events {
		status := strings.ToLower(event.Status)
		statusStyle := styles.StatusText(status)
		if event.ID == m.pendingCancel {
			status = "cancel?"
			statusStyle = styles.StatusText("overdue")
		}
		rows = append(rows, []cell{
			{text: formatDateTime(event.ParsedDate()), style: &styles.MutedText},
			{text: event.Title},
			{text: event.Location, style: &styles.MutedText},
			{text: fmt.Sprintf("%d/%d", event.Registered, event.Capacity)},
			{text: titleCase(status), style: &statusStyle},
		})
	}

	if m.eventDetail == nil {
		return m.renderListTable(cols, rows, m.selected[ViewEvents], m.listRows())
	}

	detailHeight := 8
	tableRows := m.listRows() - detailHeight
	if tableRows < 3 {
		tableRows = 3
	}
	table := m.renderListTable(cols, rows, m.selected[ViewEvents], tableRows)
	detail := m.renderTitledBox("Event", m.renderEventDetail(m.width-4), m.width, detailHeight, true)
	return lipgloss.JoinVertical(lipgloss.Left, table, detail)
}

// renderEventDetail shows the full record for the opened event, including
// the description the list view has no room for.
func (m Model) renderEventDetail(width int) string {
	styles := m.theme.Styles()
	event := m.eventDetail

	status := strings.ToLower(event.Status)
	statusStyle := styles.StatusText(status)
	head := fmt.Sprintf("%s  %s  %s  %d/%d seats",
		event.Title,
		formatDateTime(event.ParsedDate()),
		event.Location,
		event.Registered,
		event.Capacity,
	)
	lines := []string{
		truncate(head, width) + "  " + statusStyle.Render(titleCase(status)),
	}
	desc := strings.TrimSpace(event.Description)
	if desc == "" {
		desc = "No description."
	}
	for _, line := range strings.Split(desc, "\n") {
		lines = append(lines, styles.MutedText.Render(truncate(line, width)))
	}
	return strings.Join(lines, "\n")
}

// handleEventsKey processes keyboard input for the events view. A cancel
// takes two presses of the same key on the same row; anything else in
// between withdraws it.
func (m Model) handleEventsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		event := m.selectedEvent()
		if event == nil || strings.EqualFold(event.Status, "cancelled") {
			m.pendingCancel = ""
			return m, nil
		}
		if m.pendingCancel == event.ID {
			m.pendingCancel = ""
			return m, cancelEventCmd(m.ctx, m.client, event.ID)
		}
		m.pendingCancel = event.ID
		return m, nil

	case key.Matches(msg, m.keys.ToggleUpcoming):
		m.eventsUpcoming = !m.eventsUpcoming
		m.pendingCancel = ""
		m.eventDetail = nil
		return m, fetchEventsCmd(m.ctx, m.client, m.eventsUpcoming)

	case key.Matches(msg, m.keys.Confirm):
		m.pendingCancel = ""
		if event := m.selectedEvent(); event != nil {
			return m, fetchEventDetailCmd(m.ctx, m.client, event.ID)
		}
		return m, nil
	}

	m.pendingCancel = ""
	m.eventDetail = nil
	return m.handleListNav(msg, ViewEvents, len(m.events))
}

func (m Model) selectedEvent() *api.Event {
	idx := m.selected[ViewEvents]
	if idx < 0 || idx >= len(m.events) {
		return nil
	}
	return &m.events[idx]
}
