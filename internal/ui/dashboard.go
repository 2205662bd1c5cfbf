package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/biblioteka14/stacks/internal/api"
)

// renderDashboard shows summary tiles, the activity series and recent loans.
func (m Model) renderDashboard() string {
	styles := m.theme.Styles()

	if !m.snapshot.HasSummary {
		msg := styles.MutedText.Render("Waiting for library statistics...")
		return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, msg)
	}

	var b strings.Builder

	b.WriteString(m.renderSummaryTiles())
	b.WriteString("\n\n")

	b.WriteString(styles.AccentText.Bold(true).Render("Circulation, last 14 days"))
	b.WriteString("\n")
	b.WriteString(m.renderActivity())
	b.WriteString("\n")

	b.WriteString(styles.AccentText.Bold(true).Render("Recent loans"))
	b.WriteString("\n")
	b.WriteString(m.renderRecentLoans())

	return b.String()
}

// renderSummaryTiles draws the headline counters side by side.
func (m Model) renderSummaryTiles() string {
	summary := m.snapshot.Summary
	styles := m.theme.Styles()

	tile := func(label string, value int, style lipgloss.Style) string {
		inner := style.Bold(true).Render(fmt.Sprintf("%d", value)) + "\n" +
			styles.MutedText.Render(label)
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(m.theme.Border)).
			Padding(0, 2).
			Render(inner)
	}

	tiles := []string{
		tile("Books", summary.TotalBooks, styles.Text),
		tile("Available", summary.BooksAvailable, styles.SuccessText),
		tile("Patrons", summary.TotalUsers, styles.Text),
		tile("On loan", summary.ActiveLoans, styles.InfoText),
		tile("Overdue", summary.OverdueLoans, styles.DangerText),
		tile("New this month", summary.NewBooksThisMonth, styles.AccentText),
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

// renderActivity draws one bar row per day, issued next to returned.
func (m Model) renderActivity() string {
	styles := m.theme.Styles()
	points := m.snapshot.Activity
	if len(points) == 0 {
		return styles.MutedText.Render("No circulation activity recorded.") + "\n"
	}

	peak := activityPeak(points)

	var b strings.Builder
	for _, p := range points {
		b.WriteString(styles.MutedText.Render(padRight(p.Date, 11)))
		b.WriteString(styles.InfoText.Render(activityBar(p.Issued, peak, 20)))
		b.WriteString(styles.Text.Render(fmt.Sprintf(" %3d out  ", p.Issued)))
		b.WriteString(styles.SuccessText.Render(activityBar(p.Returned, peak, 20)))
		b.WriteString(styles.Text.Render(fmt.Sprintf(" %3d in", p.Returned)))
		b.WriteString("\n")
	}
	return b.String()
}

// activityPeak returns the highest single-day count across the series.
func activityPeak(points []api.ActivityPoint) int {
	peak := 1
	for _, p := range points {
		if p.Issued > peak {
			peak = p.Issued
		}
		if p.Returned > peak {
			peak = p.Returned
		}
	}
	return peak
}

// activityBar scales a count against the peak into a fixed-width bar.
func activityBar(count, peak, width int) string {
	if peak <= 0 || width <= 0 {
		return ""
	}
	filled := count * width / peak
	if count > 0 && filled == 0 {
		filled = 1
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat(" ", width-filled)
}

// renderRecentLoans lists the newest loans from the poller snapshot.
func (m Model) renderRecentLoans() string {
	styles := m.theme.Styles()
	loans := m.snapshot.Loans
	if len(loans) == 0 {
		return styles.MutedText.Render("No loans on record.")
	}

	limit := 8
	if len(loans) < limit {
		limit = len(loans)
	}

	var b strings.Builder
	for _, loan := range loans[:limit] {
		status := strings.ToLower(loan.Status)
		b.WriteString(styles.StatusText(status).Render(padRight(titleCase(status), 10)))
		b.WriteString(styles.Text.Render(padRight(truncate(loan.BookTitle, 38), 40)))
		b.WriteString(styles.MutedText.Render(truncate(loan.UserName, 30)))
		b.WriteString("\n")
	}
	return b.String()
}
