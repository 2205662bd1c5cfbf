package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar with connection and summary info.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := newBarPaint(m.theme.Surface)
	sep := bg.gap(2)

	if !m.snapshot.HasSummary {
		return m.renderConnectingHeader(styles, bg)
	}

	var parts []string

	parts = append(parts, bg.text("stacks", styles.Logo))

	if m.snapshot.IsOffline() {
		parts = append(parts, bg.text("● OFFLINE", styles.DangerText))
	} else {
		parts = append(parts, bg.text("● ONLINE", styles.SuccessText))
	}

	summary := m.snapshot.Summary
	parts = append(parts,
		bg.text("Books:", styles.MutedText)+bg.gap(1)+
			bg.text(fmt.Sprintf("%d", summary.TotalBooks), styles.Text),
		bg.text("Patrons:", styles.MutedText)+bg.gap(1)+
			bg.text(fmt.Sprintf("%d", summary.TotalUsers), styles.Text),
		bg.text("On loan:", styles.MutedText)+bg.gap(1)+
			bg.text(fmt.Sprintf("%d", summary.ActiveLoans), styles.InfoText),
	)

	overdueStyle := styles.MutedText
	if summary.OverdueLoans > 0 {
		overdueStyle = styles.DangerText
	}
	parts = append(parts,
		bg.text("Overdue:", styles.MutedText)+bg.gap(1)+
			bg.text(fmt.Sprintf("%d", summary.OverdueLoans), overdueStyle),
	)

	if m.admin != nil {
		parts = append(parts, bg.text(m.admin.Email, styles.FaintText))
	}

	if timeStr := m.formatTimestamp(); timeStr != "" {
		parts = append(parts, bg.text(timeStr, styles.MutedText))
	}

	if m.snapshot.LastError != nil {
		errText := truncate(m.snapshot.LastError.Error(), 60)
		parts = append(parts,
			bg.text("ERROR", styles.DangerText)+bg.gap(1)+
				bg.text(errText, styles.DangerText),
		)
	}

	if m.errorMsg != "" {
		parts = append(parts,
			bg.text("!", styles.WarningText.Bold(true))+bg.gap(1)+
				bg.text(m.errorMsg, styles.WarningText),
		)
	}

	return styles.Header.Width(m.width).Render(bg.row(parts, "  ") + sep)
}

// renderConnectingHeader shows the connecting/error state.
func (m Model) renderConnectingHeader(styles Styles, bg barPaint) string {
	sep := bg.gap(2)

	if m.snapshot.LastError != nil {
		last := "soon"
		if !m.lastUpdated.IsZero() {
			last = m.lastUpdated.Format("15:04:05")
		}
		errorMsg := classifyConnectionError(m.snapshot.LastError)

		parts := []string{
			bg.text("stacks", styles.Logo),
			bg.text("SERVER "+errorMsg, styles.DangerText),
			bg.text("Retrying...", styles.WarningText.Bold(true)),
			bg.text(last, styles.MutedText),
		}
		return styles.Header.Width(m.width).Render(bg.row(parts, sep))
	}

	return styles.Header.Width(m.width).Render(
		bg.text("stacks", styles.Logo) + sep +
			bg.text("Connecting to library server...", styles.WarningText.Bold(true)),
	)
}

// formatTimestamp formats the last update time with relative indicator.
func (m Model) formatTimestamp() string {
	if m.lastUpdated.IsZero() {
		return ""
	}

	timeSince := time.Since(m.lastUpdated)
	timeStr := m.lastUpdated.Format("15:04:05")

	if timeSince < time.Minute {
		timeStr += " (now)"
	} else if timeSince < time.Hour {
		timeStr += fmt.Sprintf(" (%dm ago)", int(timeSince.Minutes()))
	} else if timeSince < 24*time.Hour {
		timeStr += fmt.Sprintf(" (%dh ago)", int(timeSince.Hours()))
	}

	return timeStr
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar for the active view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := newBarPaint(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewBooks:
		commands = []cmd{
			{"/", "Search"},
			{"j/k", "Navigate"},
			{"d", "Dashboard"},
			{"s", "Scan"},
			{"?", "More"},
		}
	case ViewEvents:
		if m.pendingCancel != "" {
			commands = []cmd{
				{"x", "Confirm cancel"},
				{"esc", "Keep event"},
			}
			break
		}
		commands = []cmd{
			{"enter", "Details"},
			{"x", "Cancel event"},
			{"u", "Upcoming/all"},
			{"j/k", "Navigate"},
			{"?", "More"},
		}
	case ViewLoans:
		commands = []cmd{
			{"i", "Issue"},
			{"r", "Return"},
			{"j/k", "Navigate"},
			{"d", "Dashboard"},
			{"?", "More"},
		}
	case ViewPatrons:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"s", "Scan"},
			{"d", "Dashboard"},
			{"?", "More"},
		}
	case ViewScan:
		commands = []cmd{
			{"c", m.cameraLabel()},
			{"enter", "Check barcode"},
			{"x", "Clear"},
			{"d", "Dashboard"},
			{"?", "More"},
		}
	default: // ViewDashboard
		commands = []cmd{
			{"b", "Books"},
			{"v", "Events"},
			{"o", "Loans"},
			{"p", "Patrons"},
			{"s", "Scan"},
			{"?", "More"},
		}
	}

	colon := bg.glue(":")
	sep := bg.gap(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.text(c.key, styles.AccentText)+colon+bg.text(c.desc, styles.MutedText))
	}

	if m.currentView == ViewBooks && m.activeSearch != "" {
		segments = append(segments,
			bg.text("/"+truncate(m.activeSearch, 18), styles.AccentText))
	}

	segments = append(segments,
		bg.text("T", styles.AccentText)+colon+bg.text(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// cameraLabel names the camera toggle according to current state.
func (m Model) cameraLabel() string {
	if m.scan.CameraOpen {
		return "Camera off"
	}
	return "Camera on"
}

// renderTitledBox draws a bordered pane with a title.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColor := m.theme.Border
	if focused {
		borderColor = m.theme.BorderFocus
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Width(width - 2).
		Height(height - 2)

	titled := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Accent)).
		Bold(true).
		Render(title)

	return box.Render(titled + "\n" + content)
}
