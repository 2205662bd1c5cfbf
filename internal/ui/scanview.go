package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/biblioteka14/stacks/internal/history"
	"github.com/biblioteka14/stacks/internal/scan"
)

// handleScanKey processes keyboard input for the scan view.
func (m Model) handleScanKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.ToggleCamera):
		if m.controller == nil {
			return m, nil
		}
		if m.scan.CameraOpen {
			m.controller.StopCamera()
			return m, nil
		}
		return m, startCameraCmd(m.ctx, m.controller)

	case key.Matches(msg, keys.ResetScan):
		if m.controller != nil {
			m.controller.Reset()
		}
		return m, nil

	case key.Matches(msg, keys.Confirm):
		m.manualInput.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

// handleManualEntryKey routes keys while the barcode input is focused.
func (m Model) handleManualEntryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.controller != nil && m.controller.SubmitManualEntry(m.manualInput.Value()) {
			m.manualInput.SetValue("")
			m.manualInput.Blur()
		}
		return m, nil
	case "esc":
		m.manualInput.Blur()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.manualInput, cmd = m.manualInput.Update(msg)
	return m, cmd
}

// handleScanUpdate absorbs a controller snapshot. Each verification outcome
// is appended to the local trail exactly once, on the transition out of the
// verifying state.
func (m Model) handleScanUpdate(snap scan.Snapshot) (tea.Model, tea.Cmd) {
	prev := m.scan
	m.scan = snap

	settled := snap.State == scan.StateDone || snap.State == scan.StateFailed
	if m.trail != nil && prev.State == scan.StateVerifying && settled && snap.Barcode != "" {
		entry := history.Entry{
			Barcode:   snap.Barcode,
			Matched:   snap.State == scan.StateDone,
			Detail:    snap.Message,
			CheckedAt: time.Now().UTC(),
		}
		if snap.Report != nil {
			entry.Patron = snap.Report.FullName
		}
		return m, appendHistoryCmd(m.trail, entry)
	}
	return m, nil
}

// renderScan renders the viewfinder, manual entry and verification outcome.
func (m Model) renderScan() string {
	contentHeight := m.contentHeight()

	half := m.width / 2
	left := m.renderTitledBox("Camera", m.renderViewfinder(half-4), half, contentHeight-7, m.scan.CameraOpen)
	right := m.renderTitledBox("Reader", m.renderOutcome(), m.width-half, contentHeight-7, m.scan.Report != nil)

	panes := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	var b strings.Builder
	b.WriteString(panes)
	b.WriteString("\n")
	b.WriteString(m.renderRecentScans())
	return b.String()
}

// renderViewfinder draws the camera pane body.
func (m Model) renderViewfinder(width int) string {
	styles := m.theme.Styles()
	snap := m.scan

	var b strings.Builder

	stateLabel := snap.State.String()
	b.WriteString(styles.StatusStyle(stateLabel).Render(titleCase(stateLabel)))
	if snap.DeviceLabel != "" {
		b.WriteString("  ")
		b.WriteString(styles.MutedText.Render(snap.DeviceLabel))
	}
	b.WriteString("\n\n")

	switch {
	case m.viewfinder != nil && m.viewfinder.Live():
		b.WriteString(styles.InfoText.Render("[ live feed, point at a barcode ]"))
	case snap.State == scan.StateOpening:
		b.WriteString(styles.WarningText.Render("Opening camera..."))
	default:
		b.WriteString(styles.FaintText.Render("Camera off. Press c to scan or enter to type a barcode."))
	}
	b.WriteString("\n\n")

	if snap.Barcode != "" {
		b.WriteString(styles.MutedText.Render("Last code: "))
		b.WriteString(styles.Text.Render(truncate(snap.Barcode, width-12)))
		b.WriteString("\n")
	}

	b.WriteString(styles.MutedText.Render("Barcode: "))
	b.WriteString(m.manualInput.View())
	b.WriteString("\n")

	return b.String()
}

// renderOutcome draws the verification result pane body.
func (m Model) renderOutcome() string {
	styles := m.theme.Styles()
	snap := m.scan

	if snap.Verifying {
		return styles.WarningText.Render("Checking barcode...")
	}

	if snap.Message != "" {
		return styles.DangerText.Render(snap.Message)
	}

	report := snap.Report
	if report == nil {
		return styles.FaintText.Render("Scan or type a patron barcode to look them up.")
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(report.FullName))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(report.Email))
	b.WriteString("\n\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(styles.MutedText.Render(padRight(label, 14)))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}

	row("Barcode", report.Barcode)
	row("Birthday", report.Birthday)
	row("Device", report.DeviceType)
	row("Member since", formatDate(report.ParsedCreatedAt()))
	b.WriteString("\n")

	counts := fmt.Sprintf("%d total, %d active, %d overdue, %d returned",
		report.TotalLoans, report.ActiveLoans, report.OverdueLoans, report.ReturnedLoans)
	row("Loans", counts)

	if report.LastBookTitle != "" {
		last := report.LastBookTitle
		if report.LastBookAuthor != "" {
			last += ", " + report.LastBookAuthor
		}
		row("Last book", truncate(last, 50))
		row("Last loan", formatDate(report.ParsedLastLoanDate()))
	}

	return b.String()
}

// renderRecentScans lists the newest trail entries.
func (m Model) renderRecentScans() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Recent checks"))
	b.WriteString("\n")

	if len(m.recent) == 0 {
		b.WriteString(styles.MutedText.Render("Nothing checked yet."))
		return b.String()
	}

	for _, entry := range m.recent {
		when := humanizeDuration(time.Since(entry.CheckedAt)) + " ago"
		b.WriteString(styles.FaintText.Render(padRight(when, 12)))
		b.WriteString(styles.InfoText.Render(padRight(truncate(entry.Barcode, 18), 20)))
		if entry.Matched {
			b.WriteString(styles.SuccessText.Render(padRight("ok", 5)))
			b.WriteString(styles.Text.Render(truncate(entry.Patron, 40)))
		} else {
			b.WriteString(styles.DangerText.Render(padRight("miss", 5)))
			b.WriteString(styles.MutedText.Render(truncate(entry.Detail, 40)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
