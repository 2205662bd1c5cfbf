package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/biblioteka14/stacks/internal/api"
)

// renderLoans renders the circulation table.
func (m Model) renderLoans() string {
	styles := m.theme.Styles()

	if len(m.loans) == 0 {
		msg := styles.MutedText.Render("No loans on record.")
		return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, msg)
	}

	cols := []column{
		{"Status", 10},
		{"Book", 36},
		{"Patron", 24},
		{"Copy", 14},
		{"Due", 12},
	}

	rows := make([][]cell, 0, len(m.loans))
	for _, loan := range m.loans {
		status := loanDisplayStatus(loan)
		statusStyle := styles.StatusText(status)
		dueStyle := &styles.MutedText
		if status == "overdue" {
			dueStyle = &styles.DangerText
		}
		rows = append(rows, []cell{
			{text: titleCase(status), style: &statusStyle},
			{text: loan.BookTitle},
			{text: loan.UserName, style: &styles.MutedText},
			{text: loan.InstanceBarcode, style: &styles.FaintText},
			{text: formatDate(loan.ParsedDueDate()), style: dueStyle},
		})
	}

	return m.renderListTable(cols, rows, m.selected[ViewLoans], m.listRows())
}

// loanDisplayStatus folds an expired due date into an overdue status.
func loanDisplayStatus(loan api.Loan) string {
	status := strings.ToLower(strings.TrimSpace(loan.Status))
	if status == "active" {
		if due := loan.ParsedDueDate(); !due.IsZero() && due.Before(time.Now()) {
			return "overdue"
		}
	}
	return status
}

// handleLoansKey processes keyboard input for the loans view. Issue applies
// to reserved loans, return to active or overdue ones.
func (m Model) handleLoansKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	loan := m.selectedLoan()
	switch {
	case key.Matches(msg, m.keys.Issue):
		if loan != nil && strings.EqualFold(loan.Status, "reserved") {
			return m, issueLoanCmd(m.ctx, m.client, loan.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Return):
		if loan != nil {
			status := loanDisplayStatus(*loan)
			if status == "active" || status == "overdue" {
				return m, returnLoanCmd(m.ctx, m.client, loan.ID)
			}
		}
		return m, nil
	}
	return m.handleListNav(msg, ViewLoans, len(m.loans))
}

func (m Model) selectedLoan() *api.Loan {
	idx := m.selected[ViewLoans]
	if idx < 0 || idx >= len(m.loans) {
		return nil
	}
	return &m.loans[idx]
}
