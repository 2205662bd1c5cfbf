package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// View switching
	ViewDashboard key.Binding
	ViewBooks     key.Binding
	ViewEvents    key.Binding
	ViewLoans     key.Binding
	ViewPatrons   key.Binding
	ViewScan      key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Books
	Search key.Binding

	// Loans
	Issue  key.Binding
	Return key.Binding

	// Events
	Cancel         key.Binding
	ToggleUpcoming key.Binding

	// Scan
	ToggleCamera key.Binding
	ResetScan    key.Binding
	Confirm      key.Binding
}

// defaultKeyMap returns the default key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to dashboard"),
		),

		ViewDashboard: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Dashboard"),
		),
		ViewBooks: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Books"),
		),
		ViewEvents: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Events"),
		),
		ViewLoans: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Loans"),
		),
		ViewPatrons: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Patrons"),
		),
		ViewScan: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Scan"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("j/k", "Move"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/k", "Move"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g/G", "Top/Bottom"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("g/G", "Top/Bottom"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),

		Issue: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "Issue"),
		),
		Return: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Return"),
		),

		Cancel: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Cancel event"),
		),
		ToggleUpcoming: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Upcoming/all"),
		),

		ToggleCamera: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Camera on/off"),
		),
		ResetScan: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear result"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}
