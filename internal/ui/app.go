// Package ui provides the Bubble Tea terminal interface for stacks.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/biblioteka14/stacks/internal/api"
	"github.com/biblioteka14/stacks/internal/history"
	"github.com/biblioteka14/stacks/internal/prefs"
	"github.com/biblioteka14/stacks/internal/scan"
	"github.com/biblioteka14/stacks/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewDashboard View = iota
	ViewBooks
	ViewEvents
	ViewLoans
	ViewPatrons
	ViewScan
)

// listPageSize bounds the catalog and event pages fetched per view.
const listPageSize = 200

// recentScanCount is how many trail entries the scan view shows.
const recentScanCount = 5

// Options configures the UI.
type Options struct {
	Context    context.Context
	Client     *api.Client
	Store      *state.Store
	Controller *scan.Controller
	Viewfinder *Viewfinder
	Feed       *ScanFeed
	History    *history.Log
	Admin      *api.AdminProfile
	PollTick   time.Duration
	ThemeName  string
	PrefsPath  string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	client     *api.Client
	store      *state.Store
	controller *scan.Controller
	viewfinder *Viewfinder
	trail      *history.Log
	admin      *api.AdminProfile
	prefsPath  string
	pollTick   time.Duration
	keys       keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	errorMsg    string

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
	books       []api.Book
	events      []api.Event
	loans       []api.Loan
	patrons     []api.Patron
	selected    map[View]int

	// Books search
	searchInput  textinput.Model
	searching    bool
	activeSearch string

	// Events filter
	eventsUpcoming bool
	pendingCancel  string
	eventDetail    *api.Event

	// Scan state
	scan        scan.Snapshot
	manualInput textinput.Model
	recent      []history.Entry
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	search := textinput.New()
	search.Placeholder = "title, author or ISBN"
	search.CharLimit = 120

	manual := textinput.New()
	manual.Placeholder = "barcode"
	manual.CharLimit = 64

	m := Model{
		ctx:         ctx,
		client:      opts.Client,
		store:       opts.Store,
		controller:  opts.Controller,
		viewfinder:  opts.Viewfinder,
		trail:       opts.History,
		admin:       opts.Admin,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		keys:        defaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: ViewDashboard,
		selected:    make(map[View]int),
		searchInput: search,
		manualInput: manual,
	}
	if m.controller != nil {
		m.scan = m.controller.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.trail != nil {
		cmds = append(cmds, fetchHistoryCmd(m.trail))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		return m, nil

	case scanMsg:
		return m.handleScanUpdate(scan.Snapshot(msg))

	case booksMsg:
		m.books = msg
		m.clampSelection(ViewBooks, len(m.books))
		return m, nil

	case eventsMsg:
		m.events = msg
		m.clampSelection(ViewEvents, len(m.events))
		return m, nil

	case eventDetailMsg:
		m.eventDetail = msg.event
		return m, nil

	case loansMsg:
		m.loans = msg
		m.clampSelection(ViewLoans, len(m.loans))
		return m, nil

	case patronsMsg:
		m.patrons = msg
		m.clampSelection(ViewPatrons, len(m.patrons))
		return m, nil

	case historyMsg:
		m.recent = msg
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.errorMsg = truncate(msg.err.Error(), 60)
			return m, nil
		}
		m.errorMsg = ""
		return m, m.refreshCurrentView()

	case fetchErrMsg:
		m.errorMsg = truncate(msg.err.Error(), 60)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// Text entry modes swallow most keys.
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.currentView == ViewScan && m.manualInput.Focused() {
		return m.handleManualEntryKey(msg)
	}

	keys := m.keys
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, keys.Escape):
		if m.currentView == ViewEvents && (m.pendingCancel != "" || m.eventDetail != nil) {
			m.pendingCancel = ""
			m.eventDetail = nil
			return m, nil
		}
		return m.switchView(ViewDashboard)

	case key.Matches(msg, keys.ViewDashboard):
		return m.switchView(ViewDashboard)
	case key.Matches(msg, keys.ViewBooks):
		return m.switchView(ViewBooks)
	case key.Matches(msg, keys.ViewEvents):
		return m.switchView(ViewEvents)
	case key.Matches(msg, keys.ViewLoans):
		return m.switchView(ViewLoans)
	case key.Matches(msg, keys.ViewPatrons):
		return m.switchView(ViewPatrons)
	case key.Matches(msg, keys.ViewScan):
		return m.switchView(ViewScan)
	}

	switch m.currentView {
	case ViewBooks:
		return m.handleBooksKey(msg)
	case ViewEvents:
		return m.handleEventsKey(msg)
	case ViewLoans:
		return m.handleLoansKey(msg)
	case ViewPatrons:
		return m.handleListNav(msg, ViewPatrons, len(m.patrons))
	case ViewScan:
		return m.handleScanKey(msg)
	}

	return m, nil
}

// switchView activates a view and kicks off its data fetch.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	m.searching = false
	m.pendingCancel = ""
	m.eventDetail = nil
	m.searchInput.Blur()
	if v != ViewScan {
		m.manualInput.Blur()
	}
	return m, m.refreshCurrentView()
}

// refreshCurrentView returns the fetch command for the active view's data.
func (m Model) refreshCurrentView() tea.Cmd {
	switch m.currentView {
	case ViewBooks:
		return fetchBooksCmd(m.ctx, m.client, m.activeSearch)
	case ViewEvents:
		return fetchEventsCmd(m.ctx, m.client, m.eventsUpcoming)
	case ViewLoans:
		return fetchLoansCmd(m.ctx, m.client)
	case ViewPatrons:
		return fetchPatronsCmd(m.ctx, m.client)
	case ViewScan:
		if m.trail != nil {
			return fetchHistoryCmd(m.trail)
		}
	}
	return nil
}

// handleListNav moves the selection for simple list views.
func (m Model) handleListNav(msg tea.KeyMsg, v View, count int) (tea.Model, tea.Cmd) {
	if count == 0 {
		return m, nil
	}
	idx := m.selected[v]
	switch {
	case key.Matches(msg, m.keys.Down):
		if idx < count-1 {
			idx++
		}
	case key.Matches(msg, m.keys.Up):
		if idx > 0 {
			idx--
		}
	case key.Matches(msg, m.keys.Top):
		idx = 0
	case key.Matches(msg, m.keys.Bottom):
		idx = count - 1
	}
	m.selected[v] = idx
	return m, nil
}

func (m *Model) clampSelection(v View, count int) {
	if count == 0 {
		m.selected[v] = 0
		return
	}
	if m.selected[v] >= count {
		m.selected[v] = count - 1
	}
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	// Keep the active list fresh; client-side caching absorbs the chatter.
	if cmd := m.refreshCurrentView(); cmd != nil {
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, tickCmd(m.pollTick))

	return m, tea.Batch(cmds...)
}

// savePrefs persists the current theme without dropping the stored session.
func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	current, err := prefs.Load(m.prefsPath)
	if err != nil {
		current = prefs.Prefs{}
	}
	current.Theme = m.theme.Name
	_ = prefs.Save(m.prefsPath, current)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDashboard:
		return m.renderDashboard()
	case ViewBooks:
		return m.renderBooks()
	case ViewEvents:
		return m.renderEvents()
	case ViewLoans:
		return m.renderLoans()
	case ViewPatrons:
		return m.renderPatrons()
	case ViewScan:
		return m.renderScan()
	default:
		return ""
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if opts.Feed != nil {
		opts.Feed.Bind(p.Send)
	}
	_, err := p.Run()
	return err
}
