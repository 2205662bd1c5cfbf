// Package ui provides the Bubble Tea terminal interface for stacks.
//
// # Architecture Overview
//
// The interface follows the Elm architecture: a single Model holds all view
// state, Update routes messages, and View renders the active screen. Data
// arrives three ways:
//
//   - Dashboard statistics come from the shared state.Store, refreshed by the
//     background poller and read on every tick.
//   - List views (books, events, loans, patrons) fetch through the API client
//     in tea.Cmd goroutines; the client's short-lived cache absorbs per-tick
//     refetches.
//   - Scan snapshots are pushed by the scan controller through a ScanFeed,
//     which buffers anything emitted before the program starts.
//
// # Views
//
// Six views are switchable from anywhere: Dashboard (summary tiles, activity
// series, recent loans), Books (searchable catalog), Events, Loans (issue and
// return actions), Patrons, and Scan (camera viewfinder, manual barcode
// entry, verification outcome, recent checks).
//
// # Scan view
//
// The Viewfinder implements the controller's Surface; the scan view renders
// a frame around it and shows the controller state machine as a badge. Each
// verification outcome is appended once to the local history trail.
package ui
