// Package state provides thread-safe state management for the console.
//
// A Store is the coordination point between the background poller and the
// UI: the poller writes dashboard summary, activity and loan data after each
// refresh, and the UI reads immutable snapshots on its own render cadence.
//
// # Update Semantics
//
// Update replaces the whole snapshot on success. When the poller passes a
// non-nil error the previous data is kept and the error is recorded, so the
// UI always has the most recent successful data plus the failure to show:
//
//	store.Update(summary, activity, loans, nil) // full replacement
//	store.Update(nil, nil, nil, err)            // keep data, record error
//
// Consecutive failures accumulate; Snapshot.IsOffline reports after two in a
// row, which the header uses for the unreachable banner.
//
// # Concurrency
//
// Single writer (the poller), multiple readers (UI refreshes). A sync.RWMutex
// guards access; both paths deep-copy slices so no rendered data shares
// backing arrays with the store. The zero value is ready to use.
package state
