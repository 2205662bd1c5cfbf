// Package app provides the orchestration layer for the stacks console.
//
// # Overview
//
// This package wires together configuration, authentication, polling, the
// scan controller, and the UI to create the complete stacks experience. It
// serves as the composition root where all dependencies are initialized and
// connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load console configuration from ~/.config/stacks/config.toml
//  2. Load user preferences (theme and stored admin session)
//  3. Initialize the HTTP client for the library API
//  4. Validate the stored token, or prompt for credentials via Options.Login
//  5. Open the local scan history trail
//  6. Launch the background poller goroutine for continuous dashboard updates
//  7. Build the barcode scan controller over the zbar hardware bindings
//  8. Start the TUI and block until the operator exits or the context cancels
//
// # Polling Behavior
//
// The poller runs continuously in the background at a configurable interval
// (default: 5 seconds). Each tick fetches the statistics summary, the
// activity series, and active loans, then updates the shared state.Store
// atomically. Failures are logged and polling continues with exponential
// backoff, capped at 30 seconds, so a restarting server is not hammered.
//
// # Error Handling
//
// Fatal errors returned from Run: unreadable configuration, client
// initialization failure, and a failed interactive login. Periodic fetch
// failures are recoverable; the store tracks consecutive failures so the UI
// can show an offline banner while retaining the last good data.
package app
