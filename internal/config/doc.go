// Package config handles loading and parsing the stacks configuration file.
//
// # Overview
//
// This package reads the console's TOML configuration to discover the library
// API endpoint and the directory used for the local scan history.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/stacks/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/stacks/config.toml
//   - API endpoint: 127.0.0.1:8000
//   - Poll interval: 5 seconds
//   - Request timeout: 10 seconds
//   - History dir: ~/.local/share/stacks
//   - History file: <history_dir>/history.jsonl
//
// # TOML Format
//
// Example config.toml:
//
//	api_url = "127.0.0.1:8000"
//	poll_seconds = 5
//	request_timeout_seconds = 10
//	history_dir = "~/.local/share/stacks"
//
// All fields are optional. Tilde expansion is performed automatically.
//
// # Error Handling
//
// Load returns errors for path expansion failures, file read errors (except
// os.ErrNotExist, which triggers defaults), and TOML parsing errors. A missing
// config file is NOT an error - the console works out of the box against a
// locally running library server.
package config
