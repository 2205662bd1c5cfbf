// Package api provides the HTTP client for the library management API.
//
// The client is a thin typed wrapper over net/http: every call takes a
// context, attaches the staff bearer token and an X-Request-ID header, and
// decodes JSON into the structs in types.go. Non-2xx responses become *Error
// values carrying the server's "detail" message so the UI can show it
// verbatim.
//
// Collection GETs (books, events, users) are memoized in a short-lived TTL
// cache; any mutation flushes it. The cache only smooths view switches — the
// background poller remains the source of refresh cadence.
//
// The base URL accepts either a bare "host:port" or a full URL; the scheme
// defaults to http for the usual on-premises deployment.
package api
