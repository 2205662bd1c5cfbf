package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is a non-2xx response from the library API. Detail carries the
// server-provided human-readable message when the body had one.
type Error struct {
	Status int
	Path   string
	Detail string
}

func (e *Error) Error() string {
	if strings.TrimSpace(e.Detail) != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
}

// NotFound reports whether the server said the resource does not exist.
func (e *Error) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// newStatusError builds an *Error from a failed response, pulling the
// FastAPI-style {"detail": "..."} message out of the body when present.
func newStatusError(path string, resp *http.Response) *Error {
	apiErr := &Error{Status: resp.StatusCode, Path: path}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Detail = strings.TrimSpace(payload.Detail)
	}
	return apiErr
}
