// Package history keeps a local append-only trail of barcode verifications.
//
// Each record is one JSON object per line. The file is append-only so a
// crashed session never corrupts earlier records; readers tolerate a torn
// final line.
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one verification attempt, successful or not.
type Entry struct {
	ID        string    `json:"id"`
	Barcode   string    `json:"barcode"`
	Matched   bool      `json:"matched"`
	Patron    string    `json:"patron,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Log appends scan entries to a JSONL file and reads back recent ones.
// Safe for concurrent use.
type Log struct {
	mu   sync.Mutex
	path string
}

// maxLineBytes bounds a single record when reading back. Lines beyond this
// are treated as corrupt and skipped.
const maxLineBytes = 16 * 1024

// Open prepares a log at path, creating parent directories as needed. The
// file itself is created lazily on first Append.
func Open(path string) (*Log, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &Log{path: trimmed}, nil
}

// Append records one verification attempt. An empty ID is filled in and the
// timestamp defaults to now.
func (l *Log) Append(e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CheckedAt.IsZero() {
		e.CheckedAt = time.Now().UTC()
	}

	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(line); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first. A missing file yields an
// empty slice. Unparsable lines are skipped.
func (l *Log) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer file.Close()

	// Ring of the last n decoded entries in file order.
	ring := make([]Entry, 0, n)
	next := 0

	reader := bufio.NewReaderSize(file, 4096)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 && len(line) <= maxLineBytes {
			var e Entry
			if jsonErr := json.Unmarshal(line, &e); jsonErr == nil {
				if len(ring) < n {
					ring = append(ring, e)
					next = len(ring) % n
				} else {
					ring[next] = e
					next = (next + 1) % n
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read history: %w", err)
		}
	}

	// Unroll the ring newest-first.
	out := make([]Entry, 0, len(ring))
	if len(ring) < n {
		for i := len(ring) - 1; i >= 0; i-- {
			out = append(out, ring[i])
		}
		return out, nil
	}
	for i := 0; i < n; i++ {
		idx := (next - 1 - i + n*2) % n
		out = append(out, ring[idx])
	}
	return out, nil
}
