package history

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "trail", "history.jsonl"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return l
}

func TestLog_RecentOnMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	l := openTestLog(t)
	entries, err := l.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(entries))
	}
}

func TestLog_AppendFillsIDAndTimestamp(t *testing.T) {
	t.Parallel()

	l := openTestLog(t)
	if err := l.Append(Entry{Barcode: "4006381333931", Matched: true, Patron: "Anna Karenina"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := l.Recent(1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.ID == "" {
		t.Fatal("ID not filled in")
	}
	if e.CheckedAt.IsZero() {
		t.Fatal("CheckedAt not filled in")
	}
	if e.Barcode != "4006381333931" || !e.Matched || e.Patron != "Anna Karenina" {
		t.Fatalf("entry mismatch: %+v", e)
	}
}

func TestLog_RecentReturnsNewestFirstAndBounds(t *testing.T) {
	t.Parallel()

	l := openTestLog(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		e := Entry{
			ID:        string(rune('a' + i)),
			Barcode:   "code",
			CheckedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := l.Append(e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	entries, err := l.Recent(3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, want := range []string{"e", "d", "c"} {
		if entries[i].ID != want {
			t.Fatalf("entries[%d].ID = %q, want %q", i, entries[i].ID, want)
		}
	}
}

func TestLog_RecentSkipsCorruptLines(t *testing.T) {
	t.Parallel()

	l := openTestLog(t)
	if err := l.Append(Entry{ID: "ok-1", Barcode: "111"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	file, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := file.WriteString("{torn json\n"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := l.Append(Entry{ID: "ok-2", Barcode: "222"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := l.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != "ok-2" || entries[1].ID != "ok-1" {
		t.Fatalf("unexpected order: %+v", entries)
	}
}

func TestLog_RecentZeroIsEmpty(t *testing.T) {
	t.Parallel()

	l := openTestLog(t)
	if err := l.Append(Entry{ID: "x", Barcode: "1"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	entries, err := l.Recent(0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(entries))
	}
}

func TestLog_RecentSkipsOverlongLineAndKeepsNewer(t *testing.T) {
	t.Parallel()

	l := openTestLog(t)
	if err := l.Append(Entry{ID: "ok-1", Barcode: "111"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	file, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	long := append(bytes.Repeat([]byte{'x'}, maxLineBytes+1), '\n')
	if _, err := file.Write(long); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := l.Append(Entry{ID: "ok-2", Barcode: "222"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := l.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != "ok-2" || entries[1].ID != "ok-1" {
		t.Fatalf("entries out of order: %v, %v", entries[0].ID, entries[1].ID)
	}
}
