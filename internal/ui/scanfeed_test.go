package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/biblioteka14/stacks/internal/scan"
)

func TestScanFeed_BuffersUntilBound(t *testing.T) {
	t.Parallel()

	feed := NewScanFeed()
	feed.Notify(scan.Snapshot{State: scan.StateOpening})
	feed.Notify(scan.Snapshot{State: scan.StateScanning, DeviceLabel: "video0"})

	var got []tea.Msg
	feed.Bind(func(msg tea.Msg) { got = append(got, msg) })

	if len(got) != 1 {
		t.Fatalf("flushed %d messages, want 1 (latest only)", len(got))
	}
	snap := scan.Snapshot(got[0].(scanMsg))
	if snap.State != scan.StateScanning || snap.DeviceLabel != "video0" {
		t.Fatalf("flushed snapshot = %+v", snap)
	}

	feed.Notify(scan.Snapshot{State: scan.StateDone})
	if len(got) != 2 {
		t.Fatalf("got %d messages after bind, want 2", len(got))
	}
}

func TestViewfinder_AttachDetach(t *testing.T) {
	t.Parallel()

	v := NewViewfinder()
	if v.Live() {
		t.Fatal("new viewfinder reports live")
	}
	if err := v.Attach(nil); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if !v.Live() {
		t.Fatal("attached viewfinder not live")
	}
	v.Detach()
	if v.Live() {
		t.Fatal("detached viewfinder still live")
	}
}
