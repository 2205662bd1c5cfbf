package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/biblioteka14/stacks/internal/scan"
)

// ScanFeed bridges controller snapshots into the Bubble Tea message loop.
// The controller starts before the program does, so snapshots arriving early
// are buffered and replayed on Bind. Only the latest buffered snapshot
// matters; intermediate ones are superseded.
type ScanFeed struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	pending *scan.Snapshot
}

// NewScanFeed returns an unbound feed.
func NewScanFeed() *ScanFeed {
	return &ScanFeed{}
}

// Notify accepts a controller snapshot. Safe to call from any goroutine.
func (f *ScanFeed) Notify(snap scan.Snapshot) {
	f.mu.Lock()
	send := f.send
	if send == nil {
		copied := snap
		f.pending = &copied
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	send(scanMsg(snap))
}

// Bind connects the feed to a running program and flushes any buffered
// snapshot.
func (f *ScanFeed) Bind(send func(tea.Msg)) {
	f.mu.Lock()
	f.send = send
	pending := f.pending
	f.pending = nil
	f.mu.Unlock()
	if pending != nil {
		send(scanMsg(*pending))
	}
}
