package ui

import (
	"sync"

	"github.com/biblioteka14/stacks/internal/scan"
)

// Viewfinder is the terminal stand-in for a video element: the scan
// controller attaches the live stream here and the scan view renders a frame
// around whatever is attached. Safe for concurrent use; Attach and Detach
// arrive from controller goroutines while View reads from the UI loop.
type Viewfinder struct {
	mu       sync.Mutex
	attached bool
	tracks   int
}

var _ scan.Surface = (*Viewfinder)(nil)

// NewViewfinder returns a detached viewfinder.
func NewViewfinder() *Viewfinder {
	return &Viewfinder{}
}

// Attach binds a media stream. It never rejects a stream; the terminal has
// no preview to fail.
func (v *Viewfinder) Attach(stream scan.Stream) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.attached = true
	if stream != nil {
		v.tracks = len(stream.Tracks())
	}
	return nil
}

// Detach releases the stream binding.
func (v *Viewfinder) Detach() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.attached = false
	v.tracks = 0
}

// Live reports whether a stream is currently attached.
func (v *Viewfinder) Live() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.attached
}
