package scan

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/biblioteka14/stacks/internal/api"
)

// State is the controller's position in the acquisition flow.
type State int

const (
	StateIdle State = iota
	StateOpening
	StateScanning
	StateVerifying
	StateDone
	StateFailed
)

// String returns a short label for display.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpening:
		return "opening"
	case StateScanning:
		return "scanning"
	case StateVerifying:
		return "verifying"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// User-visible messages for the recoverable failure categories.
const (
	msgNoCamera     = "camera not found"
	msgCameraDenied = "could not open camera, check permissions"
	msgScanError    = "scanning error"
	msgNotFound     = "user not found"
)

// ErrCameraBusy is returned when StartCamera is called while a session is
// already open or opening.
var ErrCameraBusy = errors.New("camera session already open")

// Snapshot is the controller's externally visible state. A copy is pushed to
// the notify sink after every transition.
type Snapshot struct {
	State       State
	Barcode     string
	Report      *api.PatronReport
	Message     string
	CameraOpen  bool
	Verifying   bool
	DeviceLabel string
}

// Options configure a Controller. Decoder, Media, Surface and Verifier are
// required; Notify may be nil. Notify runs with the controller lock held so
// snapshots arrive in transition order; it must not call back into the
// Controller.
type Options struct {
	Context  context.Context
	Decoder  Decoder
	Media    MediaOpener
	Surface  Surface
	Verifier api.Verifier
	Notify   func(Snapshot)
}

// session is one open camera session: device, media stream and decode loop.
// Exclusively owned by the controller; identity doubles as the guard that
// drops decode callbacks arriving after the session closed.
type session struct {
	deviceID    string
	deviceLabel string
	stream      Stream
	decode      io.Closer
}

// Controller mediates between manual barcode entry, the live camera decode
// loop and the verification service. All camera resources funnel through a
// single idempotent release path so no exit leaks a stream or decoder.
type Controller struct {
	ctx      context.Context
	decoder  Decoder
	media    MediaOpener
	surface  Surface
	verifier api.Verifier
	notify   func(Snapshot)

	mu        sync.Mutex
	state     State
	opening   bool
	sess      *session
	barcode   string
	report    *api.PatronReport
	message   string
	verifying bool
}

// NewController builds a Controller in the idle state.
func NewController(opts Options) *Controller {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	notify := opts.Notify
	if notify == nil {
		notify = func(Snapshot) {}
	}
	return &Controller{
		ctx:      ctx,
		decoder:  opts.Decoder,
		media:    opts.Media,
		surface:  opts.Surface,
		verifier: opts.Verifier,
		notify:   notify,
		state:    StateIdle,
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:      c.state,
		Barcode:    c.barcode,
		Report:     c.report,
		Message:    c.message,
		CameraOpen: c.sess != nil || c.opening,
		Verifying:  c.verifying,
	}
	if c.sess != nil {
		snap.DeviceLabel = c.sess.deviceLabel
	}
	return snap
}

// StartCamera enumerates devices, opens a rear-facing stream on the first
// one, attaches it to the surface and starts the decode loop. Decode
// outcomes arrive asynchronously; the call itself returns once the loop is
// running. Every failure path releases whatever was already acquired and
// records a user-visible message.
func (c *Controller) StartCamera(ctx context.Context) error {
	c.mu.Lock()
	if c.sess != nil || c.opening {
		c.mu.Unlock()
		return ErrCameraBusy
	}
	c.opening = true
	c.state = StateOpening
	c.message = ""
	c.notify(c.snapshotLocked())
	c.mu.Unlock()

	devices, err := c.decoder.ListVideoInputDevices(ctx)
	if err != nil || len(devices) == 0 {
		return c.failOpen(msgNoCamera, err)
	}
	device := devices[0]

	stream, err := c.media.OpenStream(ctx, Constraints{DeviceID: device.ID, FacingMode: FacingEnvironment})
	if err != nil {
		return c.failOpen(msgCameraDenied, err)
	}

	if err := c.surface.Attach(stream); err != nil {
		stopTracks(stream)
		return c.failOpen(msgCameraDenied, err)
	}

	s := &session{deviceID: device.ID, deviceLabel: device.Label, stream: stream}

	c.mu.Lock()
	if !c.opening {
		// Cancelled while acquiring. Release and stay closed.
		c.mu.Unlock()
		c.surface.Detach()
		stopTracks(stream)
		return nil
	}
	c.opening = false
	c.sess = s
	c.state = StateScanning
	c.notify(c.snapshotLocked())
	c.mu.Unlock()

	closer, err := c.decoder.DecodeFromVideoDevice(device.ID, c.surface, func(result *DecodeResult, err error) {
		c.onDecodeEvent(s, result, err)
	})
	if err != nil {
		c.mu.Lock()
		c.closeSessionLocked()
		c.state = StateFailed
		c.message = msgScanError
		c.notify(c.snapshotLocked())
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	if c.sess == s {
		s.decode = closer
	} else {
		// Session ended before the loop handle landed.
		_ = closer.Close()
	}
	c.mu.Unlock()
	return nil
}

// failOpen records a user-visible open failure. No session exists on this
// path, so there is nothing to release.
func (c *Controller) failOpen(message string, cause error) error {
	c.mu.Lock()
	c.opening = false
	c.state = StateFailed
	c.message = message
	c.notify(c.snapshotLocked())
	c.mu.Unlock()
	if cause != nil {
		return cause
	}
	return errors.New(message)
}

// StopCamera closes the current session. It is the single release path for
// every exit (user cancel, first decode, teardown, error recovery), is
// idempotent, and always returns synchronously.
func (c *Controller) StopCamera() {
	c.mu.Lock()
	c.opening = false
	c.closeSessionLocked()
	if c.state == StateScanning || c.state == StateOpening {
		c.state = StateIdle
	}
	c.notify(c.snapshotLocked())
	c.mu.Unlock()
}

// closeSessionLocked releases the decode loop, every stream track and the
// surface attachment. Safe to call with no session open.
func (c *Controller) closeSessionLocked() {
	s := c.sess
	if s == nil {
		return
	}
	c.sess = nil
	if s.decode != nil {
		_ = s.decode.Close()
	}
	stopTracks(s.stream)
	c.surface.Detach()
}

func stopTracks(stream Stream) {
	if stream == nil {
		return
	}
	for _, track := range stream.Tracks() {
		track.Stop()
	}
}

// onDecodeEvent routes one frame outcome. Only callbacks belonging to the
// currently open session have any effect; everything after the first
// successful decode is dropped because that decode closes the session.
func (c *Controller) onDecodeEvent(s *session, result *DecodeResult, err error) {
	c.mu.Lock()
	if c.sess != s {
		c.mu.Unlock()
		return
	}

	if err != nil {
		if errors.Is(err, ErrNoCode) || errors.Is(err, ErrNoDevice) {
			c.mu.Unlock()
			return
		}
		c.closeSessionLocked()
		c.state = StateFailed
		c.message = msgScanError
		c.notify(c.snapshotLocked())
		c.mu.Unlock()
		return
	}

	if result == nil {
		c.mu.Unlock()
		return
	}
	text := strings.TrimSpace(result.Text)
	if text == "" {
		c.mu.Unlock()
		return
	}

	c.barcode = text
	c.beginVerifyLocked(text)
	c.closeSessionLocked()
	c.notify(c.snapshotLocked())
	c.mu.Unlock()
}

// SubmitManualEntry verifies a typed barcode. Equivalent to a successful
// decode of the trimmed text; camera state is untouched. Returns false when
// the text is blank or a lookup is already in flight.
func (c *Controller) SubmitManualEntry(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	c.mu.Lock()
	if c.verifying {
		c.mu.Unlock()
		return false
	}
	c.barcode = text
	c.beginVerifyLocked(text)
	c.notify(c.snapshotLocked())
	c.mu.Unlock()
	return true
}

// beginVerifyLocked starts the single in-flight verification lookup. The
// prior error clears now; the prior report stays until the outcome lands.
func (c *Controller) beginVerifyLocked(barcode string) {
	if c.verifying {
		return
	}
	c.verifying = true
	c.message = ""
	c.state = StateVerifying
	go c.runVerify(barcode)
}

func (c *Controller) runVerify(barcode string) {
	report, err := c.verifier.CheckBarcode(c.ctx, barcode)

	c.mu.Lock()
	c.verifying = false
	if err != nil {
		message := msgNotFound
		var apiErr *api.Error
		if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Detail) != "" {
			message = apiErr.Detail
		}
		c.report = nil
		c.message = message
		c.state = StateFailed
	} else {
		c.report = report
		c.message = ""
		c.state = StateDone
	}
	// A camera left open by a manual-entry lookup closes with the outcome.
	c.closeSessionLocked()
	c.notify(c.snapshotLocked())
	c.mu.Unlock()
}

// Reset clears the barcode, report and message. Camera state is independent
// of this operation.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.barcode = ""
	c.report = nil
	c.message = ""
	if c.sess == nil && !c.opening && !c.verifying {
		c.state = StateIdle
	}
	c.notify(c.snapshotLocked())
	c.mu.Unlock()
}

// Close tears the controller down. Routes through the single release path.
func (c *Controller) Close() {
	c.StopCamera()
}
