package scan

import (
	"context"
	"errors"
	"io"
)

// Device identifies one video input device.
type Device struct {
	ID    string
	Label string
}

// DecodeResult carries the text extracted from one analyzed frame.
type DecodeResult struct {
	Text string
}

// DecodeFunc is invoked once per analyzed frame. Exactly one of result and
// err is set; err may be ErrNoCode for frames without a readable barcode.
type DecodeFunc func(result *DecodeResult, err error)

// ErrNoCode marks the normal per-frame miss: the frame was analyzed and no
// barcode was present. Loops continue past it.
var ErrNoCode = errors.New("no barcode in frame")

// ErrNoDevice marks a transient mid-stream device hiccup that decoders may
// emit between frames. Treated like ErrNoCode.
var ErrNoDevice = errors.New("no capture device")

// Decoder is the video-decode capability: device enumeration plus a
// continuous decode loop against a device/surface pair. The returned closer
// halts the loop; closing twice is safe. Close must not wait for an
// in-flight callback to return, since callbacks may themselves close the
// loop.
type Decoder interface {
	ListVideoInputDevices(ctx context.Context) ([]Device, error)
	DecodeFromVideoDevice(deviceID string, surface Surface, fn DecodeFunc) (io.Closer, error)
}

// FacingEnvironment requests the rear-facing camera when a device offers
// more than one.
const FacingEnvironment = "environment"

// Constraints narrow a media stream request to a device and facing.
type Constraints struct {
	DeviceID   string
	FacingMode string
}

// Track is one constituent of a media stream. Stopping a stopped track is a
// no-op.
type Track interface {
	Stop()
}

// Stream is an open media stream whose tracks can be individually stopped.
type Stream interface {
	Tracks() []Track
}

// MediaOpener acquires a media stream for the given constraints. Permission
// negotiation happens here, so the call can block until the context ends.
type MediaOpener interface {
	OpenStream(ctx context.Context, c Constraints) (Stream, error)
}

// Surface is the injected video sink the controller writes a stream into.
// Detach on a detached surface is a no-op.
type Surface interface {
	Attach(Stream) error
	Detach()
}
