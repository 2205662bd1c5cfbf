// Package scan owns the barcode acquisition and verification flow.
//
// A Controller mediates between three inputs — manual text entry, a live
// camera decode loop, and the verification endpoint — and reconciles them
// into one snapshot the UI renders. The flow is an explicit state machine:
//
//	Idle → Opening → Scanning → Verifying → Done | Failed
//
// Camera resources (media stream, decode loop, video surface) form a
// session that is exclusively owned by the controller. StopCamera is the
// single release path and is idempotent; every exit — user cancel, first
// successful decode, teardown, error recovery — routes through it. Closing
// the session is also what suppresses late decode callbacks: a callback
// whose session is no longer current has no effect, so the first successful
// decode triggers exactly one verification lookup no matter how many frames
// are still in flight.
//
// The camera, media-acquisition and verification capabilities are injected
// interfaces (see capability.go), so the controller is tested entirely with
// scripted fakes; the zbar subpackage binds them to real hardware.
//
// Failure taxonomy: absent devices, denied permissions and not-found
// verification outcomes are recoverable and become user-visible messages.
// Per-frame decode misses are not errors at all. Anything else from the
// decoder ends the session with a generic scanning message.
package scan
