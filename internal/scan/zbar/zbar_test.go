package zbar

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/biblioteka14/stacks/internal/scan"
)

func TestDecoder_ListVideoInputDevices(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"video2", "video0", "video10", "snd", "videotape", "null"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	d := &Decoder{DevDir: dir}
	devices, err := d.ListVideoInputDevices(context.Background())
	if err != nil {
		t.Fatalf("ListVideoInputDevices returned error: %v", err)
	}
	if len(devices) != 3 {
		t.Fatalf("devices = %#v, want 3 video nodes", devices)
	}
	if devices[0].Label != "video0" {
		t.Fatalf("first device = %#v, want video0", devices[0])
	}
	for _, dev := range devices {
		if filepath.Dir(dev.ID) != dir {
			t.Fatalf("device id %q not under %q", dev.ID, dir)
		}
	}
}

func TestDecoder_ListVideoInputDevicesEmptyDir(t *testing.T) {
	t.Parallel()

	d := &Decoder{DevDir: t.TempDir()}
	devices, err := d.ListVideoInputDevices(context.Background())
	if err != nil {
		t.Fatalf("ListVideoInputDevices returned error: %v", err)
	}
	if len(devices) != 0 {
		t.Fatalf("devices = %#v, want none", devices)
	}
}

func TestDecoder_DecodeForwardsLines(t *testing.T) {
	t.Parallel()

	source := filepath.Join(t.TempDir(), "frames")
	if err := os.WriteFile(source, []byte("9780131103627\n4601234567890\n"), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}

	var mu sync.Mutex
	var texts []string
	var errs []error
	done := make(chan struct{})

	// cat plays the decoder: each line is one detection, then EOF.
	d := &Decoder{Command: "cat", Args: []string{}}
	closer, err := d.DecodeFromVideoDevice(source, nil, func(result *scan.DecodeResult, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, err)
			select {
			case <-done:
			default:
				close(done)
			}
			return
		}
		texts = append(texts, result.Text)
	})
	if err != nil {
		t.Fatalf("DecodeFromVideoDevice returned error: %v", err)
	}
	t.Cleanup(func() { _ = closer.Close() })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("decode loop never reported stream end")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(texts) != 2 || texts[0] != "9780131103627" || texts[1] != "4601234567890" {
		t.Fatalf("texts = %#v", texts)
	}
	// EOF without Close is a hard failure, surfaced once.
	if len(errs) != 1 {
		t.Fatalf("errors = %#v, want exactly one stream-end error", errs)
	}
}

func TestDecodeLoop_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	source := filepath.Join(t.TempDir(), "frames")
	if err := os.WriteFile(source, []byte(""), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}

	d := &Decoder{Command: "cat", Args: []string{}}
	closer, err := d.DecodeFromVideoDevice(source, nil, func(*scan.DecodeResult, error) {})
	if err != nil {
		t.Fatalf("DecodeFromVideoDevice returned error: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
}

func TestMedia_OpenStreamClaimsAndReleasesDevice(t *testing.T) {
	t.Parallel()

	node := filepath.Join(t.TempDir(), "video0")
	if err := os.WriteFile(node, nil, 0o600); err != nil {
		t.Fatalf("write node: %v", err)
	}

	stream, err := Media{}.OpenStream(context.Background(), scan.Constraints{DeviceID: node, FacingMode: scan.FacingEnvironment})
	if err != nil {
		t.Fatalf("OpenStream returned error: %v", err)
	}
	tracks := stream.Tracks()
	if len(tracks) != 1 {
		t.Fatalf("tracks = %d, want 1", len(tracks))
	}
	tracks[0].Stop()
	tracks[0].Stop() // stopping twice is a no-op
}

func TestMedia_OpenStreamMissingDevice(t *testing.T) {
	t.Parallel()

	_, err := Media{}.OpenStream(context.Background(), scan.Constraints{DeviceID: filepath.Join(t.TempDir(), "video9")})
	if err == nil {
		t.Fatal("OpenStream succeeded on a missing device")
	}
	if _, err := (Media{}).OpenStream(context.Background(), scan.Constraints{}); err == nil {
		t.Fatal("OpenStream succeeded with empty device id")
	}
}
