// Package zbar binds the scan capabilities to real hardware on Linux:
// video devices are enumerated from /dev, media streams hold the device
// node open, and decoding shells out to the zbar project's zbarcam tool,
// which prints one line per detected code.
package zbar

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/biblioteka14/stacks/internal/scan"
)

const defaultCommand = "zbarcam"

var videoNodePattern = regexp.MustCompile(`^video[0-9]+$`)

// Decoder implements scan.Decoder on top of zbarcam. The zero value uses
// /dev for enumeration and the zbarcam binary from PATH.
type Decoder struct {
	// Command overrides the decoder binary. Empty means zbarcam.
	Command string
	// Args overrides the decoder flags. Nil means --raw --nodisplay.
	Args []string
	// DevDir overrides the device directory. Empty means /dev.
	DevDir string
}

var _ scan.Decoder = (*Decoder)(nil)

// ListVideoInputDevices enumerates /dev/video* nodes in stable order.
func (d *Decoder) ListVideoInputDevices(_ context.Context) ([]scan.Device, error) {
	dir := d.DevDir
	if dir == "" {
		dir = "/dev"
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read device dir: %w", err)
	}

	var devices []scan.Device
	for _, entry := range entries {
		name := entry.Name()
		if !videoNodePattern.MatchString(name) {
			continue
		}
		devices = append(devices, scan.Device{
			ID:    filepath.Join(dir, name),
			Label: name,
		})
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].ID < devices[j].ID })
	return devices, nil
}

// DecodeFromVideoDevice starts a zbarcam subprocess against the device and
// forwards each printed line as a decode result. The returned closer kills
// the subprocess; it never waits for an in-flight callback.
func (d *Decoder) DecodeFromVideoDevice(deviceID string, _ scan.Surface, fn scan.DecodeFunc) (io.Closer, error) {
	command := d.Command
	if command == "" {
		command = defaultCommand
	}
	args := d.Args
	if args == nil {
		args = []string{"--raw", "--nodisplay"}
	}
	args = append(append([]string{}, args...), deviceID)

	cmd := exec.Command(command, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("decoder stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start decoder: %w", err)
	}

	loop := &decodeLoop{cmd: cmd}
	go loop.run(stdout, fn)
	return loop, nil
}

// decodeLoop owns one zbarcam subprocess.
type decodeLoop struct {
	cmd *exec.Cmd

	mu     sync.Mutex
	closed bool
}

func (l *decodeLoop) run(stdout io.Reader, fn scan.DecodeFunc) {
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if l.isClosed() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			fn(nil, scan.ErrNoCode)
			continue
		}
		fn(&scan.DecodeResult{Text: text}, nil)
	}

	err := scanner.Err()
	waitErr := l.cmd.Wait()
	if l.isClosed() {
		return
	}
	// The stream ended without Close: the decoder died underneath us.
	if err == nil {
		err = waitErr
	}
	if err == nil {
		err = fmt.Errorf("decoder exited")
	}
	fn(nil, fmt.Errorf("decoder stream ended: %w", err))
}

func (l *decodeLoop) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Close halts the loop by killing the subprocess. Safe to call repeatedly
// and from decode callbacks.
func (l *decodeLoop) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	if l.cmd.Process != nil {
		// Best effort; the process may already have exited.
		_ = l.cmd.Process.Kill()
	}
	return nil
}

// Media implements scan.MediaOpener by holding the device node open for the
// lifetime of the stream. Closing the track releases the claim.
type Media struct{}

var _ scan.MediaOpener = Media{}

// OpenStream claims the device node. Permission problems surface here, the
// way stream acquisition rejections do on any platform.
func (Media) OpenStream(_ context.Context, c scan.Constraints) (scan.Stream, error) {
	if strings.TrimSpace(c.DeviceID) == "" {
		return nil, fmt.Errorf("device id required")
	}
	f, err := os.OpenFile(c.DeviceID, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open device %s: %w", c.DeviceID, err)
	}
	return &deviceStream{track: &deviceTrack{file: f}}, nil
}

type deviceStream struct {
	track *deviceTrack
}

func (s *deviceStream) Tracks() []scan.Track {
	return []scan.Track{s.track}
}

type deviceTrack struct {
	mu   sync.Mutex
	file *os.File
}

func (t *deviceTrack) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file != nil {
		_ = t.file.Close()
		t.file = nil
	}
}
