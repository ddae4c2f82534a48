// Package record manages a push-to-talk audio capture session against an
// exclusive input device. It buffers chunks in arrival order and finalizes
// them into a single blob when the user releases the mic.
package record

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/virtualgoa/guidechat/internal/media"
)

var (
	// ErrDeviceUnavailable is returned when the input device cannot be
	// acquired (no device, or permission denied).
	ErrDeviceUnavailable = errors.New("record: audio input unavailable")

	// ErrBusy is returned when Start is called while a capture is already
	// running.
	ErrBusy = errors.New("record: capture already in progress")
)

// State is the recorder's lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateCapturing
	StateFinalizing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateFinalizing:
		return "finalizing"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Device is an exclusive audio-input handle. Chunks delivers captured data
// in arrival order; the channel must be closed once Close is called and the
// device drained. Close releases the hardware and must be safe to call once.
type Device interface {
	Chunks() <-chan []byte
	Close() error
}

// Opener acquires an input device. Implementations live at the platform
// boundary; tests inject fakes.
type Opener interface {
	Open(ctx context.Context) (Device, error)
}

// Recorder is the push-to-talk state machine: idle → capturing → finalizing
// → idle. At most one capture at a time; the device handle is released on
// every exit path.
type Recorder struct {
	opener Opener
	mime   string

	mu      sync.Mutex
	state   State
	dev     Device
	chunks  [][]byte
	drained chan struct{}
}

// New builds a Recorder. mime tags the finalized blob; empty selects the
// audio default.
func New(opener Opener, mime string) *Recorder {
	if mime == "" {
		mime = media.DefaultMIME(media.Audio)
	}
	return &Recorder{opener: opener, mime: mime}
}

// State reports the current phase.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start acquires the device and begins buffering chunks. On failure the
// recorder stays idle and no device is held.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateIdle {
		return ErrBusy
	}
	dev, err := r.opener.Open(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	r.dev = dev
	r.chunks = nil
	r.drained = make(chan struct{})
	r.state = StateCapturing
	go r.drain(dev, r.drained)
	return nil
}

// drain buffers chunks until the device's stream ends. Empty chunks are
// dropped.
func (r *Recorder) drain(dev Device, done chan struct{}) {
	defer close(done)
	for c := range dev.Chunks() {
		if len(c) == 0 {
			continue
		}
		r.mu.Lock()
		r.chunks = append(r.chunks, c)
		r.mu.Unlock()
	}
}

// Stop releases the device, concatenates the buffered chunks in original
// order, and returns the completed blob. Calling Stop while idle is a no-op
// returning (nil, nil). The device is released even when finalization is
// cut short by ctx; the recorder then stays in finalizing until the chunk
// stream ends and only returns to idle afterwards.
func (r *Recorder) Stop(ctx context.Context) (*media.Blob, error) {
	dev, drained, ok := r.beginFinalize()
	if !ok {
		return nil, nil
	}
	// Release unconditionally; closing also terminates the chunk stream.
	_ = dev.Close()

	select {
	case <-drained:
	case <-ctx.Done():
		// The device is already released, so the chunk stream ends on its
		// own. Stay in finalizing and defer the reset until it does; a
		// late chunk must not land in a later capture's buffer.
		go func() {
			<-drained
			r.reset()
		}()
		return nil, ctx.Err()
	}

	r.mu.Lock()
	var buf bytes.Buffer
	for _, c := range r.chunks {
		buf.Write(c)
	}
	r.mu.Unlock()
	r.reset()

	blob := media.FromBytes(r.mime, buf.Bytes())
	return &blob, nil
}

// Abort releases the device and discards any buffered audio. Used when the
// owning conversation is closed mid-capture. No-op while idle.
func (r *Recorder) Abort() {
	dev, drained, ok := r.beginFinalize()
	if !ok {
		return
	}
	_ = dev.Close()
	<-drained
	r.reset()
}

func (r *Recorder) beginFinalize() (Device, chan struct{}, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateCapturing {
		return nil, nil, false
	}
	r.state = StateFinalizing
	return r.dev, r.drained, true
}

func (r *Recorder) reset() {
	r.mu.Lock()
	r.state = StateIdle
	r.dev = nil
	r.chunks = nil
	r.drained = nil
	r.mu.Unlock()
}
