package record

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtualgoa/guidechat/internal/media"
)

func readAll(b *media.Blob) ([]byte, error) { return io.ReadAll(b.Source) }

// fakeDevice delivers pre-scripted chunks and counts Close calls.
type fakeDevice struct {
	ch     chan []byte
	closes int32
}

func newFakeDevice(chunks ...[]byte) *fakeDevice {
	d := &fakeDevice{ch: make(chan []byte, len(chunks))}
	for _, c := range chunks {
		d.ch <- c
	}
	return d
}

func (d *fakeDevice) Chunks() <-chan []byte { return d.ch }

func (d *fakeDevice) Close() error {
	if atomic.AddInt32(&d.closes, 1) == 1 {
		close(d.ch)
	}
	return nil
}

type fakeOpener struct {
	dev Device
	err error
}

func (o *fakeOpener) Open(context.Context) (Device, error) {
	if o.err != nil {
		return nil, o.err
	}
	return o.dev, nil
}

func TestRecorder_ConcatenatesChunksInOrder(t *testing.T) {
	dev := newFakeDevice([]byte("c1-"), []byte("c2"))
	r := New(&fakeOpener{dev: dev}, "")

	require.NoError(t, r.Start(context.Background()))
	assert.Equal(t, StateCapturing, r.State())

	blob, err := r.Stop(context.Background())
	require.NoError(t, err)
	require.NotNil(t, blob)
	assert.Equal(t, "audio/webm", blob.MIME)

	enc, err := readAll(blob)
	require.NoError(t, err)
	assert.Equal(t, "c1-c2", string(enc))

	assert.Equal(t, int32(1), atomic.LoadInt32(&dev.closes))
	assert.Equal(t, StateIdle, r.State())
}

func TestRecorder_StartFailsDeviceUnavailable(t *testing.T) {
	r := New(&fakeOpener{err: errors.New("permission denied")}, "")
	err := r.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
	assert.Equal(t, StateIdle, r.State())
}

func TestRecorder_StopWhileIdleIsNoop(t *testing.T) {
	r := New(&fakeOpener{}, "")
	blob, err := r.Stop(context.Background())
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestRecorder_StartWhileCapturing(t *testing.T) {
	dev := newFakeDevice()
	r := New(&fakeOpener{dev: dev}, "")
	require.NoError(t, r.Start(context.Background()))

	err := r.Start(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	_, err = r.Stop(context.Background())
	require.NoError(t, err)
}

func TestRecorder_EmptyChunksDropped(t *testing.T) {
	dev := newFakeDevice([]byte{}, []byte("audio"))
	r := New(&fakeOpener{dev: dev}, "audio/ogg")
	require.NoError(t, r.Start(context.Background()))

	blob, err := r.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "audio/ogg", blob.MIME)

	raw, err := readAll(blob)
	require.NoError(t, err)
	assert.Equal(t, "audio", string(raw))
}

// laggyDevice keeps its chunk stream open briefly after Close, delivering
// one last chunk before it ends.
type laggyDevice struct {
	ch     chan []byte
	closes int32
}

func (d *laggyDevice) Chunks() <-chan []byte { return d.ch }

func (d *laggyDevice) Close() error {
	if atomic.AddInt32(&d.closes, 1) == 1 {
		go func() {
			time.Sleep(20 * time.Millisecond)
			d.ch <- []byte("late")
			close(d.ch)
		}()
	}
	return nil
}

func TestRecorder_CutShortStopDoesNotLeakChunks(t *testing.T) {
	o := &fakeOpener{dev: &laggyDevice{ch: make(chan []byte, 1)}}
	r := New(o, "")
	require.NoError(t, r.Start(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	blob, err := r.Stop(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, blob)

	// Finalizing until the stream ends; a new capture cannot start yet.
	assert.Equal(t, StateFinalizing, r.State())
	assert.ErrorIs(t, r.Start(context.Background()), ErrBusy)

	require.Eventually(t, func() bool { return r.State() == StateIdle },
		time.Second, 5*time.Millisecond)

	// The late chunk stays with the abandoned session.
	o.dev = newFakeDevice([]byte("fresh"))
	require.NoError(t, r.Start(context.Background()))
	blob, err = r.Stop(context.Background())
	require.NoError(t, err)
	raw, err := readAll(blob)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(raw))
}

func TestRecorder_AbortReleasesDevice(t *testing.T) {
	dev := newFakeDevice([]byte("lost"))
	r := New(&fakeOpener{dev: dev}, "")
	require.NoError(t, r.Start(context.Background()))

	r.Abort()
	assert.Equal(t, StateIdle, r.State())
	assert.Equal(t, int32(1), atomic.LoadInt32(&dev.closes))

	// A new capture starts cleanly afterwards.
	dev2 := newFakeDevice([]byte("fresh"))
	r2 := New(&fakeOpener{dev: dev2}, "")
	require.NoError(t, r2.Start(context.Background()))
	blob, err := r2.Stop(context.Background())
	require.NoError(t, err)
	raw, err := readAll(blob)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(raw))
}
