// Package guidechat is the conversation core of a multimodal tour guide:
// it keeps an ordered message log per point of interest, turns text, image
// and microphone input into one outbound request, and reconciles the
// AI-generated reply back into the timeline without ever corrupting
// ordering or losing user input on failure.
package guidechat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/virtualgoa/guidechat/catalog"
	"github.com/virtualgoa/guidechat/internal/convo"
	"github.com/virtualgoa/guidechat/internal/gateway"
	"github.com/virtualgoa/guidechat/internal/media"
	"github.com/virtualgoa/guidechat/internal/platform/logger"
	"github.com/virtualgoa/guidechat/internal/record"
	"github.com/virtualgoa/guidechat/internal/request"
	"github.com/virtualgoa/guidechat/internal/shardqueue"
)

// sender is the gateway surface the orchestrator drives. The concrete
// gateway never returns an error: faults resolve to fallback text.
type sender interface {
	Send(ctx context.Context, req *request.Request) string
}

// Client orchestrates one active conversation at a time. Sends are
// serialized per conversation by the internal executor: the whole round
// trip (commit user turn, build request, call the provider, commit the
// reply) runs as a single job keyed by conversation ID, so a queued second
// send never interleaves mid-request.
type Client struct {
	gw   sender
	exec executor
	rec  *record.Recorder
	log  zerolog.Logger
	http *http.Client

	model          string
	requestTimeout time.Duration
	opener         record.Opener

	mu       sync.Mutex
	conv     *convo.Conversation
	pending  *attachment    // at most one staged image
	inflight map[string]int // unfinished send jobs per conversation ID

	closedOnce uint32 // ensures Close is idempotent
}

// attachment is an image staged for the next send. The raw blob is held
// until submission so an unreadable file fails the send, not the attach.
type attachment struct {
	blob media.Blob
	uri  string // opaque displayable handle kept on the message
}

// New constructs a Client talking to the Gemini API with the given key.
// Additional options can be provided via functional arguments.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		panic("apiKey cannot be empty")
	}

	c := &Client{
		http:           &http.Client{Timeout: 30 * time.Second},
		log:            logger.New("guidechat"),
		model:          gateway.DefaultModel,
		requestTimeout: gateway.DefaultTimeout,
		opener:         unavailableOpener{},
		inflight:       make(map[string]int),
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}

	if c.exec == nil {
		cfg, err := shardqueue.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("guidechat: executor config: %w", err)
		}
		cfg.ErrorHandler = func(err error) {
			c.log.Error().Err(err).Msg("send job failed")
		}
		c.exec = shardqueue.NewShardExecutor(cfg)
	}
	if c.gw == nil {
		provider, err := gateway.NewGemini(ctx, apiKey, c.model, c.http)
		if err != nil {
			return nil, fmt.Errorf("guidechat: provider init: %w", err)
		}
		c.gw = gateway.New(provider, c.requestTimeout, c.log)
	}
	c.rec = record.New(c.opener, media.DefaultMIME(media.Audio))

	return c, nil
}

// Subjects lists the built-in points of interest.
func Subjects() []Subject { return catalog.Subjects() }

// Open starts a fresh conversation about subject, seeded with its greeting.
// Any previous conversation is discarded: its queued sends resolve as
// no-ops, and a recording in progress is aborted with the device released.
func (c *Client) Open(subject Subject) error {
	conv, err := convo.New(subject)
	if err != nil {
		return err
	}
	c.rec.Abort()
	c.mu.Lock()
	if c.conv != nil {
		c.conv.Discard()
	}
	c.conv = conv
	c.pending = nil
	c.mu.Unlock()
	c.log.Debug().Str("conversation_id", conv.ID()).Str("subject", subject.ID).Msg("conversation opened")
	return nil
}

// CloseSubject discards the active conversation, if any. Replies still in
// flight for it are dropped when they resolve.
func (c *Client) CloseSubject() {
	c.rec.Abort()
	c.mu.Lock()
	if c.conv != nil {
		c.conv.Discard()
		c.conv = nil
	}
	c.pending = nil
	c.mu.Unlock()
}

// Close discards the conversation and stops the background executor,
// draining queued sends first. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.CloseSubject()
	if c.exec != nil {
		c.exec.Stop()
	}
	return nil
}

// Messages returns a read-only copy of the active conversation's log in
// append order, or nil when no subject is open.
func (c *Client) Messages() []Message {
	c.mu.Lock()
	conv := c.conv
	c.mu.Unlock()
	if conv == nil {
		return nil
	}
	return conv.Snapshot()
}

// AwaitingReply reports whether the active conversation has sends that have
// not resolved yet.
func (c *Client) AwaitingReply() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conv == nil {
		return false
	}
	return c.inflight[c.conv.ID()] > 0
}

// AwaitIdle blocks until every send submitted before the call has resolved
// for the active conversation. It submits a no-op job and waits for it to
// run, relying on per-key FIFO ordering.
func (c *Client) AwaitIdle(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	conv := c.conv
	c.mu.Unlock()
	if conv == nil {
		return ErrNoSubject
	}
	done := make(chan struct{})
	j := shardqueue.JobFunc(func(context.Context) error {
		close(done)
		return nil
	})
	if err := c.exec.Submit(ctx, conv.ID(), j); err != nil {
		return translateSubmitErr(err)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// AttachImage stages an image for the next send, replacing any previous
// attachment. displayURI is an opaque handle the rendering layer can show;
// the bytes themselves are read and encoded at send time.
func (c *Client) AttachImage(blob Blob, displayURI string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conv == nil {
		return ErrNoSubject
	}
	c.pending = &attachment{blob: blob, uri: displayURI}
	return nil
}

// ClearAttachment drops the staged image, if any.
func (c *Client) ClearAttachment() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

// Attachment returns the staged image's display handle.
func (c *Client) Attachment() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return "", false
	}
	return c.pending.uri, true
}

// SendText submits a user turn made of text plus any staged image.
//
// The turn is validated and its media encoded before anything is enqueued:
// ErrInvalidMessage and ErrEncoding are synchronous, and on either the text
// buffer and attachment are untouched so the user can resubmit. Once
// accepted the attachment is consumed atomically and the round trip runs
// asynchronously; ErrBackPressure means the queue was full and nothing was
// consumed.
func (c *Client) SendText(ctx context.Context, text string) error {
	c.mu.Lock()
	conv := c.conv
	pending := c.pending
	c.mu.Unlock()
	if conv == nil {
		return ErrNoSubject
	}
	text = strings.TrimSpace(text)
	if text == "" && pending == nil {
		return ErrInvalidMessage
	}

	var image *media.Encoded
	var imageURI string
	if pending != nil {
		enc, err := media.Encode(ctx, pending.blob, media.Image)
		if err != nil {
			return err
		}
		image = &enc
		imageURI = pending.uri
	}

	msg := convo.UserMessage(text, imageURI, false)
	if err := c.enqueueSend(ctx, conv, msg, image, nil); err != nil {
		return err
	}

	// Consume the attachment only if it is still the one we sent.
	c.mu.Lock()
	if c.pending == pending {
		c.pending = nil
	}
	c.mu.Unlock()
	return nil
}

// StartRecording arms push-to-talk capture for the active conversation.
// Fails with ErrDeviceUnavailable when the microphone cannot be acquired;
// the recorder stays idle in that case.
func (c *Client) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	conv := c.conv
	c.mu.Unlock()
	if conv == nil {
		return ErrNoSubject
	}
	return c.rec.Start(ctx)
}

// StopRecording finalizes capture and immediately submits the captured
// audio through the same send path as a text turn. Calling it while idle is
// a no-op.
func (c *Client) StopRecording(ctx context.Context) error {
	blob, err := c.rec.Stop(ctx)
	if err != nil {
		return err
	}
	if blob == nil {
		return nil
	}
	c.mu.Lock()
	conv := c.conv
	c.mu.Unlock()
	if conv == nil {
		return ErrNoSubject
	}
	enc, err := media.Encode(ctx, *blob, media.Audio)
	if err != nil {
		return err
	}
	msg := convo.UserMessage("", "", true)
	return c.enqueueSend(ctx, conv, msg, nil, &enc)
}

// AbortRecording discards a capture in progress and releases the device.
func (c *Client) AbortRecording() { c.rec.Abort() }

// RecordingState exposes the capture state machine for rendering.
func (c *Client) RecordingState() RecordingState { return c.rec.State() }

// enqueueSend registers the send as in flight and hands the whole round
// trip to the executor, keyed by conversation ID.
//
// Acceptance is the commitment point: once the job is queued it must
// resolve observably (user turn plus reply or fallback, awaiting-reply
// flag cleared), so it is detached from the caller's context — a later
// cancellation cannot make an accepted turn vanish while the worker skips
// it. The provider call stays bounded by the gateway timeout.
func (c *Client) enqueueSend(ctx context.Context, conv *convo.Conversation, msg convo.Message, image, audio *media.Encoded) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := conv.ID()
	c.mu.Lock()
	c.inflight[id]++
	c.mu.Unlock()

	j := shardqueue.JobFunc(func(jobCtx context.Context) error {
		defer c.finishSend(id)
		c.runSend(jobCtx, conv, msg, image, audio)
		return nil
	})
	if err := c.exec.Submit(context.WithoutCancel(ctx), id, j); err != nil {
		c.finishSend(id)
		return translateSubmitErr(err)
	}
	sendsEnqueuedTotal.WithLabelValues(shardLabel(id)).Inc()
	return nil
}

// runSend executes one round trip. The user turn is committed before the
// provider call so it renders immediately; the reply (provider text or
// fallback) is committed on completion unless the conversation was
// discarded in the meantime.
func (c *Client) runSend(ctx context.Context, conv *convo.Conversation, msg convo.Message, image, audio *media.Encoded) {
	if conv.Discarded() {
		c.log.Debug().Str("conversation_id", conv.ID()).Msg("dropping send for discarded conversation")
		return
	}
	history := conv.Snapshot()
	if err := conv.Append(msg); err != nil {
		if !errors.Is(err, convo.ErrDiscarded) {
			c.log.Error().Err(err).Msg("user turn rejected")
		}
		return
	}

	var reply string
	req, err := request.Build(conv.Subject(), history, msg.Text, image, audio)
	if err != nil {
		// Contract violation; resolve like a transport failure so the
		// conversation keeps rendering.
		c.log.Error().Err(err).Msg("request assembly failed")
		reply = gateway.FallbackConnectivity
	} else {
		reply = c.gw.Send(ctx, req)
	}

	if err := conv.Append(convo.AssistantMessage(reply)); err != nil {
		if errors.Is(err, convo.ErrDiscarded) {
			c.log.Debug().Str("conversation_id", conv.ID()).Msg("dropping stale reply")
			return
		}
		c.log.Error().Err(err).Msg("reply rejected")
	}
}

func (c *Client) finishSend(convID string) {
	c.mu.Lock()
	if n := c.inflight[convID] - 1; n > 0 {
		c.inflight[convID] = n
	} else {
		delete(c.inflight, convID)
	}
	c.mu.Unlock()
}

// translateSubmitErr maps executor rejections onto the public taxonomy.
func translateSubmitErr(err error) error {
	if errors.Is(err, shardqueue.ErrQueueFull) {
		return fmt.Errorf("%w: %v", ErrBackPressure, err)
	}
	return err
}

// unavailableOpener is the default audio capability: every acquisition
// fails, keeping voice input disabled until WithAudioCapture wires a real
// device.
type unavailableOpener struct{}

func (unavailableOpener) Open(context.Context) (record.Device, error) {
	return nil, fmt.Errorf("%w: no capture device configured", record.ErrDeviceUnavailable)
}
