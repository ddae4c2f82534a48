// Package convo is the append-only message log for one open subject. It is
// the single source of truth for what the rendering layer shows.
package convo

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/virtualgoa/guidechat/catalog"
	"github.com/virtualgoa/guidechat/prompts"
)

var (
	// ErrInvalidMessage rejects a message with no text, no image and no
	// audio flag. Empty messages are never stored.
	ErrInvalidMessage = errors.New("convo: empty message")

	// ErrDiscarded rejects appends to a conversation whose subject has
	// been closed. Late AI replies hit this instead of a newer log.
	ErrDiscarded = errors.New("convo: conversation discarded")
)

// Role tags who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one immutable turn in a conversation. At least one of Text,
// ImageURI or Audio is always set.
type Message struct {
	ID        string
	Role      Role
	Text      string
	// ImageURI is an opaque displayable handle for an attached image; the
	// encoded bytes are not retained after transmission.
	ImageURI string
	// Audio records that the turn originated as spoken input.
	Audio     bool
	CreatedAt time.Time
}

// Empty reports whether the message violates the non-empty invariant.
func (m Message) Empty() bool {
	return m.Text == "" && m.ImageURI == "" && !m.Audio
}

// UserMessage builds a user turn.
func UserMessage(text, imageURI string, audio bool) Message {
	return Message{ID: uuid.NewString(), Role: RoleUser, Text: text, ImageURI: imageURI, Audio: audio}
}

// AssistantMessage builds an assistant turn.
func AssistantMessage(text string) Message {
	return Message{ID: uuid.NewString(), Role: RoleAssistant, Text: text}
}

// Conversation is the ordered log for exactly one subject. Created on
// subject-open, discarded on close; never persisted. Message 0 is always the
// synthesized greeting, so the log is never empty.
type Conversation struct {
	id      string
	subject catalog.Subject

	mu        sync.Mutex
	msgs      []Message
	lastAt    time.Time
	discarded bool
}

// New opens a conversation for subject and seeds it with the greeting.
func New(subject catalog.Subject) (*Conversation, error) {
	greeting, err := prompts.Greeting(subject)
	if err != nil {
		return nil, err
	}
	c := &Conversation{id: uuid.NewString(), subject: subject}
	if err := c.Append(AssistantMessage(greeting)); err != nil {
		return nil, err
	}
	return c, nil
}

// ID is the conversation's identity; send jobs key on it.
func (c *Conversation) ID() string { return c.id }

// Subject returns the subject this conversation grounds on.
func (c *Conversation) Subject() catalog.Subject { return c.subject }

// Append adds msg to the tail of the log. O(1); rejects empty messages and
// appends after Discard. Missing ID/CreatedAt are filled in, and timestamps
// are clamped so they never decrease within the log.
func (c *Conversation) Append(msg Message) error {
	if msg.Empty() {
		return ErrInvalidMessage
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.discarded {
		return ErrDiscarded
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	if msg.CreatedAt.Before(c.lastAt) {
		msg.CreatedAt = c.lastAt
	}
	c.lastAt = msg.CreatedAt
	c.msgs = append(c.msgs, msg)
	return nil
}

// Snapshot returns a read-only copy of the log for rendering.
func (c *Conversation) Snapshot() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.msgs))
	copy(out, c.msgs)
	return out
}

// Len reports the number of stored messages.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.msgs)
}

// Discard seals the log. Subsequent appends fail with ErrDiscarded;
// snapshots keep working so a closing UI can still render.
func (c *Conversation) Discard() {
	c.mu.Lock()
	c.discarded = true
	c.mu.Unlock()
}

// Discarded reports whether the conversation has been sealed.
func (c *Conversation) Discarded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.discarded
}
