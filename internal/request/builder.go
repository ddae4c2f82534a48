// Package request assembles provider-neutral generation requests from
// conversation history, the current user turn and the subject's grounding
// context. Construction is pure; media arrives already encoded.
package request

import (
	"errors"

	"github.com/virtualgoa/guidechat/catalog"
	"github.com/virtualgoa/guidechat/internal/convo"
	"github.com/virtualgoa/guidechat/internal/media"
	"github.com/virtualgoa/guidechat/prompts"
)

// ErrEmptyRequest signals a current turn with zero content parts. UI-level
// validation is supposed to make this unreachable.
var ErrEmptyRequest = errors.New("request: current turn has no parts")

// History turns carry a text placeholder when the original message had no
// text, so the provider always receives at least one part per turn.
const (
	AudioPlaceholder = "[Audio Input]"
	ImagePlaceholder = "[Image Input]"
)

// Part is a closed variant: either TextPart or InlinePart. The sealed
// interface keeps ordering and emptiness rules exhaustively checkable.
type Part interface{ isPart() }

// TextPart is plain text content.
type TextPart struct {
	Text string
}

func (TextPart) isPart() {}

// InlinePart is mime-tagged base64 media embedded in the request.
type InlinePart struct {
	MIME string
	Data string
}

func (InlinePart) isPart() {}

// Turn is one role-tagged unit of content sent to the provider.
type Turn struct {
	Role  convo.Role
	Parts []Part
}

// Request is everything the gateway needs for one generation call.
type Request struct {
	System  string
	History []Turn
	Current Turn
}

// Build renders the system instruction for subject, converts history into
// provider-neutral turns, and assembles the current turn's parts in fixed
// order: audio, then image, then text. Fails with ErrEmptyRequest when the
// current turn would be empty.
func Build(subject catalog.Subject, history []convo.Message, text string, image, audio *media.Encoded) (*Request, error) {
	system, err := prompts.SystemInstruction(subject)
	if err != nil {
		return nil, err
	}

	turns := make([]Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, historyTurn(m))
	}

	var parts []Part
	if audio != nil {
		parts = append(parts, InlinePart{MIME: audio.MIME, Data: audio.Data})
	}
	if image != nil {
		parts = append(parts, InlinePart{MIME: image.MIME, Data: image.Data})
	}
	if text != "" {
		parts = append(parts, TextPart{Text: text})
	}
	if len(parts) == 0 {
		return nil, ErrEmptyRequest
	}

	return &Request{
		System:  system,
		History: turns,
		Current: Turn{Role: convo.RoleUser, Parts: parts},
	}, nil
}

func historyTurn(m convo.Message) Turn {
	text := m.Text
	if text == "" {
		if m.Audio {
			text = AudioPlaceholder
		} else {
			text = ImagePlaceholder
		}
	}
	return Turn{Role: m.Role, Parts: []Part{TextPart{Text: text}}}
}
