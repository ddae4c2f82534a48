package guidechat

import (
	"errors"

	"github.com/virtualgoa/guidechat/internal/convo"
	"github.com/virtualgoa/guidechat/internal/media"
	"github.com/virtualgoa/guidechat/internal/record"
	"github.com/virtualgoa/guidechat/internal/request"
)

// ErrNoSubject is returned when a conversation operation is attempted
// before Open.
var ErrNoSubject = errors.New("guidechat: no open subject")

// ErrBackPressure is returned when the client's internal send queue is full.
var ErrBackPressure = errors.New("guidechat: back-pressure (queue full)")

// IsBackPressure reports whether err is a back-pressure error.
func IsBackPressure(err error) bool { return errors.Is(err, ErrBackPressure) }

// Re-export component errors so callers compare against a single package.
var (
	// ErrInvalidMessage rejects an empty submission before any I/O.
	ErrInvalidMessage = convo.ErrInvalidMessage
	// ErrEncoding means attached media could not be read; the typed text
	// is preserved for resubmission.
	ErrEncoding = media.ErrEncoding
	// ErrDeviceUnavailable means the microphone could not be acquired.
	ErrDeviceUnavailable = record.ErrDeviceUnavailable
	// ErrEmptyRequest is the builder's contract-violation sentinel.
	ErrEmptyRequest = request.ErrEmptyRequest
)
