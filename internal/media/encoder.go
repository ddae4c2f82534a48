// Package media converts captured binary blobs (microphone audio, picked
// image files) into the transport-safe form embedded in outbound requests.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// ErrEncoding is returned when a blob's underlying source cannot be read.
// The failure propagates to the caller so a malformed request is never sent.
var ErrEncoding = errors.New("media: blob unreadable")

// Kind selects the default MIME type applied when a blob does not declare one.
type Kind int

const (
	Audio Kind = iota
	Image
)

// DefaultMIME returns the fallback MIME type for k.
func DefaultMIME(k Kind) string {
	if k == Audio {
		return "audio/webm"
	}
	return "image/jpeg"
}

// Blob is a one-shot binary source with its declared MIME type. MIME may be
// empty; the encoder substitutes the kind's default.
type Blob struct {
	MIME   string
	Source io.Reader
}

// FromBytes wraps an in-memory byte slice as a Blob.
func FromBytes(mime string, data []byte) Blob {
	return Blob{MIME: mime, Source: bytes.NewReader(data)}
}

// Encoded is base64 content tagged with its resolved MIME type, ready to be
// placed in a request as inline media.
type Encoded struct {
	MIME string
	Data string
}

// Bytes decodes the base64 payload back into raw bytes.
func (e Encoded) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(e.Data)
}

// Encode drains the blob and base64-encodes it. It fails with ErrEncoding
// when the source cannot be read; the partial read is discarded.
func Encode(ctx context.Context, blob Blob, kind Kind) (Encoded, error) {
	if err := ctx.Err(); err != nil {
		return Encoded{}, err
	}
	if blob.Source == nil {
		return Encoded{}, fmt.Errorf("%w: nil source", ErrEncoding)
	}
	raw, err := io.ReadAll(blob.Source)
	if err != nil {
		return Encoded{}, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	mime := blob.MIME
	if mime == "" {
		mime = DefaultMIME(kind)
	}
	return Encoded{
		MIME: mime,
		Data: base64.StdEncoding.EncodeToString(raw),
	}, nil
}
