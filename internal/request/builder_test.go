package request

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtualgoa/guidechat/catalog"
	"github.com/virtualgoa/guidechat/internal/convo"
	"github.com/virtualgoa/guidechat/internal/media"
)

func subject() catalog.Subject {
	return catalog.Subject{
		Name:             "Rachol Seminary",
		ShortDescription: "One of the oldest seminaries in Asia.",
		Context:          "Established in 1609, originally a fortress.",
	}
}

func encoded(t *testing.T, mime, payload string, kind media.Kind) *media.Encoded {
	t.Helper()
	enc, err := media.Encode(context.Background(), media.FromBytes(mime, []byte(payload)), kind)
	require.NoError(t, err)
	return &enc
}

func TestBuild_SystemInstructionEmbedsSubject(t *testing.T) {
	req, err := Build(subject(), nil, "hello", nil, nil)
	require.NoError(t, err)
	assert.Contains(t, req.System, "Rachol Seminary")
	assert.Contains(t, req.System, "Established in 1609")
}

func TestBuild_PartOrderAudioImageText(t *testing.T) {
	audio := encoded(t, "", "aud", media.Audio)
	image := encoded(t, "image/png", "img", media.Image)

	req, err := Build(subject(), nil, "what is this?", image, audio)
	require.NoError(t, err)
	require.Len(t, req.Current.Parts, 3)

	a, ok := req.Current.Parts[0].(InlinePart)
	require.True(t, ok)
	assert.Equal(t, "audio/webm", a.MIME)

	i, ok := req.Current.Parts[1].(InlinePart)
	require.True(t, ok)
	assert.Equal(t, "image/png", i.MIME)

	txt, ok := req.Current.Parts[2].(TextPart)
	require.True(t, ok)
	assert.Equal(t, "what is this?", txt.Text)
}

func TestBuild_EncodedMIMERoundTrip(t *testing.T) {
	image := encoded(t, "image/webp", "bytes", media.Image)
	req, err := Build(subject(), nil, "", image, nil)
	require.NoError(t, err)

	part := req.Current.Parts[0].(InlinePart)
	assert.Equal(t, "image/webp", part.MIME)

	raw, err := media.Encoded{MIME: part.MIME, Data: part.Data}.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(raw))
}

func TestBuild_EmptyCurrentTurn(t *testing.T) {
	_, err := Build(subject(), nil, "", nil, nil)
	assert.ErrorIs(t, err, ErrEmptyRequest)
}

func TestBuild_HistoryPlaceholders(t *testing.T) {
	history := []convo.Message{
		{Role: convo.RoleAssistant, Text: "Welcome."},
		{Role: convo.RoleUser, Audio: true},
		{Role: convo.RoleUser, ImageURI: "blob:1234"},
	}
	req, err := Build(subject(), history, "next", nil, nil)
	require.NoError(t, err)
	require.Len(t, req.History, 3)

	assert.Equal(t, TextPart{Text: "Welcome."}, req.History[0].Parts[0])
	assert.Equal(t, TextPart{Text: AudioPlaceholder}, req.History[1].Parts[0])
	assert.Equal(t, TextPart{Text: ImagePlaceholder}, req.History[2].Parts[0])

	for _, turn := range req.History {
		assert.NotEmpty(t, turn.Parts)
	}
}
