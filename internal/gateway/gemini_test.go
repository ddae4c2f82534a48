package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/virtualgoa/guidechat/catalog"
	"github.com/virtualgoa/guidechat/internal/convo"
	"github.com/virtualgoa/guidechat/internal/media"
	"github.com/virtualgoa/guidechat/internal/request"
)

func TestContentsFor_HistoryThenCurrent(t *testing.T) {
	s, ok := catalog.ByID("basilica-bom-jesus")
	require.True(t, ok)

	history := []convo.Message{
		{Role: convo.RoleAssistant, Text: "Welcome."},
		{Role: convo.RoleUser, Text: "Tell me more."},
	}
	enc, err := media.Encode(context.Background(), media.FromBytes("image/png", []byte{1, 2, 3}), media.Image)
	require.NoError(t, err)

	req, err := request.Build(s, history, "what is this?", &enc, nil)
	require.NoError(t, err)

	contents, err := contentsFor(req)
	require.NoError(t, err)
	require.Len(t, contents, 3)

	assert.Equal(t, genai.RoleModel, contents[0].Role)
	assert.Equal(t, genai.RoleUser, contents[1].Role)

	current := contents[2]
	require.Len(t, current.Parts, 2)
	require.NotNil(t, current.Parts[0].InlineData)
	assert.Equal(t, "image/png", current.Parts[0].InlineData.MIMEType)
	assert.Equal(t, []byte{1, 2, 3}, current.Parts[0].InlineData.Data)
	assert.Equal(t, "what is this?", current.Parts[1].Text)
}
