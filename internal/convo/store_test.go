package convo

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtualgoa/guidechat/catalog"
)

func basilica(t *testing.T) catalog.Subject {
	t.Helper()
	s, ok := catalog.ByID("basilica-bom-jesus")
	require.True(t, ok)
	return s
}

func TestNew_SeedsGreeting(t *testing.T) {
	c, err := New(basilica(t))
	require.NoError(t, err)

	msgs := c.Snapshot()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleAssistant, msgs[0].Role)
	assert.True(t, strings.HasPrefix(msgs[0].Text, "Welcome to Basilica of Bom Jesus."), msgs[0].Text)
	assert.NotEmpty(t, msgs[0].ID)
}

func TestAppend_RejectsEmpty(t *testing.T) {
	c, err := New(basilica(t))
	require.NoError(t, err)

	err = c.Append(Message{Role: RoleUser})
	assert.ErrorIs(t, err, ErrInvalidMessage)
	assert.Equal(t, 1, c.Len())
}

func TestAppend_AudioOnlyIsValid(t *testing.T) {
	c, err := New(basilica(t))
	require.NoError(t, err)

	require.NoError(t, c.Append(UserMessage("", "", true)))
	msgs := c.Snapshot()
	assert.True(t, msgs[1].Audio)
	assert.Empty(t, msgs[1].Text)
}

func TestAppend_TimestampsNeverDecrease(t *testing.T) {
	c, err := New(basilica(t))
	require.NoError(t, err)

	future := time.Now().Add(time.Hour)
	require.NoError(t, c.Append(Message{Role: RoleUser, Text: "a", CreatedAt: future}))
	require.NoError(t, c.Append(Message{Role: RoleUser, Text: "b", CreatedAt: future.Add(-time.Minute)}))

	msgs := c.Snapshot()
	assert.False(t, msgs[2].CreatedAt.Before(msgs[1].CreatedAt))
}

func TestSnapshot_IsACopy(t *testing.T) {
	c, err := New(basilica(t))
	require.NoError(t, err)

	snap := c.Snapshot()
	snap[0].Text = "mutated"
	assert.NotEqual(t, "mutated", c.Snapshot()[0].Text)
}

func TestDiscard_SealsAppends(t *testing.T) {
	c, err := New(basilica(t))
	require.NoError(t, err)

	c.Discard()
	assert.True(t, c.Discarded())
	err = c.Append(UserMessage("late reply", "", false))
	assert.ErrorIs(t, err, ErrDiscarded)
	assert.Equal(t, 1, c.Len())
}
