package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_UsesCustomEmitterAndConversation(t *testing.T) {
	var got []Notice
	SetCustomEmitter(func(ctx context.Context, n Notice) { got = append(got, n) })
	t.Cleanup(func() { SetCustomEmitter(nil) })

	ctx := WithConversation(context.Background(), "default")
	Notify(ctx, NewError("Failed to generate AI response."))

	require.Len(t, got, 1)
	assert.Equal(t, NoticeError, got[0].Type)
	assert.Equal(t, "default", got[0].ConversationID)
	assert.NotEmpty(t, got[0].ID)
}

func TestWithConversation_IgnoresBlank(t *testing.T) {
	ctx := WithConversation(context.Background(), "  ")
	assert.Equal(t, "", ConversationFromContext(ctx))
}

func TestPublish_DisabledByDefault(t *testing.T) {
	SetCustomPublisher(nil)
	Publish(context.Background(), ChatMessageAdded, "ignored")

	var names []string
	SetCustomPublisher(func(ctx context.Context, name string, payload any) { names = append(names, name) })
	t.Cleanup(func() { SetCustomPublisher(nil) })
	Publish(context.Background(), ChatTypingChanged, true)

	assert.Equal(t, []string{ChatTypingChanged}, names)
}
