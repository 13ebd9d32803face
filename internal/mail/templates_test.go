package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderNewMessage(t *testing.T) {
	subject, body, err := RenderNewMessage(NewMessageData{
		RecipientName: "John",
		SenderName:    "Jane Smith",
		IssueID:       7,
		IssueTitle:    "Leaky faucet",
		MessageText:   "Plumber arrives <tomorrow>",
		ClientURL:     "https://tracker.example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "New message on: Leaky faucet", subject)
	assert.Contains(t, body, "https://tracker.example.com/issues/7")
	assert.Contains(t, body, "https://tracker.example.com/settings")
	assert.Contains(t, body, "Plumber arrives &lt;tomorrow&gt;")
	assert.NotContains(t, body, "<tomorrow>")
}
