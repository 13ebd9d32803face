//go:build integration

package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/config"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/devstack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSendThroughRelay delivers a rendered new-message email to a real SMTP catcher
func TestSendThroughRelay(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	stack, err := devstack.Start(ctx, devstack.Options{DBType: "postgres", Mail: true, Logf: t.Logf})
	require.NoError(t, err)
	defer stack.Terminate(ctx, t.Logf)

	host, port := stack.SMTP()
	mailer := NewSMTPMailer(&config.Config{SMTPHost: host, SMTPPort: port, MailFrom: "tracker@example.com"})

	subject, body, err := RenderNewMessage(NewMessageData{
		RecipientName: "John",
		SenderName:    "Jane Smith",
		IssueID:       7,
		IssueTitle:    "Leaky faucet",
		MessageText:   "A plumber comes Tuesday.",
		ClientURL:     "http://localhost:5173",
	})
	require.NoError(t, err)
	require.NoError(t, mailer.Send(ctx, "tenant@example.com", subject, body))

	var inbox struct {
		Total    int `json:"total"`
		Messages []struct {
			Subject string `json:"Subject"`
		} `json:"messages"`
	}
	require.Eventually(t, func() bool {
		resp, err := http.Get(stack.MailAPI() + "/api/v1/messages")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return json.NewDecoder(resp.Body).Decode(&inbox) == nil && inbox.Total > 0
	}, 10*time.Second, 200*time.Millisecond)

	assert.Equal(t, "New message on: Leaky faucet", inbox.Messages[0].Subject)
}
