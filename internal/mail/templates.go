package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

// NewMessageData fills the new-message email
type NewMessageData struct {
	RecipientName string
	SenderName    string
	IssueID       uint
	IssueTitle    string
	MessageText   string
	ClientURL     string
}

func (d NewMessageData) IssueURL() string {
	return fmt.Sprintf("%s/issues/%d", d.ClientURL, d.IssueID)
}

func (d NewMessageData) SettingsURL() string {
	return d.ClientURL + "/settings"
}

var newMessageTemplate = template.Must(template.New("new-message").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">New message about your maintenance request</h2>
  <p>Hi {{.RecipientName}},</p>
  <p>{{.SenderName}} replied to <strong>{{.IssueTitle}}</strong>:</p>
  <blockquote style="border-left: 4px solid #2563eb; margin: 16px 0; padding: 8px 16px; background: #f3f4f6;">{{.MessageText}}</blockquote>
  <p><a href="{{.IssueURL}}" style="background: #2563eb; color: #fff; padding: 10px 20px; text-decoration: none; border-radius: 4px;">View Issue</a></p>
  <p style="font-size: 12px; color: #6b7280;">You are receiving this because email notifications are on. <a href="{{.SettingsURL}}">Manage preferences</a>.</p>
</body>
</html>`))

// RenderNewMessage returns the subject and HTML body of a new-message email
func RenderNewMessage(d NewMessageData) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := newMessageTemplate.Execute(&buf, d); err != nil {
		return "", "", fmt.Errorf("failed to render new-message email: %w", err)
	}
	return fmt.Sprintf("New message on: %s", d.IssueTitle), buf.String(), nil
}
