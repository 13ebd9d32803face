package notify

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/lifecycle"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
)

const previewLength = 100

// describe renders the title and text of a notification
func describe(e lifecycle.Event) (title, body string) {
	issue := e.Issue
	switch e.Type {
	case models.NotificationIssueCreated:
		return "New Issue Reported",
			fmt.Sprintf("A new %s issue was reported: %q (%s priority)", strings.ToLower(issue.Category), issue.Title, issue.Priority)
	case models.NotificationIssueAcknowledged:
		return "Issue Acknowledged",
			fmt.Sprintf("Your issue %q has been acknowledged and is now in progress", issue.Title)
	case models.NotificationIssueResolved:
		return "Issue Resolved",
			fmt.Sprintf("Your issue %q has been marked as resolved. Please confirm the repair.", issue.Title)
	case models.NotificationIssueClosed:
		return "Issue Closed",
			fmt.Sprintf("Your issue %q has been closed", issue.Title)
	case models.NotificationIssuePriorityChanged:
		return "Issue Priority Updated",
			fmt.Sprintf("The priority of your issue %q is now %s", issue.Title, issue.Priority)
	case models.NotificationMessageReceived:
		text := ""
		if e.Message != nil {
			text = preview(e.Message.MessageText)
		}
		return "New Message",
			fmt.Sprintf("New message on %q: %s", issue.Title, text)
	}
	return "Issue Status Updated",
		fmt.Sprintf("Your issue %q is now %s", issue.Title, strings.ReplaceAll(string(issue.Status), "_", " "))
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewLength]) + "..."
}
