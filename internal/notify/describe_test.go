package notify

import (
	"strconv"
	"strings"
	"testing"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/lifecycle"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/stretchr/testify/assert"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestDescribe(t *testing.T) {
	issue := &models.Issue{ID: 1, Title: "Leak", Category: "PLUMBING", Priority: models.PriorityHigh, Status: models.StatusInProgress}

	tests := []struct {
		nt    models.NotificationType
		title string
		text  string
	}{
		{models.NotificationIssueCreated, "New Issue Reported", `A new plumbing issue was reported: "Leak" (HIGH priority)`},
		{models.NotificationIssueAcknowledged, "Issue Acknowledged", `Your issue "Leak" has been acknowledged and is now in progress`},
		{models.NotificationIssueResolved, "Issue Resolved", `Your issue "Leak" has been marked as resolved. Please confirm the repair.`},
		{models.NotificationIssueClosed, "Issue Closed", `Your issue "Leak" has been closed`},
		{models.NotificationIssueStatusChanged, "Issue Status Updated", `Your issue "Leak" is now IN PROGRESS`},
		{models.NotificationIssuePriorityChanged, "Issue Priority Updated", `The priority of your issue "Leak" is now HIGH`},
	}
	for _, tt := range tests {
		title, text := describe(lifecycle.IssueUpdated(issue, tt.nt, 2, models.RoleLandlord))
		assert.Equal(t, tt.title, title, tt.nt)
		assert.Equal(t, tt.text, text, tt.nt)
	}
}

func TestDescribeMessagePreview(t *testing.T) {
	issue := &models.Issue{ID: 1, Title: "Leak"}
	long := strings.Repeat("é", 150)
	_, text := describe(lifecycle.MessageSent(issue, &models.Message{ID: 3, SenderID: 2, SenderType: models.RoleLandlord, MessageText: long}))

	assert.Equal(t, `New message on "Leak": `+strings.Repeat("é", 100)+"...", text)
}
