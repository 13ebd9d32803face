package lifecycle

import (
	"testing"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestEventsCarryUniqueIDs(t *testing.T) {
	issue := &models.Issue{ID: 3, UserID: 1, ComplexID: 2, Title: "Leak"}
	a := IssueCreated(issue, 1, models.RoleTenant)
	b := IssueCreated(issue, 1, models.RoleTenant)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, EventIssueCreated, a.Kind)
	assert.Equal(t, models.NotificationIssueCreated, a.Type)

	msg := &models.Message{ID: 5, IssueID: 3, SenderID: 4, SenderType: models.RoleLandlord}
	m := MessageSent(issue, msg)
	assert.Equal(t, uint(4), m.ActorID)
	assert.Equal(t, models.RoleLandlord, m.ActorRole)
	msg.MessageText = "changed after the event was built"
	assert.Empty(t, m.Message.MessageText)
}
