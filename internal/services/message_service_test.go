package services

import (
	"testing"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/lifecycle"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/testutil"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	f := newFixture(t)
	issue := testutil.CreateIssue(t, f.db, f.tenant, "leak")

	msg, events, err := SendMessage(f.db, testutil.Actor(f.landlord), issue.ID, "  On my way  ")
	require.NoError(t, err)
	assert.Equal(t, "On my way", msg.MessageText)
	assert.Equal(t, models.RoleLandlord, msg.SenderType)
	require.NotNil(t, msg.Sender)
	assert.Equal(t, f.landlord.ID, msg.Sender.ID)

	require.Len(t, events, 1)
	assert.Equal(t, lifecycle.EventMessageSent, events[0].Kind)
	assert.Equal(t, msg.ID, events[0].Message.ID)
	assert.Equal(t, issue.ID, events[0].Issue.ID)

	_, _, err = SendMessage(f.db, testutil.Actor(f.tenant), issue.ID, "")
	assert.True(t, types.IsKind(err, types.KindValidationFailed))

	elsewhere := testutil.CreateComplex(t, f.db, "Harbor")
	farLandlord := testutil.CreateUser(t, f.db, models.RoleLandlord, &elsewhere.ID)
	_, _, err = SendMessage(f.db, testutil.Actor(farLandlord), issue.ID, "hi")
	assert.True(t, types.IsKind(err, types.KindForbidden))
}

func TestListAndDeleteMessages(t *testing.T) {
	f := newFixture(t)
	issue := testutil.CreateIssue(t, f.db, f.tenant, "leak")

	first, _, err := SendMessage(f.db, testutil.Actor(f.tenant), issue.ID, "first")
	require.NoError(t, err)
	_, _, err = SendMessage(f.db, testutil.Actor(f.landlord), issue.ID, "second")
	require.NoError(t, err)

	messages, err := ListMessages(f.db, testutil.Actor(f.tenant), issue.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].MessageText)
	assert.Equal(t, "second", messages[1].MessageText)

	err = DeleteMessage(f.db, testutil.Actor(f.landlord), first.ID)
	assert.True(t, types.IsKind(err, types.KindForbidden))

	require.NoError(t, f.db.Create(&models.Notification{
		UserID: f.landlord.ID, EventKey: "evt", Type: models.NotificationMessageReceived,
		Title: "New Message", Message: "first", IssueID: &issue.ID, RelatedMessageID: &first.ID,
	}).Error)

	require.NoError(t, DeleteMessage(f.db, testutil.Actor(f.tenant), first.ID))

	messages, err = ListMessages(f.db, testutil.Actor(f.landlord), issue.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	var n models.Notification
	require.NoError(t, f.db.Where("event_key = ?", "evt").First(&n).Error)
	assert.Nil(t, n.RelatedMessageID)

	err = DeleteMessage(f.db, testutil.Actor(f.admin), first.ID)
	assert.True(t, types.IsKind(err, types.KindNotFound))
}
