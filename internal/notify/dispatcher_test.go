package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/services"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type env struct {
	db        *gorm.DB
	mailer    *testutil.FakeMailer
	publisher *testutil.FakePublisher
	d         *Dispatcher
	complex   *models.Complex
	tenant    *models.User
	landlords []*models.User
}

func newEnv(t *testing.T, tenantOpts ...testutil.UserOption) *env {
	db := testutil.NewDB(t)
	c := testutil.CreateComplex(t, db, "Sunset")
	e := &env{
		db:        db,
		mailer:    &testutil.FakeMailer{},
		publisher: &testutil.FakePublisher{},
		complex:   c,
		tenant:    testutil.CreateUser(t, db, models.RoleTenant, &c.ID, tenantOpts...),
		landlords: []*models.User{
			testutil.CreateUser(t, db, models.RoleLandlord, &c.ID),
			testutil.CreateUser(t, db, models.RoleLandlord, &c.ID),
		},
	}
	e.d = New(db, e.mailer, e.publisher, "https://tracker.example.com", zap.NewNop())
	return e
}

func (e *env) rowsFor(t *testing.T, userID uint) []models.Notification {
	var rows []models.Notification
	require.NoError(t, e.db.Where("user_id = ?", userID).Find(&rows).Error)
	return rows
}

func TestIssueCreatedNotifiesEveryLandlord(t *testing.T) {
	e := newEnv(t)
	elsewhere := testutil.CreateComplex(t, e.db, "Harbor")
	farLandlord := testutil.CreateUser(t, e.db, models.RoleLandlord, &elsewhere.ID)

	_, events, err := services.CreateIssue(e.db, testutil.Actor(e.tenant), services.IssueInput{
		Title: "Leak", Description: "Sink drips", Category: "PLUMBING", Location: "Kitchen",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, e.d.Dispatch(context.Background(), events...))
	for _, l := range e.landlords {
		rows := e.rowsFor(t, l.ID)
		require.Len(t, rows, 1)
		assert.Equal(t, models.NotificationIssueCreated, rows[0].Type)
		assert.Equal(t, "New Issue Reported", rows[0].Title)
	}
	assert.Empty(t, e.rowsFor(t, e.tenant.ID))
	assert.Empty(t, e.rowsFor(t, farLandlord.ID))

	var userPushes int
	for _, p := range e.publisher.Pushes() {
		if p.Event == EventNewNotification {
			userPushes++
		}
	}
	assert.Equal(t, 2, userPushes)
	e.d.Wait()
	assert.Empty(t, e.mailer.Sent())
}

func TestLandlordUpdateNotifiesOnlyTheTenant(t *testing.T) {
	e := newEnv(t)
	issue := testutil.CreateIssue(t, e.db, e.tenant, "Leak")
	landlord := e.landlords[0]
	status := models.StatusInProgress

	_, events, err := services.UpdateIssue(e.db, testutil.Actor(landlord), issue.ID, services.IssueUpdate{Status: &status})
	require.NoError(t, err)
	e.d.Dispatch(context.Background(), events...)

	rows := e.rowsFor(t, e.tenant.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, models.NotificationIssueAcknowledged, rows[0].Type)
	require.NotNil(t, rows[0].IssueID)
	assert.Equal(t, issue.ID, *rows[0].IssueID)
	assert.Empty(t, e.rowsFor(t, landlord.ID))
	assert.Empty(t, e.rowsFor(t, e.landlords[1].ID))
}

func TestNoSelfNotification(t *testing.T) {
	e := newEnv(t)
	// A tenant message fans out to landlords, never back to the tenant
	issue := testutil.CreateIssue(t, e.db, e.tenant, "Leak")

	_, events, err := services.SendMessage(e.db, testutil.Actor(e.tenant), issue.ID, "hello")
	require.NoError(t, err)
	e.d.Dispatch(context.Background(), events...)
	assert.Empty(t, e.rowsFor(t, e.tenant.ID))

	admin := testutil.CreateUser(t, e.db, models.RoleAdmin, nil)
	adminOwned := &models.Issue{
		Title: "Lobby light", Description: "Out", Category: "ELECTRICAL", Location: "Lobby",
		Priority: models.PriorityLow, Status: models.StatusOpen, UserID: admin.ID, ComplexID: e.complex.ID,
	}
	require.NoError(t, e.db.Create(adminOwned).Error)
	status := models.StatusResolved
	_, events, err = services.UpdateIssue(e.db, testutil.Actor(admin), adminOwned.ID, services.IssueUpdate{Status: &status})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Zero(t, e.d.Dispatch(context.Background(), events...))
	assert.Empty(t, e.rowsFor(t, admin.ID))
}

func TestTenantMessageGoesToLandlordsWithoutEmail(t *testing.T) {
	e := newEnv(t)
	issue := testutil.CreateIssue(t, e.db, e.tenant, "Leak")

	msg, events, err := services.SendMessage(e.db, testutil.Actor(e.tenant), issue.ID, "Any update?")
	require.NoError(t, err)
	assert.Equal(t, 2, e.d.Dispatch(context.Background(), events...))
	e.d.Wait()

	for _, l := range e.landlords {
		rows := e.rowsFor(t, l.ID)
		require.Len(t, rows, 1)
		assert.Equal(t, models.NotificationMessageReceived, rows[0].Type)
		require.NotNil(t, rows[0].RelatedMessageID)
		assert.Equal(t, msg.ID, *rows[0].RelatedMessageID)
	}
	assert.Empty(t, e.mailer.Sent())

	pushes := e.publisher.Pushes()
	require.NotEmpty(t, pushes)
	assert.Equal(t, "issue-"+itoa(issue.ID), pushes[0].Room)
	assert.Equal(t, EventNewMessage, pushes[0].Event)
}

func TestLandlordMessageEmailsTenant(t *testing.T) {
	e := newEnv(t)
	issue := testutil.CreateIssue(t, e.db, e.tenant, "Leak")

	_, events, err := services.SendMessage(e.db, testutil.Actor(e.landlords[0]), issue.ID, "Plumber tomorrow")
	require.NoError(t, err)
	assert.Equal(t, 1, e.d.Dispatch(context.Background(), events...))
	e.d.Wait()

	require.Len(t, e.rowsFor(t, e.tenant.ID), 1)
	sent := e.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, e.tenant.Email, sent[0].To)
	assert.Equal(t, "New message on: Leak", sent[0].Subject)
	assert.Contains(t, sent[0].HTML, "Plumber tomorrow")
}

func TestEmailGatedByPreference(t *testing.T) {
	e := newEnv(t, testutil.WithEmailNotifications(false))
	issue := testutil.CreateIssue(t, e.db, e.tenant, "Leak")

	_, events, err := services.SendMessage(e.db, testutil.Actor(e.landlords[0]), issue.ID, "Plumber tomorrow")
	require.NoError(t, err)
	e.d.Dispatch(context.Background(), events...)
	e.d.Wait()

	require.Len(t, e.rowsFor(t, e.tenant.ID), 1)
	assert.Empty(t, e.mailer.Sent())
}

func TestEmailFailureIsSwallowed(t *testing.T) {
	e := newEnv(t)
	e.mailer.Err = errors.New("relay down")
	issue := testutil.CreateIssue(t, e.db, e.tenant, "Leak")

	_, events, err := services.SendMessage(e.db, testutil.Actor(e.landlords[0]), issue.ID, "Plumber tomorrow")
	require.NoError(t, err)
	assert.Equal(t, 1, e.d.Dispatch(context.Background(), events...))
	e.d.Wait()

	assert.Len(t, e.mailer.Sent(), 1)
	assert.Len(t, e.rowsFor(t, e.tenant.ID), 1)
}

func TestReplayedEventIsDeduplicated(t *testing.T) {
	e := newEnv(t)
	issue := testutil.CreateIssue(t, e.db, e.tenant, "Leak")
	priority := models.PriorityUrgent

	_, events, err := services.UpdateIssue(e.db, testutil.Actor(e.landlords[0]), issue.ID, services.IssueUpdate{Priority: &priority})
	require.NoError(t, err)

	assert.Equal(t, 1, e.d.Dispatch(context.Background(), events...))
	assert.Zero(t, e.d.Dispatch(context.Background(), events...))
	assert.Len(t, e.rowsFor(t, e.tenant.ID), 1)
}

func TestDispatchWithoutCollaborators(t *testing.T) {
	e := newEnv(t)
	d := New(e.db, nil, nil, "", nil)
	issue := testutil.CreateIssue(t, e.db, e.tenant, "Leak")

	_, events, err := services.SendMessage(e.db, testutil.Actor(e.landlords[0]), issue.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Dispatch(context.Background(), events...))
	d.Wait()
}
