package lifecycle

import (
	"testing"
	"time"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeIssue(t0 time.Time) *models.Issue {
	ack, res, closed := t0, t0.Add(time.Hour), t0.Add(2*time.Hour)
	return &models.Issue{
		Status:           models.StatusClosed,
		AcknowledgedDate: &ack,
		ResolvedDate:     &res,
		ClosedDate:       &closed,
	}
}

func TestAcknowledgementIsIdempotent(t *testing.T) {
	issue := &models.Issue{Status: models.StatusOpen}
	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	stamped := Plan(issue.Status, models.StatusInProgress).Apply(issue, first)
	assert.Equal(t, []Field{FieldAcknowledged}, stamped)

	stamped = Plan(issue.Status, models.StatusInProgress).Apply(issue, first.Add(time.Hour))
	assert.Empty(t, stamped)
	require.NotNil(t, issue.AcknowledgedDate)
	assert.True(t, issue.AcknowledgedDate.Equal(first))
}

func TestRegressionClearsForwardTimestamps(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	issue := completeIssue(t0)

	Plan(issue.Status, models.StatusInProgress).Apply(issue, t0.Add(24*time.Hour))

	assert.Equal(t, models.StatusInProgress, issue.Status)
	assert.Nil(t, issue.ResolvedDate)
	assert.Nil(t, issue.ClosedDate)
	require.NotNil(t, issue.AcknowledgedDate)
	assert.True(t, issue.AcknowledgedDate.Equal(t0))
}

func TestRegressionToOpenStartsNewCycle(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	issue := completeIssue(t0)

	Plan(issue.Status, models.StatusOpen).Apply(issue, t0)

	assert.Nil(t, issue.AcknowledgedDate)
	assert.Nil(t, issue.ResolvedDate)
	assert.Nil(t, issue.ClosedDate)
}

func TestResolvedClearsClosed(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	issue := completeIssue(t0)

	stamped := Plan(issue.Status, models.StatusResolved).Apply(issue, t0.Add(72*time.Hour))

	assert.Empty(t, stamped, "resolved_date was already set in this cycle")
	assert.Nil(t, issue.ClosedDate)
	assert.True(t, issue.ResolvedDate.Equal(t0.Add(time.Hour)))
}

func TestUnrestrictedJumps(t *testing.T) {
	issue := &models.Issue{Status: models.StatusOpen}
	now := time.Now().UTC()

	stamped := Plan(issue.Status, models.StatusClosed).Apply(issue, now)

	assert.Equal(t, models.StatusClosed, issue.Status)
	assert.Equal(t, []Field{FieldClosed}, stamped)
	assert.Nil(t, issue.AcknowledgedDate)
	assert.Nil(t, issue.ResolvedDate)
}

func TestClassifyUpdate(t *testing.T) {
	tests := []struct {
		name            string
		from, to        models.Status
		noStatus        bool
		acknowledged    bool
		priorityChanged bool
		want            models.NotificationType
		ok              bool
	}{
		{name: "first acknowledgement", from: models.StatusOpen, to: models.StatusInProgress, acknowledged: true, want: models.NotificationIssueAcknowledged, ok: true},
		{name: "reopened in progress", from: models.StatusResolved, to: models.StatusInProgress, want: models.NotificationIssueStatusChanged, ok: true},
		{name: "resolved", from: models.StatusInProgress, to: models.StatusResolved, want: models.NotificationIssueResolved, ok: true},
		{name: "closed", from: models.StatusResolved, to: models.StatusClosed, want: models.NotificationIssueClosed, ok: true},
		{name: "back to open", from: models.StatusInProgress, to: models.StatusOpen, want: models.NotificationIssueStatusChanged, ok: true},
		{name: "status wins over priority", from: models.StatusOpen, to: models.StatusResolved, priorityChanged: true, want: models.NotificationIssueResolved, ok: true},
		{name: "priority only", noStatus: true, priorityChanged: true, want: models.NotificationIssuePriorityChanged, ok: true},
		{name: "same status same priority", from: models.StatusInProgress, to: models.StatusInProgress, ok: false},
		{name: "nothing", noStatus: true, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tr *Transition
			if !tt.noStatus {
				p := Plan(tt.from, tt.to)
				tr = &p
			}
			got, ok := ClassifyUpdate(tr, tt.acknowledged, tt.priorityChanged)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
