package lifecycle

import (
	"strings"
	"time"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/types"
)

// Decision is a tenant's verdict on a resolved repair
type Decision struct {
	Confirmed bool
	Notes     string
}

// Confirmation is the validated outcome of a decision
type Confirmation struct {
	Decision
	// First is true when no decision was ever recorded on the issue
	First      bool
	Transition Transition
}

const confirmErrorType = "issue.confirmation"

// Confirm validates a decision against the issue's current state and plans its effects.
// A confirm closes the issue; a dispute reopens it as IN_PROGRESS.
func Confirm(issue *models.Issue, d Decision) (Confirmation, error) {
	if issue.Status != models.StatusResolved {
		return Confirmation{}, types.Validation(confirmErrorType,
			"Issue must be RESOLVED to confirm or dispute (current status %s)", issue.Status)
	}
	d.Notes = strings.TrimSpace(d.Notes)
	if !d.Confirmed && d.Notes == "" {
		return Confirmation{}, types.Validation(confirmErrorType, "Dispute notes are required")
	}

	to := models.StatusClosed
	if !d.Confirmed {
		to = models.StatusInProgress
	}
	return Confirmation{
		Decision:   d,
		First:      issue.TenantFirstConfirmation == nil,
		Transition: Plan(issue.Status, to),
	}, nil
}

// Apply records the decision on an in-memory issue
func (c Confirmation) Apply(issue *models.Issue, now time.Time) []Field {
	confirmed := c.Confirmed
	issue.TenantConfirmed = &confirmed
	ts := now
	issue.TenantConfirmationDate = &ts
	if c.Confirmed {
		issue.TenantConfirmationNotes = nil
	} else {
		notes := c.Notes
		issue.TenantConfirmationNotes = &notes
		issue.DisputeCount++
	}
	if c.First {
		first := c.Confirmed
		issue.TenantFirstConfirmation = &first
	}
	return c.Transition.Apply(issue, now)
}
