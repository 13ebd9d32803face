package lifecycle

import (
	"time"

	"github.com/google/uuid"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
)

// EventKind is one of the domain events the fan-out reacts to
type EventKind string

const (
	EventIssueCreated EventKind = "issue.created"
	EventIssueUpdated EventKind = "issue.updated"
	EventMessageSent  EventKind = "message.sent"
)

// Event is a pending domain event returned by a mutation for fan-out.
// ID is the dedupe key: a recipient gets at most one notification per event.
type Event struct {
	ID         uuid.UUID
	Kind       EventKind
	Type       models.NotificationType
	Issue      models.Issue
	ActorID    uint
	ActorRole  models.Role
	Message    *models.Message
	OccurredAt time.Time
}

func newEvent(kind EventKind, nt models.NotificationType, issue *models.Issue, actorID uint, role models.Role) Event {
	return Event{
		ID:         uuid.New(),
		Kind:       kind,
		Type:       nt,
		Issue:      *issue,
		ActorID:    actorID,
		ActorRole:  role,
		OccurredAt: time.Now().UTC(),
	}
}

// IssueCreated is emitted when a tenant reports an issue
func IssueCreated(issue *models.Issue, actorID uint, role models.Role) Event {
	return newEvent(EventIssueCreated, models.NotificationIssueCreated, issue, actorID, role)
}

// IssueUpdated is emitted once per update call that changed status or priority
func IssueUpdated(issue *models.Issue, nt models.NotificationType, actorID uint, role models.Role) Event {
	return newEvent(EventIssueUpdated, nt, issue, actorID, role)
}

// MessageSent is emitted for every persisted message
func MessageSent(issue *models.Issue, msg *models.Message) Event {
	e := newEvent(EventMessageSent, models.NotificationMessageReceived, issue, msg.SenderID, msg.SenderType)
	m := *msg
	e.Message = &m
	return e
}
