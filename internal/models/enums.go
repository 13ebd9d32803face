package models

// Role determines an actor's access scope
type Role string

const (
	RoleTenant   Role = "TENANT"
	RoleLandlord Role = "LANDLORD"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleTenant, RoleLandlord, RoleAdmin:
		return true
	}
	return false
}

// Status is the lifecycle position of an issue
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusClosed     Status = "CLOSED"
)

// Statuses lists every status in lifecycle order
var Statuses = []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Priority is the landlord-facing urgency of an issue
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// NotificationType identifies the domain event a notification reports
type NotificationType string

const (
	NotificationIssueCreated         NotificationType = "ISSUE_CREATED"
	NotificationIssueAcknowledged    NotificationType = "ISSUE_ACKNOWLEDGED"
	NotificationIssueStatusChanged   NotificationType = "ISSUE_STATUS_CHANGED"
	NotificationIssueResolved        NotificationType = "ISSUE_RESOLVED"
	NotificationIssueClosed          NotificationType = "ISSUE_CLOSED"
	NotificationIssuePriorityChanged NotificationType = "ISSUE_PRIORITY_CHANGED"
	NotificationMessageReceived      NotificationType = "MESSAGE_RECEIVED"
)
