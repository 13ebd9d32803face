// Package access is the authorization gate consulted before any issue,
// message or notification is read or mutated. It performs no I/O: callers
// load the actor's current record and the resource, then ask.
package access

import (
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/types"
)

// Actor is the authenticated caller, built from the current user record
type Actor struct {
	ID        uint
	Role      models.Role
	ComplexID *uint
	Email     string
}

// ActorFromUser builds an Actor from a freshly loaded user record
func ActorFromUser(u *models.User) Actor {
	return Actor{ID: u.ID, Role: u.Role, ComplexID: u.ComplexID, Email: u.Email}
}

func (a Actor) IsTenant() bool   { return a.Role == models.RoleTenant }
func (a Actor) IsLandlord() bool { return a.Role == models.RoleLandlord }
func (a Actor) IsAdmin() bool    { return a.Role == models.RoleAdmin }

// InComplex reports whether the actor is affiliated with complexID
func (a Actor) InComplex(complexID uint) bool {
	return a.ComplexID != nil && *a.ComplexID == complexID
}

// Action is an operation on a specific issue
type Action string

const (
	ActionRead         Action = "read"
	ActionEditContent  Action = "edit"
	ActionChangeStatus Action = "status"
	ActionMessage      Action = "message"
	ActionDelete       Action = "delete"
	ActionConfirm      Action = "confirm"
)

const errorType = "authorization"

// Allow decides whether actor may perform action on issue.
// It returns nil when allowed and a Forbidden AppError otherwise.
func Allow(actor Actor, action Action, issue *models.Issue) error {
	switch action {
	case ActionChangeStatus:
		if actor.IsTenant() {
			return types.Forbidden(errorType, "Only landlords can change issue status or priority")
		}
	case ActionConfirm:
		if !actor.IsTenant() || issue.UserID != actor.ID {
			return types.Forbidden(errorType, "Only the reporting tenant can confirm or dispute a repair")
		}
		return nil
	}

	if canAccessIssue(actor, issue) {
		return nil
	}
	return types.Forbidden(errorType, "You do not have access to issue %d", issue.ID)
}

// canAccessIssue is the issue-level ownership rule shared by every action
func canAccessIssue(actor Actor, issue *models.Issue) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTenant:
		return issue.UserID == actor.ID
	case models.RoleLandlord:
		return actor.InComplex(issue.ComplexID)
	}
	return false
}

// CanCreateIssue allows any tenant; the complex comes from the actor's current record
func CanCreateIssue(actor Actor) error {
	if !actor.IsTenant() {
		return types.Forbidden(errorType, "Only tenants can report issues")
	}
	if actor.ComplexID == nil {
		return types.Validation("issue.validation", "Tenant is not affiliated with a complex")
	}
	return nil
}

// CanManageComplex allows landlords and admins to create or edit property records
func CanManageComplex(actor Actor) error {
	if actor.IsTenant() {
		return types.Forbidden(errorType, "Only landlords can manage complexes")
	}
	return nil
}

// CanDeleteMessage allows the sender or an admin
func CanDeleteMessage(actor Actor, msg *models.Message) error {
	if actor.IsAdmin() || msg.SenderID == actor.ID {
		return nil
	}
	return types.Forbidden(errorType, "You can only delete your own messages")
}

// CanTouchNotification allows only the recipient
func CanTouchNotification(actor Actor, n *models.Notification) error {
	if n.UserID != actor.ID {
		return types.Forbidden(errorType, "Forbidden")
	}
	return nil
}

// Scope is the row filter applied when listing issues
type Scope struct {
	All       bool
	None      bool
	UserID    *uint
	ComplexID *uint
}

// IssueScope returns the listing filter for actor
func IssueScope(actor Actor) Scope {
	switch actor.Role {
	case models.RoleAdmin:
		return Scope{All: true}
	case models.RoleTenant:
		id := actor.ID
		return Scope{UserID: &id}
	case models.RoleLandlord:
		if actor.ComplexID == nil {
			return Scope{None: true}
		}
		complexID := *actor.ComplexID
		return Scope{ComplexID: &complexID}
	}
	return Scope{None: true}
}
