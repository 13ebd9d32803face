package access

import (
	"testing"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/types"
	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestAllow(t *testing.T) {
	issue := &models.Issue{ID: 9, UserID: 1, ComplexID: 10}

	owner := Actor{ID: 1, Role: models.RoleTenant, ComplexID: uintPtr(10)}
	neighbour := Actor{ID: 2, Role: models.RoleTenant, ComplexID: uintPtr(10)}
	landlord := Actor{ID: 3, Role: models.RoleLandlord, ComplexID: uintPtr(10)}
	otherLandlord := Actor{ID: 4, Role: models.RoleLandlord, ComplexID: uintPtr(11)}
	homeless := Actor{ID: 5, Role: models.RoleLandlord}
	admin := Actor{ID: 6, Role: models.RoleAdmin}

	tests := []struct {
		name   string
		actor  Actor
		action Action
		allow  bool
	}{
		{"owner reads", owner, ActionRead, true},
		{"neighbour reads", neighbour, ActionRead, false},
		{"landlord reads", landlord, ActionRead, true},
		{"other complex landlord reads", otherLandlord, ActionRead, false},
		{"landlord without complex reads", homeless, ActionRead, false},
		{"admin reads", admin, ActionRead, true},
		{"owner edits content", owner, ActionEditContent, true},
		{"owner changes status", owner, ActionChangeStatus, false},
		{"landlord changes status", landlord, ActionChangeStatus, true},
		{"other landlord changes status", otherLandlord, ActionChangeStatus, false},
		{"admin changes status", admin, ActionChangeStatus, true},
		{"owner messages", owner, ActionMessage, true},
		{"neighbour messages", neighbour, ActionMessage, false},
		{"landlord messages", landlord, ActionMessage, true},
		{"owner deletes", owner, ActionDelete, true},
		{"landlord deletes", landlord, ActionDelete, true},
		{"neighbour deletes", neighbour, ActionDelete, false},
		{"owner confirms", owner, ActionConfirm, true},
		{"landlord confirms", landlord, ActionConfirm, false},
		{"admin confirms", admin, ActionConfirm, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Allow(tt.actor, tt.action, issue)
			if tt.allow {
				assert.NoError(t, err)
				return
			}
			assert.True(t, types.IsKind(err, types.KindForbidden), "expected forbidden, got %v", err)
		})
	}
}

func TestIssueScope(t *testing.T) {
	assert.Equal(t, Scope{All: true}, IssueScope(Actor{ID: 1, Role: models.RoleAdmin}))
	assert.Equal(t, Scope{None: true}, IssueScope(Actor{ID: 1, Role: models.RoleLandlord}))

	tenant := IssueScope(Actor{ID: 7, Role: models.RoleTenant, ComplexID: uintPtr(3)})
	if assert.NotNil(t, tenant.UserID) {
		assert.Equal(t, uint(7), *tenant.UserID)
	}
	assert.Nil(t, tenant.ComplexID)

	landlord := IssueScope(Actor{ID: 8, Role: models.RoleLandlord, ComplexID: uintPtr(3)})
	if assert.NotNil(t, landlord.ComplexID) {
		assert.Equal(t, uint(3), *landlord.ComplexID)
	}
	assert.Nil(t, landlord.UserID)
}

func TestCanCreateIssue(t *testing.T) {
	assert.NoError(t, CanCreateIssue(Actor{ID: 1, Role: models.RoleTenant, ComplexID: uintPtr(2)}))
	assert.True(t, types.IsKind(CanCreateIssue(Actor{ID: 1, Role: models.RoleTenant}), types.KindValidationFailed))
	assert.True(t, types.IsKind(CanCreateIssue(Actor{ID: 1, Role: models.RoleLandlord, ComplexID: uintPtr(2)}), types.KindForbidden))
}

func TestNotificationAndMessageOwnership(t *testing.T) {
	me := Actor{ID: 1, Role: models.RoleTenant}
	assert.NoError(t, CanTouchNotification(me, &models.Notification{UserID: 1}))
	assert.Error(t, CanTouchNotification(me, &models.Notification{UserID: 2}))

	assert.NoError(t, CanDeleteMessage(me, &models.Message{SenderID: 1}))
	assert.Error(t, CanDeleteMessage(me, &models.Message{SenderID: 2}))
	assert.NoError(t, CanDeleteMessage(Actor{ID: 9, Role: models.RoleAdmin}, &models.Message{SenderID: 2}))
}
