// confirm_service.go
//
// Apartment maintenance tracker API
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of apartment-maintenance-tracker.
// apartment-maintenance-tracker is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// apartment-maintenance-tracker is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with apartment-maintenance-tracker.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"time"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/access"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/lifecycle"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/types"
	"gorm.io/gorm"
)

// ConfirmInput is the tenant's decision on a resolved repair
type ConfirmInput struct {
	Confirmed *bool  `json:"confirmed"`
	Notes     string `json:"notes"`
}

// ConfirmIssue records the owning tenant's confirm or dispute of a RESOLVED issue.
// A confirm closes the issue; a dispute moves it back to IN_PROGRESS.
func ConfirmIssue(db *gorm.DB, actor access.Actor, id uint, in ConfirmInput) (*models.Issue, error) {
	if in.Confirmed == nil {
		return nil, types.Validation("issue.confirmation", "confirmed is required")
	}
	issue, err := AuthorizeIssue(db, actor, id, access.ActionConfirm)
	if err != nil {
		return nil, err
	}

	c, err := lifecycle.Confirm(issue, lifecycle.Decision{Confirmed: *in.Confirmed, Notes: in.Notes})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":                    c.Transition.To,
		"tenant_confirmed":          c.Confirmed,
		"tenant_confirmation_date":  now,
		"tenant_confirmation_notes": nil,
	}
	if !c.Confirmed {
		updates["tenant_confirmation_notes"] = c.Notes
		updates["dispute_count"] = gorm.Expr("dispute_count + ?", 1)
	}
	for _, f := range c.Transition.Clear {
		updates[string(f)] = nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		// The status guard rejects a decision racing another one
		res := tx.Model(&models.Issue{}).
			Where("id = ? AND status = ?", id, models.StatusResolved).
			Updates(updates)
		if res.Error != nil {
			return types.Dependency("issue.confirmation", res.Error)
		}
		if res.RowsAffected == 0 {
			return types.Validation("issue.confirmation", "Issue is no longer RESOLVED")
		}
		if _, err := stampFields(tx, id, c.Transition.Stamp, now); err != nil {
			return types.Dependency("issue.confirmation", err)
		}
		err := tx.Model(&models.Issue{}).
			Where("id = ? AND tenant_first_confirmation IS NULL", id).
			Update("tenant_first_confirmation", c.Confirmed).Error
		if err != nil {
			return types.Dependency("issue.confirmation", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reloadIssue(db, id, false)
}
