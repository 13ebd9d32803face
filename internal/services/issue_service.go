// issue_service.go
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
	"strings"
	"time"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/access"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/lifecycle"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// IssueFilter narrows an issue listing inside the actor's scope
type IssueFilter struct {
	Status   string
	Priority string
	Category string
}

// IssueInput holds the fields a tenant supplies when reporting an issue
type IssueInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Priority    models.Priority `json:"priority"`
	Location    string          `json:"location"`
}

// IssueUpdate holds optional changes; nil fields are left untouched
type IssueUpdate struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Location    *string          `json:"location"`
	Priority    *models.Priority `json:"priority"`
	Status      *models.Status   `json:"status"`
}

func (u IssueUpdate) hasContent() bool {
	return u.Title != nil || u.Description != nil || u.Category != nil || u.Location != nil
}

func (u IssueUpdate) hasLifecycle() bool {
	return u.Status != nil || u.Priority != nil
}

// ListIssues returns the issues actor may see, newest first
func ListIssues(db *gorm.DB, actor access.Actor, filter IssueFilter) ([]models.Issue, error) {
	query := quiet(db).
		Clauses(hints.Comment("select", "issue_list")).
		Scopes(scopeIssues(actor)).
		Preload("User").
		Preload("Complex")

	if filter.Status != "" {
		status := models.Status(strings.ToUpper(filter.Status))
		if !status.Valid() {
			return nil, types.Validation("issue.filter", "Unknown status %q", filter.Status)
		}
		query = query.Where("issues.status = ?", status)
	}
	if filter.Priority != "" {
		priority := models.Priority(strings.ToUpper(filter.Priority))
		if !priority.Valid() {
			return nil, types.Validation("issue.filter", "Unknown priority %q", filter.Priority)
		}
		query = query.Where("issues.priority = ?", priority)
	}
	if filter.Category != "" {
		query = query.Where("issues.category = ?", filter.Category)
	}

	issues := []models.Issue{}
	if err := query.Order("issues.created_at DESC").Order("issues.id DESC").Find(&issues).Error; err != nil {
		return nil, types.Dependency("issue.list", err)
	}
	return issues, nil
}

// GetIssue returns one issue with its reporter, messages and photos
func GetIssue(db *gorm.DB, actor access.Actor, id uint) (*models.Issue, error) {
	if _, err := AuthorizeIssue(db, actor, id, access.ActionRead); err != nil {
		return nil, err
	}
	return reloadIssue(db, id, true)
}

func reloadIssue(db *gorm.DB, id uint, withChildren bool) (*models.Issue, error) {
	var issue models.Issue
	query := db.Preload("User").Preload("Complex")
	if withChildren {
		query = query.
			Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("sent_at ASC").Order("id ASC") }).
			Preload("Messages.Sender").
			Preload("Photos")
	}
	if err := query.First(&issue, id).Error; err != nil {
		return nil, storeError("issue.lookup", err, "Issue %d not found", id)
	}
	return &issue, nil
}

// CreateIssue records a new OPEN issue in the tenant's current complex
func CreateIssue(db *gorm.DB, actor access.Actor, in IssueInput) (*models.Issue, []lifecycle.Event, error) {
	// Affiliation is read from the store, never from the credential
	current, _, err := LoadActor(db, actor.ID)
	if err != nil {
		return nil, nil, err
	}
	if err := access.CanCreateIssue(current); err != nil {
		return nil, nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Location = strings.TrimSpace(in.Location)
	if in.Title == "" || in.Description == "" || in.Category == "" || in.Location == "" {
		return nil, nil, types.Validation("issue.validation", "Title, description, category and location are required")
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, nil, types.Validation("issue.validation", "Unknown priority %q", in.Priority)
	}

	issue := models.Issue{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Priority:    in.Priority,
		Status:      models.StatusOpen,
		Location:    in.Location,
		UserID:      current.ID,
		ComplexID:   *current.ComplexID,
	}
	if err := db.Create(&issue).Error; err != nil {
		return nil, nil, types.Dependency("issue.create", err)
	}

	created, err := reloadIssue(db, issue.ID, false)
	if err != nil {
		return nil, nil, err
	}
	return created, []lifecycle.Event{lifecycle.IssueCreated(created, current.ID, current.Role)}, nil
}

// UpdateIssue applies content, status and priority changes.
// Tenants may edit content of their own issue while it is OPEN; status and
// priority belong to landlords and admins. At most one event is returned.
func UpdateIssue(db *gorm.DB, actor access.Actor, id uint, in IssueUpdate) (*models.Issue, []lifecycle.Event, error) {
	issue, err := AuthorizeIssue(db, actor, id, access.ActionRead)
	if err != nil {
		return nil, nil, err
	}
	if !in.hasContent() && !in.hasLifecycle() {
		return nil, nil, types.Validation("issue.validation", "No fields to update")
	}
	if in.hasLifecycle() {
		if err := access.Allow(actor, access.ActionChangeStatus, issue); err != nil {
			return nil, nil, err
		}
	}
	if in.hasContent() {
		if err := access.Allow(actor, access.ActionEditContent, issue); err != nil {
			return nil, nil, err
		}
		if actor.IsTenant() && issue.Status != models.StatusOpen {
			return nil, nil, types.Validation("issue.validation", "Issues can only be edited while OPEN")
		}
	}

	updates := make(map[string]interface{})
	for column, value := range map[string]*string{
		"title":       in.Title,
		"description": in.Description,
		"category":    in.Category,
		"location":    in.Location,
	} {
		if value == nil {
			continue
		}
		v := strings.TrimSpace(*value)
		if v == "" && column != "location" {
			return nil, nil, types.Validation("issue.validation", "%s cannot be empty", column)
		}
		updates[column] = v
	}

	priorityChanged := false
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, nil, types.Validation("issue.validation", "Unknown priority %q", *in.Priority)
		}
		priorityChanged = *in.Priority != issue.Priority
		updates["priority"] = *in.Priority
	}

	var transition *lifecycle.Transition
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, nil, types.Validation("issue.validation", "Unknown status %q", *in.Status)
		}
		t := lifecycle.Plan(issue.Status, *in.Status)
		transition = &t
		updates["status"] = t.To
		for _, f := range t.Clear {
			updates[string(f)] = nil
		}
	}

	var stamped []lifecycle.Field
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Issue{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if transition != nil {
			fields, err := stampFields(tx, id, transition.Stamp, time.Now().UTC())
			if err != nil {
				return err
			}
			stamped = fields
		}
		return nil
	})
	if err != nil {
		return nil, nil, types.Dependency("issue.update", err)
	}

	updated, err := reloadIssue(db, id, false)
	if err != nil {
		return nil, nil, err
	}

	var events []lifecycle.Event
	acknowledged := lifecycle.Has(stamped, lifecycle.FieldAcknowledged)
	if nt, ok := lifecycle.ClassifyUpdate(transition, acknowledged, priorityChanged); ok {
		events = append(events, lifecycle.IssueUpdated(updated, nt, actor.ID, actor.Role))
	}
	return updated, events, nil
}

// stampFields sets each lifecycle column to now only where it is still null.
// The WHERE clause makes the check and the write one statement.
func stampFields(tx *gorm.DB, id uint, fields []lifecycle.Field, now time.Time) ([]lifecycle.Field, error) {
	var stamped []lifecycle.Field
	for _, f := range fields {
		column := string(f)
		res := tx.Model(&models.Issue{}).
			Where("id = ?", id).
			Where(column + " IS NULL").
			Update(column, now)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			stamped = append(stamped, f)
		}
	}
	return stamped, nil
}

// DeleteIssue removes an issue and everything hanging off it
func DeleteIssue(db *gorm.DB, actor access.Actor, id uint) error {
	if _, err := AuthorizeIssue(db, actor, id, access.ActionDelete); err != nil {
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("issue_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("issue_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("issue_id = ?", id).Delete(&models.Photo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Issue{}, id).Error
	})
	if err != nil {
		return types.Dependency("issue.delete", err)
	}
	return nil
}
