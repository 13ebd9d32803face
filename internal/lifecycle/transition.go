// transition.go
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

// Package lifecycle owns the issue status machine, the tenant confirmation
// protocol layered on top of it, and the domain events both emit.
//
// Status targets are deliberately unrestricted: any status may follow any
// other, and side effects are chosen by the destination alone.
package lifecycle

import (
	"time"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
)

// Field names a lifecycle timestamp column
type Field string

const (
	FieldAcknowledged Field = "acknowledged_date"
	FieldResolved     Field = "resolved_date"
	FieldClosed       Field = "closed_date"
)

// Transition describes the timestamp side effects of entering a status.
// Stamp fields are set to now only if currently null; Clear fields are nulled.
type Transition struct {
	From  models.Status
	To    models.Status
	Stamp []Field
	Clear []Field
}

// Plan returns the transition for moving an issue from one status to another
func Plan(from, to models.Status) Transition {
	t := Transition{From: from, To: to}
	switch to {
	case models.StatusOpen:
		// regression to the start begins a new cycle
		t.Clear = []Field{FieldAcknowledged, FieldResolved, FieldClosed}
	case models.StatusInProgress:
		t.Stamp = []Field{FieldAcknowledged}
		t.Clear = []Field{FieldResolved, FieldClosed}
	case models.StatusResolved:
		t.Stamp = []Field{FieldResolved}
		t.Clear = []Field{FieldClosed}
	case models.StatusClosed:
		t.Stamp = []Field{FieldClosed}
	}
	return t
}

// StatusChanged reports whether the transition moves to a different status
func (t Transition) StatusChanged() bool {
	return t.From != t.To
}

// Apply performs the transition on an in-memory issue and returns the fields it stamped
func (t Transition) Apply(issue *models.Issue, now time.Time) []Field {
	issue.Status = t.To
	for _, f := range t.Clear {
		*fieldPtr(issue, f) = nil
	}
	var stamped []Field
	for _, f := range t.Stamp {
		p := fieldPtr(issue, f)
		if *p == nil {
			ts := now
			*p = &ts
			stamped = append(stamped, f)
		}
	}
	return stamped
}

// Has reports whether f is among fields
func Has(fields []Field, f Field) bool {
	for _, x := range fields {
		if x == f {
			return true
		}
	}
	return false
}

func fieldPtr(issue *models.Issue, f Field) **time.Time {
	switch f {
	case FieldAcknowledged:
		return &issue.AcknowledgedDate
	case FieldResolved:
		return &issue.ResolvedDate
	default:
		return &issue.ClosedDate
	}
}

// ClassifyUpdate picks the single notification type for a landlord update.
// acknowledged is true only when this update stamped acknowledged_date.
// ok is false when nothing the tenant cares about changed.
func ClassifyUpdate(t *Transition, acknowledged, priorityChanged bool) (nt models.NotificationType, ok bool) {
	if t != nil && t.StatusChanged() {
		switch {
		case t.To == models.StatusInProgress && acknowledged:
			return models.NotificationIssueAcknowledged, true
		case t.To == models.StatusResolved:
			return models.NotificationIssueResolved, true
		case t.To == models.StatusClosed:
			return models.NotificationIssueClosed, true
		default:
			return models.NotificationIssueStatusChanged, true
		}
	}
	if priorityChanged {
		return models.NotificationIssuePriorityChanged, true
	}
	return "", false
}
