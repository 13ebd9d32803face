// issues.go
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

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/services"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/utils"
	"gorm.io/gorm"
)

// IssueHandler handles issue routes
type IssueHandler struct {
	DB       *gorm.DB
	Notifier Notifier
}

// ListIssues handles GET /api/issues
// @Summary List issues
// @Description Issues visible to the caller: own issues for tenants, the complex's issues for landlords, all for admins
// @Tags Issues
// @Produce json
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Param category query string false "Category filter"
// @Success 200 {array} models.Issue
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /issues [get]
func (h *IssueHandler) ListIssues(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	issues, err := services.ListIssues(requestDB(c, h.DB), a, services.IssueFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
	})
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, issues, fiber.StatusOK)
}

// GetMetrics handles GET /api/issues/metrics
// @Summary Issue metrics
// @Description Counts by status and the tenant confirmation rate within the caller's scope
// @Tags Issues
// @Produce json
// @Success 200 {object} services.IssueMetrics
// @Security BearerAuth
// @Router /issues/metrics [get]
func (h *IssueHandler) GetMetrics(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	metrics, err := services.GetIssueMetrics(requestDB(c, h.DB), a)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, metrics, fiber.StatusOK)
}

// GetIssue handles GET /api/issues/:id
// @Summary Get an issue
// @Tags Issues
// @Produce json
// @Param id path int true "Issue ID"
// @Success 200 {object} models.Issue
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /issues/{id} [get]
func (h *IssueHandler) GetIssue(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	issue, err := services.GetIssue(requestDB(c, h.DB), a, id)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, issue, fiber.StatusOK)
}

// CreateIssue handles POST /api/issues
// @Summary Report an issue
// @Tags Issues
// @Accept json
// @Produce json
// @Param issue body services.IssueInput true "Issue"
// @Success 201 {object} models.Issue
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /issues [post]
func (h *IssueHandler) CreateIssue(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var in services.IssueInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	issue, events, err := services.CreateIssue(requestDB(c, h.DB), a, in)
	if err != nil {
		return err
	}
	dispatch(c, h.Notifier, events)
	return utils.SuccessResponse(c, issue, fiber.StatusCreated)
}

// UpdateIssue handles PATCH /api/issues/:id
// @Summary Update an issue
// @Description Tenants edit content while OPEN; landlords and admins change status and priority
// @Tags Issues
// @Accept json
// @Produce json
// @Param id path int true "Issue ID"
// @Param changes body services.IssueUpdate true "Changes"
// @Success 200 {object} models.Issue
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /issues/{id} [patch]
func (h *IssueHandler) UpdateIssue(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in services.IssueUpdate
	if err := parseBody(c, &in); err != nil {
		return err
	}
	issue, events, err := services.UpdateIssue(requestDB(c, h.DB), a, id, in)
	if err != nil {
		return err
	}
	dispatch(c, h.Notifier, events)
	return utils.SuccessResponse(c, issue, fiber.StatusOK)
}

// DeleteIssue handles DELETE /api/issues/:id
// @Summary Delete an issue
// @Description Removes the issue with its messages, photos and notifications
// @Tags Issues
// @Produce json
// @Param id path int true "Issue ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /issues/{id} [delete]
func (h *IssueHandler) DeleteIssue(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := services.DeleteIssue(requestDB(c, h.DB), a, id); err != nil {
		return err
	}
	return utils.MutationSuccessResponse(c, 1)
}

// ConfirmIssue handles POST /api/issues/:id/confirm
// @Summary Confirm or dispute a repair
// @Description The reporting tenant closes a RESOLVED issue or disputes it with notes
// @Tags Issues
// @Accept json
// @Produce json
// @Param id path int true "Issue ID"
// @Param decision body services.ConfirmInput true "Decision"
// @Success 200 {object} models.Issue
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /issues/{id}/confirm [post]
func (h *IssueHandler) ConfirmIssue(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in services.ConfirmInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	issue, err := services.ConfirmIssue(requestDB(c, h.DB), a, id, in)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, issue, fiber.StatusOK)
}
