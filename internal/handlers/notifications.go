package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/services"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/utils"
	"gorm.io/gorm"
)

// NotificationHandler handles the caller's notification inbox
type NotificationHandler struct {
	DB *gorm.DB
}

// ListNotifications handles GET /api/notifications
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Param limit query int false "Maximum rows (default 50)"
// @Success 200 {array} models.Notification
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	return h.list(c, false)
}

// ListUnread handles GET /api/notifications/unread
func (h *NotificationHandler) ListUnread(c *fiber.Ctx) error {
	return h.list(c, true)
}

func (h *NotificationHandler) list(c *fiber.Ctx, unreadOnly bool) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	rows, err := services.ListNotifications(requestDB(c, h.DB), a, unreadOnly, c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

// UnreadCount handles GET /api/notifications/unread/count
// @Summary Count unread notifications
// @Tags Notifications
// @Produce json
// @Success 200 {object} map[string]int64
// @Security BearerAuth
// @Router /notifications/unread/count [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	count, err := services.CountUnread(requestDB(c, h.DB), a)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, fiber.Map{"count": count}, fiber.StatusOK)
}

// MarkRead handles PATCH /api/notifications/:id/read
// @Summary Mark a notification read
// @Tags Notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} models.Notification
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	n, err := services.MarkNotificationRead(requestDB(c, h.DB), a, id)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, n, fiber.StatusOK)
}

// MarkAllRead handles PATCH /api/notifications/read-all
// @Summary Mark every notification read
// @Tags Notifications
// @Produce json
// @Success 200 {object} map[string]int64
// @Security BearerAuth
// @Router /notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	updated, err := services.MarkAllRead(requestDB(c, h.DB), a)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, fiber.Map{"updated": updated}, fiber.StatusOK)
}

// DeleteNotification handles DELETE /api/notifications/:id
func (h *NotificationHandler) DeleteNotification(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := services.DeleteNotification(requestDB(c, h.DB), a, id); err != nil {
		return err
	}
	return utils.MutationSuccessResponse(c, 1)
}
