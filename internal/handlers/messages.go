package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/services"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/utils"
	"gorm.io/gorm"
)

// MessageHandler handles issue thread routes
type MessageHandler struct {
	DB       *gorm.DB
	Notifier Notifier
}

type sendMessageRequest struct {
	MessageText string `json:"message_text"`
}

// ListMessages handles GET /api/issues/:id/messages
// @Summary List an issue's messages
// @Tags Messages
// @Produce json
// @Param id path int true "Issue ID"
// @Success 200 {array} models.Message
// @Security BearerAuth
// @Router /issues/{id}/messages [get]
func (h *MessageHandler) ListMessages(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	messages, err := services.ListMessages(requestDB(c, h.DB), a, id)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, messages, fiber.StatusOK)
}

// SendMessage handles POST /api/issues/:id/messages
// @Summary Send a message
// @Tags Messages
// @Accept json
// @Produce json
// @Param id path int true "Issue ID"
// @Param message body sendMessageRequest true "Message"
// @Success 201 {object} models.Message
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /issues/{id}/messages [post]
func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in sendMessageRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	msg, events, err := services.SendMessage(requestDB(c, h.DB), a, id, in.MessageText)
	if err != nil {
		return err
	}
	dispatch(c, h.Notifier, events)
	return utils.SuccessResponse(c, msg, fiber.StatusCreated)
}

// DeleteMessage handles DELETE /api/messages/:id
func (h *MessageHandler) DeleteMessage(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := services.DeleteMessage(requestDB(c, h.DB), a, id); err != nil {
		return err
	}
	return utils.MutationSuccessResponse(c, 1)
}
