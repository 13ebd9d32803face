package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/services"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/utils"
	"gorm.io/gorm"
)

// ComplexHandler handles property records
type ComplexHandler struct {
	DB *gorm.DB
}

// ListComplexes handles GET /api/complexes
// @Summary List complexes
// @Description Public so the registration form can offer a complex
// @Tags Complexes
// @Produce json
// @Success 200 {array} services.ComplexSummary
// @Router /complexes [get]
func (h *ComplexHandler) ListComplexes(c *fiber.Ctx) error {
	complexes, err := services.ListComplexes(requestDB(c, h.DB))
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, complexes, fiber.StatusOK)
}

// GetComplex handles GET /api/complexes/:id
func (h *ComplexHandler) GetComplex(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	record, err := services.GetComplex(requestDB(c, h.DB), id)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, record, fiber.StatusOK)
}

// CreateComplex handles POST /api/complexes
// @Summary Create a complex
// @Description Landlords without a complex are affiliated with the one they create
// @Tags Complexes
// @Accept json
// @Produce json
// @Param complex body services.ComplexInput true "Complex"
// @Success 201 {object} models.Complex
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /complexes [post]
func (h *ComplexHandler) CreateComplex(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var in services.ComplexInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	record, err := services.CreateComplex(requestDB(c, h.DB), a, in)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, record, fiber.StatusCreated)
}
