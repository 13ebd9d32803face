package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/services"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/utils"
	"gorm.io/gorm"
)

// AuthHandler handles registration, login and the caller's own record
type AuthHandler struct {
	DB     *gorm.DB
	Tokens services.TokenIssuer
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register
// @Summary Register an account
// @Tags Auth
// @Accept json
// @Produce json
// @Param account body services.RegisterInput true "Account"
// @Success 201 {object} services.AuthResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	res, err := services.Register(requestDB(c, h.DB), h.Tokens, in)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, res, fiber.StatusCreated)
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Credentials"
// @Success 200 {object} services.AuthResult
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	res, err := services.Login(requestDB(c, h.DB), h.Tokens, in.Email, in.Password)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, res, fiber.StatusOK)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	_, user, err := services.LoadActor(requestDB(c, h.DB), a.ID)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, user, fiber.StatusOK)
}

// GetPreferences handles GET /api/users/me/preferences
// @Summary Get notification preferences
// @Tags Users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /users/me/preferences [get]
func (h *AuthHandler) GetPreferences(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	prefs, err := services.GetPreferences(requestDB(c, h.DB), a)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, prefs, fiber.StatusOK)
}

// UpdatePreferences handles PUT /api/users/me/preferences
// @Summary Update notification preferences
// @Tags Users
// @Accept json
// @Produce json
// @Param preferences body map[string]interface{} true "Preferences to merge"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /users/me/preferences [put]
func (h *AuthHandler) UpdatePreferences(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	changes := make(map[string]interface{})
	if err := parseBody(c, &changes); err != nil {
		return err
	}
	prefs, err := services.UpdatePreferences(requestDB(c, h.DB), a, changes)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, prefs, fiber.StatusOK)
}
