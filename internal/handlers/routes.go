package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/config"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/middleware"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/services"
	"gorm.io/gorm"
)

// Deps are the collaborators shared by every handler
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Tokens   Tokens
	Notifier Notifier
}

// Tokens issues and validates credentials
type Tokens interface {
	services.TokenIssuer
	middleware.TokenValidator
}

// RegisterRoutes mounts the API under /api
func RegisterRoutes(app *fiber.App, d Deps) {
	api := app.Group("/api", middleware.VersionMiddleware())
	authn := middleware.Authenticate(d.Tokens, d.DB)

	healthHandler := &HealthHandler{Config: d.Config, DB: d.DB}
	authHandler := &AuthHandler{DB: d.DB, Tokens: d.Tokens}
	complexHandler := &ComplexHandler{DB: d.DB}
	issueHandler := &IssueHandler{DB: d.DB, Notifier: d.Notifier}
	messageHandler := &MessageHandler{DB: d.DB, Notifier: d.Notifier}
	notificationHandler := &NotificationHandler{DB: d.DB}

	api.Get("/health", healthHandler.Check)

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", authn, authHandler.Me)

	users := api.Group("/users", authn)
	users.Get("/me/preferences", authHandler.GetPreferences)
	users.Put("/me/preferences", authHandler.UpdatePreferences)

	complexes := api.Group("/complexes")
	complexes.Get("/", complexHandler.ListComplexes)
	complexes.Get("/:id", complexHandler.GetComplex)
	complexes.Post("/", authn, complexHandler.CreateComplex)

	issues := api.Group("/issues", authn)
	issues.Get("/", issueHandler.ListIssues)
	issues.Post("/", issueHandler.CreateIssue)
	// registered before /:id so "metrics" is not read as an id
	issues.Get("/metrics", issueHandler.GetMetrics)
	issues.Get("/:id", issueHandler.GetIssue)
	issues.Patch("/:id", issueHandler.UpdateIssue)
	issues.Put("/:id", issueHandler.UpdateIssue)
	issues.Delete("/:id", issueHandler.DeleteIssue)
	issues.Post("/:id/confirm", issueHandler.ConfirmIssue)
	issues.Get("/:id/messages", messageHandler.ListMessages)
	issues.Post("/:id/messages", messageHandler.SendMessage)

	messages := api.Group("/messages", authn)
	messages.Delete("/:id", messageHandler.DeleteMessage)

	notifications := api.Group("/notifications", authn)
	notifications.Get("/", notificationHandler.ListNotifications)
	notifications.Get("/unread", notificationHandler.ListUnread)
	notifications.Get("/unread/count", notificationHandler.UnreadCount)
	notifications.Patch("/read-all", notificationHandler.MarkAllRead)
	notifications.Patch("/:id/read", notificationHandler.MarkRead)
	notifications.Delete("/:id", notificationHandler.DeleteNotification)
}
