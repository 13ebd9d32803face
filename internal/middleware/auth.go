package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/access"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/auth"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/services"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/types"
	"gorm.io/gorm"
)

const actorKey = "actor"

// TokenValidator checks a bearer credential
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Authenticate validates the bearer token and loads the caller's current
// record, so role and complex come from the store rather than the token.
func Authenticate(tokens TokenValidator, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return types.Unauthenticated("authentication", "Missing bearer token")
		}

		claims, err := tokens.Validate(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			return types.Unauthenticated("authentication", "Invalid token: %v", err)
		}

		actor, _, err := services.LoadActor(db.WithContext(c.UserContext()), claims.UserID)
		if err != nil {
			if types.IsKind(err, types.KindNotFound) {
				return types.Unauthenticated("authentication", "User no longer exists")
			}
			return err
		}

		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// ActorFrom returns the actor stored by Authenticate
func ActorFrom(c *fiber.Ctx) (access.Actor, bool) {
	actor, ok := c.Locals(actorKey).(access.Actor)
	return actor, ok
}
