package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// APIVersion is the version of the HTTP surface served by this build
const APIVersion = "1.0.0"

// VersionMiddleware records the client's X-Api-Version and answers with the server's
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", APIVersion)

		// Support version aliases
		if version == "1" || version == "1.0" {
			version = APIVersion
		}

		c.Locals("apiVersion", version)
		c.Set("X-Api-Version", APIVersion)

		return c.Next()
	}
}
