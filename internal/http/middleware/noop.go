package middleware

import "github.com/gofiber/fiber/v2"

// Noop simply calls the next handler. It stands in for middleware that is disabled by settings.
func Noop() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Next()
	}
}
