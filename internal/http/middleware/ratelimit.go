package middleware

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// RateLimit applies a process-wide token bucket. A non-positive rps disables it.
func RateLimit(rps float64, burst int) fiber.Handler {
	if rps <= 0 {
		return Noop()
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *fiber.Ctx) error {
		if !limiter.Allow() {
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
		}
		return c.Next()
	}
}
