package middleware

import (
	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Recover turns handler panics into errors (answered as 500 by the error handler) and logs them.
func Recover(logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return fiberrecover.New(fiberrecover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logger.Error("panic recovered",
				zap.Any("panic", e),
				zap.String("request_id", RequestIDFromCtx(c)),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Stack("stack"),
			)
		},
	})
}
