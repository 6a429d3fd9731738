package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

var corsMethods = []string{
	fiber.MethodGet,
	fiber.MethodHead,
	fiber.MethodPost,
	fiber.MethodPut,
	fiber.MethodPatch,
	fiber.MethodDelete,
	fiber.MethodOptions,
}

// CORS allows browsers on the given origins to call the API with credentials.
// Every method is allowed and requested headers are reflected back.
//
// Origins are matched exactly (case-insensitively) through AllowOriginsFunc, which also
// admits "null", an origin fiber's static AllowOrigins list cannot hold. Entries are
// expected to be validated by config.
func CORS(origins []string) fiber.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))] = struct{}{}
	}

	return cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			_, ok := allowed[strings.ToLower(origin)]
			return ok
		},
		AllowCredentials: true,
		AllowMethods:     strings.Join(corsMethods, ","),
		ExposeHeaders:    RequestIDHeader,
	})
}
