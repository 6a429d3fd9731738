package handler

import (
	"github.com/gofiber/fiber/v2"

	"scaffoldapi/internal/config"
	"scaffoldapi/internal/model"
	"scaffoldapi/internal/service"
)

// exampleTimestamp is the fixed timestamp returned by the example endpoint.
const exampleTimestamp = "2025-01-01T00:00:00Z"

// APIRoutes returns the routing table mounted under the API prefix.
func APIRoutes(b *Binder, settings *config.Settings, svc service.ExampleService) []Route {
	return []Route{
		{Method: fiber.MethodGet, Path: "/health", Summary: "API health check", Handler: HealthCheck()},
		{Method: fiber.MethodGet, Path: "/example", Summary: "Example data", Handler: ExampleData()},
		{Method: fiber.MethodGet, Path: "/info", Summary: "Application info", Handler: AppInfo(settings)},
		{Method: fiber.MethodGet, Path: "/example/service", Summary: "Example data from the service layer", Handler: ServiceExample(svc)},
		{Method: fiber.MethodPost, Path: "/users/:user_id/process", Summary: "Process user data", Handler: ProcessUserData(b, svc)},
	}
}

// RootRoutes returns the routes declared directly on the application, outside the API prefix.
func RootRoutes() []Route {
	return []Route{
		{Method: fiber.MethodGet, Path: "/", Summary: "Welcome message", Handler: Root()},
	}
}

// RegisterRoutes mounts the API routes on r, typically a group at the API prefix.
func RegisterRoutes(r fiber.Router, b *Binder, settings *config.Settings, svc service.ExampleService) {
	b.Bind(r, APIRoutes(b, settings, svc)...)
}

// Root godoc
// @Summary Welcome message
// @Tags Root
// @Produce json
// @Success 200 {object} model.Welcome
// @Router / [get]
func Root() HandlerFunc {
	return func(c *fiber.Ctx) (any, error) {
		return &model.Welcome{Message: "Welcome to the API!"}, nil
	}
}

// LivenessProbe answers 200 with an empty body while the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// HealthCheck godoc
// @Summary API health check
// @Tags API
// @Produce json
// @Success 200 {object} model.HealthStatus
// @Router /api/health [get]
func HealthCheck() HandlerFunc {
	return func(c *fiber.Ctx) (any, error) {
		return &model.HealthStatus{
			Status:  "healthy",
			Message: "API is running successfully",
		}, nil
	}
}

// ExampleData godoc
// @Summary Example data
// @Tags API
// @Produce json
// @Success 200 {object} model.ExamplePayload
// @Router /api/example [get]
func ExampleData() HandlerFunc {
	return func(c *fiber.Ctx) (any, error) {
		return &model.ExamplePayload{
			Data:  map[string]any{"sample": "data", "timestamp": exampleTimestamp},
			Count: 1,
		}, nil
	}
}

// AppInfo godoc
// @Summary Application info
// @Tags API
// @Produce json
// @Success 200 {object} model.AppInfo
// @Router /api/info [get]
func AppInfo(settings *config.Settings) HandlerFunc {
	return func(c *fiber.Ctx) (any, error) {
		return &model.AppInfo{AppName: settings.AppName, Version: settings.AppVersion}, nil
	}
}

// ServiceExample godoc
// @Summary Example data from the service layer
// @Tags API
// @Produce json
// @Success 200 {object} model.ExampleData
// @Failure 500 {object} errorPayload
// @Router /api/example/service [get]
func ServiceExample(svc service.ExampleService) HandlerFunc {
	return func(c *fiber.Ctx) (any, error) {
		return svc.FetchExampleData(c.UserContext())
	}
}

// ProcessUserData godoc
// @Summary Process user data
// @Tags API
// @Accept json
// @Produce json
// @Param user_id path string true "User ID"
// @Param body body model.ProcessRequest true "Data to process"
// @Success 200 {object} model.ProcessResult
// @Failure 400 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/users/{user_id}/process [post]
func ProcessUserData(b *Binder, svc service.ExampleService) HandlerFunc {
	return func(c *fiber.Ctx) (any, error) {
		var req model.ProcessRequest
		if err := b.Decode(c, &req); err != nil {
			return nil, err
		}
		return svc.ProcessUserData(c.UserContext(), c.Params("user_id"), req.Data)
	}
}
