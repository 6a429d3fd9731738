package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"scaffoldapi/internal/http/middleware"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Details []FieldViolation `json:"details,omitempty"`
}

// FieldViolation names a request field that failed validation and the rule it broke.
type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// APIError is an error that carries its own HTTP status and machine-readable code.
// Handlers return it and ErrorHandler renders it.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details []FieldViolation
}

// StatusCode returns the HTTP status the error is answered with.
func (e *APIError) StatusCode() int { return e.Status }

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_BODY", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string, details ...FieldViolation) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	return c.Status(status).JSON(res)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
// 5xx errors are logged with the request id; the process keeps serving.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *fiber.Ctx, err error) error {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			if apiErr.Status >= fiber.StatusInternalServerError {
				logInternal(logger, c, err)
			}
			return writeError(c, apiErr.Status, apiErr.Code, apiErr.Message, apiErr.Details...)
		}

		status := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusUnprocessableEntity:
			return writeError(c, status, "UNPROCESSABLE_ENTITY", "unprocessable entity")
		case fiber.StatusTooManyRequests:
			return writeError(c, status, "TOO_MANY_REQUESTS", "rate limit exceeded")
		default:
			logInternal(logger, c, err)
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
	}
}

func logInternal(logger *zap.Logger, c *fiber.Ctx, err error) {
	logger.Error("request failed",
		zap.String("request_id", middleware.RequestIDFromCtx(c)),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
}
