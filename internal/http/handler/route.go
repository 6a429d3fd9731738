package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"scaffoldapi/internal/http/middleware"
)

// ErrResponseSchema is returned when a handler produces a body that violates its declared schema.
var ErrResponseSchema = &APIError{
	Status:  fiber.StatusInternalServerError,
	Code:    "RESPONSE_SCHEMA_VIOLATION",
	Message: "internal server error",
}

// HandlerFunc produces the response body for a route. The body must be a struct (or pointer to
// one) whose `validate` tags describe the response schema.
type HandlerFunc func(c *fiber.Ctx) (any, error)

// Route is one entry of the routing table.
type Route struct {
	Method  string
	Path    string
	Summary string
	// Status is the success status code; 0 means 200.
	Status  int
	Handler HandlerFunc
}

// Binder mounts routes and validates request and response bodies.
type Binder struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NewBinder constructs a Binder. A nil validator gets NewValidator.
func NewBinder(v *validator.Validate, logger *zap.Logger) *Binder {
	if v == nil {
		v = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Binder{validate: v, logger: logger.Named("router")}
}

// Bind registers every route on r.
func (b *Binder) Bind(r fiber.Router, routes ...Route) {
	for _, rt := range routes {
		r.Add(rt.Method, rt.Path, b.wrap(rt))
	}
}

func (b *Binder) wrap(rt Route) fiber.Handler {
	status := rt.Status
	if status == 0 {
		status = fiber.StatusOK
	}

	return func(c *fiber.Ctx) error {
		res, err := rt.Handler(c)
		if err != nil {
			return err
		}
		if err := b.CheckResponse(res); err != nil {
			b.logger.Error("response schema violation",
				zap.String("route", rt.Method+" "+rt.Path),
				zap.String("request_id", middleware.RequestIDFromCtx(c)),
				zap.Error(err),
			)
			return ErrResponseSchema
		}
		return c.Status(status).JSON(res)
	}
}

// CheckResponse validates a response body against its declared schema.
func (b *Binder) CheckResponse(res any) error {
	if res == nil {
		return errors.New("nil response body")
	}
	if v := reflect.ValueOf(res); v.Kind() == reflect.Pointer && v.IsNil() {
		return errors.New("nil response body")
	}
	return b.validate.Struct(res)
}

// Decode parses the JSON request body into dst and validates it.
// It returns an *APIError suitable for the client on failure.
func (b *Binder) Decode(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return &APIError{
			Status:  fiber.StatusBadRequest,
			Code:    "INVALID_BODY",
			Message: "request body must be a JSON object",
		}
	}

	if err := b.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		details := make([]FieldViolation, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldViolation{Field: fe.Field(), Rule: fe.Tag()})
		}
		return &APIError{
			Status:  fiber.StatusUnprocessableEntity,
			Code:    "VALIDATION_FAILED",
			Message: "request body failed validation",
			Details: details,
		}
	}
	return nil
}
