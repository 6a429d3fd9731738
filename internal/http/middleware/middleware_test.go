package middleware

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(RequestIDFromCtx(c))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})
}

func TestRequestIDFromCtx_Missing(t *testing.T) {
	app := fiber.New()
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString("[" + RequestIDFromCtx(c) + "]")
	})

	resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))
	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	assert.Equal(t, "[]", buf.String())
}

func TestNoop(t *testing.T) {
	app := fiber.New()
	app.Use(Noop())

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	assert.Equal(t, "ok", buf.String())
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	app := fiber.New()

	app.Use(RequestID())
	app.Use(Logger(zap.New(core)))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})
	app.Get("/fail", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "nope")
	})

	t.Run("success", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		entry := entries[0]
		fields := entry.ContextMap()

		assert.Equal(t, zapcore.InfoLevel, entry.Level)
		assert.Equal(t, "http", entry.LoggerName)
		assert.Equal(t, resp.Header.Get(RequestIDHeader), fields["request_id"])
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, "/test", fields["path"])
		assert.Equal(t, int64(fiber.StatusAccepted), fields["status"])
		assert.Contains(t, fields, "latency_ms")
	})

	t.Run("handler error is resolved before logging", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest("GET", "/fail", nil))
		assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, int64(fiber.StatusTeapot), entries[0].ContextMap()["status"])
	})
}

func TestRecover(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	app := fiber.New()
	app.Use(RequestID())
	app.Use(Recover(zap.New(core)))

	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	entries := logs.FilterMessage("panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].ContextMap()["panic"])
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])

	// The app keeps serving after a panic.
	resp, err = app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	app := fiber.New()
	app.Use(CORS([]string{"http://localhost:3000", "http://127.0.0.1:5173", "null"}))
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "http://localhost:3000", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
		assert.Equal(t, "true", resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))
	})

	t.Run("null origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Origin", "null")
		resp, _ := app.Test(req)

		assert.Equal(t, "null", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
		assert.Equal(t, "true", resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))
	})

	t.Run("origin case is ignored", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Origin", "http://LOCALHOST:3000")
		resp, _ := app.Test(req)

		assert.Equal(t, "http://localhost:3000", strings.ToLower(resp.Header.Get(fiber.HeaderAccessControlAllowOrigin)))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Origin", "http://evil.example.com")
		resp, _ := app.Test(req)

		assert.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/test", nil)
		req.Header.Set("Origin", "http://127.0.0.1:5173")
		req.Header.Set(fiber.HeaderAccessControlRequestMethod, "DELETE")
		req.Header.Set(fiber.HeaderAccessControlRequestHeaders, "X-Custom-Header")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "http://127.0.0.1:5173", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
		assert.Contains(t, resp.Header.Get(fiber.HeaderAccessControlAllowMethods), "DELETE")
		assert.Equal(t, "X-Custom-Header", resp.Header.Get(fiber.HeaderAccessControlAllowHeaders))
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("limits once the burst is spent", func(t *testing.T) {
		app := fiber.New()
		app.Use(RateLimit(0.001, 1))
		app.Get("/test", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

		resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp, _ = app.Test(httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	})

	t.Run("disabled", func(t *testing.T) {
		app := fiber.New()
		app.Use(RateLimit(0, 0))
		app.Get("/test", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

		for i := 0; i < 5; i++ {
			resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		}
	})
}
