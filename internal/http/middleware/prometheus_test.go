package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrometheusApp(t *testing.T) (*fiber.App, *PrometheusMiddleware, *prometheus.Registry) {
	t.Helper()

	// Fresh registry per test to avoid duplicate registration.
	reg := prometheus.NewRegistry()
	promMiddleware, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(promMiddleware.Handler())
	return app, promMiddleware, reg
}

func TestPrometheusMiddleware(t *testing.T) {
	app, promMiddleware, _ := newPrometheusApp(t)

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Delete("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/error", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad request")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), testutil.ToFloat64(promMiddleware.requestCount.WithLabelValues("GET", "/test", "200")))

	_, err = app.Test(httptest.NewRequest("DELETE", "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(promMiddleware.requestCount.WithLabelValues("DELETE", "/test", "200")))

	_, err = app.Test(httptest.NewRequest("GET", "/error", nil))
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(promMiddleware.requestCount.WithLabelValues("GET", "/error", "400")))
}

func TestPrometheusMiddleware_ExcludeMetrics(t *testing.T) {
	app, _, reg := newPrometheusApp(t)

	app.Get(MetricsPath, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest("GET", MetricsPath, nil))
	require.NoError(t, err)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == "http_requests_total" {
			assert.Empty(t, mf.GetMetric())
		}
	}
}

func TestPrometheusMiddleware_PathPattern(t *testing.T) {
	app, promMiddleware, _ := newPrometheusApp(t)

	app.Post("/users/:user_id/process", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest("POST", "/users/123/process", nil))
	require.NoError(t, err)

	// Labelled by pattern, not by the concrete id.
	assert.Equal(t, float64(1), testutil.ToFloat64(promMiddleware.requestCount.WithLabelValues("POST", "/users/:user_id/process", "200")))
	assert.NotZero(t, testutil.CollectAndCount(promMiddleware.requestDuration))
}

func TestPrometheusMiddleware_UnknownRoute(t *testing.T) {
	app, promMiddleware, _ := newPrometheusApp(t)

	for _, path := range []string{"/missing", "/aaaa", "/bbbb"} {
		_, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, 1, testutil.CollectAndCount(promMiddleware.requestCount))
	assert.Equal(t, float64(3), testutil.ToFloat64(promMiddleware.requestCount.WithLabelValues("GET", UnmatchedPath, "404")))
}

func TestNewPrometheusMiddleware_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	_, err = NewPrometheusMiddleware(reg)
	assert.Error(t, err)
}

func TestMetricsHandler(t *testing.T) {
	app, _, reg := newPrometheusApp(t)

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get(MetricsPath, MetricsHandler(reg))

	_, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", MetricsPath, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/test",status="200"} 1`)
}

type codedError struct{ code int }

func (e codedError) Error() string   { return "coded" }
func (e codedError) StatusCode() int { return e.code }

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, errorStatus(fiber.ErrNotFound))
	assert.Equal(t, fiber.StatusUnprocessableEntity, errorStatus(codedError{code: fiber.StatusUnprocessableEntity}))
	assert.Equal(t, fiber.StatusInternalServerError, errorStatus(io.EOF))
}
