package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/asifkhuda/turing/pkg/common"
	"github.com/asifkhuda/turing/pkg/config"
	"github.com/asifkhuda/turing/pkg/infra/auth/jwt"
	"github.com/asifkhuda/turing/pkg/infra/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func ok(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}

func TestRequestIDMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(NewRequestIDMiddleware().Middleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(common.RequestIDContextKey).(string))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	generated := resp.Header.Get(common.RequestIDHeader)
	assert.Len(t, generated, 36)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, generated, string(body))

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(common.RequestIDHeader, "abc-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(common.RequestIDHeader))
}

func TestPanicRecoverMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(NewPanicRecoverMiddleware(quietLogger()).Middleware())
	app.Get("/", func(c *fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestCORSGlobalMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(NewCORSGlobalMiddleware(
		[]string{"https://asif.dev"},
		[]string{fiber.MethodPost, fiber.MethodOptions},
		false, nil, "600",
	).Middleware())
	app.Post("/api/chat", ok)

	preflight := httptest.NewRequest(fiber.MethodOptions, "/api/chat", nil)
	preflight.Header.Set(fiber.HeaderOrigin, "https://asif.dev")
	preflight.Header.Set(fiber.HeaderAccessControlRequestMethod, fiber.MethodPost)
	resp, err := app.Test(preflight)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://asif.dev", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "POST, OPTIONS", resp.Header.Get(fiber.HeaderAccessControlAllowMethods))
	assert.Equal(t, "600", resp.Header.Get(fiber.HeaderAccessControlMaxAge))

	foreign := httptest.NewRequest(fiber.MethodPost, "/api/chat", nil)
	foreign.Header.Set(fiber.HeaderOrigin, "https://evil.example")
	resp, err = app.Test(foreign)
	require.NoError(t, err)
	assert.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(ratelimit.Config{Scope: "chat", Limit: 2, Window: time.Minute})
	app := fiber.New()
	app.Post("/api/chat", NewRateLimitMiddleware(quietLogger(), limiter, "/api/chat").Middleware(), ok)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/chat", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/chat", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestAdminAuthMiddleware(t *testing.T) {
	manager := jwt.NewJwtManager(&config.ServerConfig{SecretKey: "admin-secret"})
	token, err := manager.CreateToken(time.Hour)
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/reload", NewAdminAuthMiddleware(quietLogger(), manager).Middleware(), ok)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing", header: "", want: fiber.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", want: fiber.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", want: fiber.StatusUnauthorized},
		{name: "valid", header: "Bearer " + token, want: fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodPost, "/reload", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestMetricsMiddleware_PassesThrough(t *testing.T) {
	app := fiber.New()
	app.Use(NewMetricsMiddleware(quietLogger()).Middleware())
	app.Get("/health", ok)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "2xx", statusClass(204))
	assert.Equal(t, "5xx", statusClass(0))
}

func TestAdminAuthMiddleware_DisabledWithoutSecret(t *testing.T) {
	manager := jwt.NewJwtManager(&config.ServerConfig{})

	app := fiber.New()
	app.Post("/reload", NewAdminAuthMiddleware(quietLogger(), manager).Middleware(), ok)

	req := httptest.NewRequest(fiber.MethodPost, "/reload", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer anything")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Admin access disabled"}`, string(body))
}
