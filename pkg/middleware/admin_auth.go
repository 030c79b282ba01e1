package middleware

import (
	"errors"
	"strings"

	"github.com/asifkhuda/turing/pkg/common"
	"github.com/asifkhuda/turing/pkg/infra/auth/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const bearerPrefix = "Bearer "

type adminAuthMiddleware struct {
	logger     *logrus.Logger
	jwtManager jwt.Manager
}

// NewAdminAuthMiddleware guards the knowledge admin routes. Every request is
// rejected while server.secret_key is unset.
func NewAdminAuthMiddleware(
	logger *logrus.Logger,
	jwtManager jwt.Manager,
) Middleware {
	return &adminAuthMiddleware{
		logger:     logger,
		jwtManager: jwtManager,
	}
}

func (m *adminAuthMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		entry := m.logger.WithFields(logrus.Fields{
			"request_id": ctx.Locals(common.RequestIDContextKey),
			"ip":         ctx.IP(),
			"path":       ctx.Path(),
		})

		tokenString, ok := bearerToken(ctx.Get(fiber.HeaderAuthorization))
		if !ok {
			entry.Debug("missing or malformed authorization header")
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authorization required"})
		}

		if err := m.jwtManager.ValidateToken(tokenString); err != nil {
			switch {
			case errors.Is(err, jwt.ErrMissingSecret):
				entry.Warn("admin request rejected, server.secret_key is not configured")
				return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Admin access disabled"})
			case errors.Is(err, jwt.ErrExpiredToken):
				entry.Debug("expired admin token")
				return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token expired"})
			default:
				entry.WithError(err).Info("invalid admin token")
				return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
			}
		}

		return ctx.Next()
	}
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	return token, token != ""
}
