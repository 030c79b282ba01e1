package middleware

import (
	"math"
	"strconv"

	"github.com/asifkhuda/turing/pkg/infra/prometheus"
	"github.com/asifkhuda/turing/pkg/infra/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type rateLimitMiddleware struct {
	logger  *logrus.Logger
	limiter ratelimit.Limiter
	route   string
}

func NewRateLimitMiddleware(logger *logrus.Logger, limiter ratelimit.Limiter, route string) Middleware {
	return &rateLimitMiddleware{
		logger:  logger,
		limiter: limiter,
		route:   route,
	}
}

// Middleware limits per client IP. Limiter failures let the request through.
func (m *rateLimitMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		decision, err := m.limiter.Allow(c.UserContext(), c.IP())
		if err != nil {
			m.logger.WithError(err).Warn("rate limiter unavailable, allowing request")
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(decision.Reset.Unix(), 10))

		if decision.Allowed {
			return c.Next()
		}

		retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		prometheus.RateLimitedTotal.WithLabelValues(m.route).Inc()
		m.logger.WithFields(logrus.Fields{
			"ip":          c.IP(),
			"route":       m.route,
			"retry_after": retryAfter,
		}).Info("rate limit exceeded")

		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":       "Too many requests",
			"retry_after": retryAfter,
		})
	}
}
