package middleware

import "github.com/gofiber/fiber/v2"

type Middleware interface {
	Middleware() fiber.Handler
}

type Transport struct {
	RecoverMiddleware   Middleware
	RequestIDMiddleware Middleware
	CORSMiddleware      Middleware
	MetricsMiddleware   Middleware
	RateLimitMiddleware Middleware
	AdminAuthMiddleware Middleware
}

// Global returns the middlewares applied to every route, outermost first.
func (t *Transport) Global() []Middleware {
	var out []Middleware
	for _, m := range []Middleware{
		t.RecoverMiddleware,
		t.RequestIDMiddleware,
		t.MetricsMiddleware,
		t.CORSMiddleware,
	} {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}
