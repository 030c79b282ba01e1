package router

import (
	"errors"

	handlers "github.com/asifkhuda/turing/pkg/handlers/http"
	"github.com/asifkhuda/turing/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

const (
	ChatPath   = "/api/chat"
	HealthPath = "/health"
	PingPath   = "/__/ping"
)

var ErrInvalidHandlerTransport = errors.New("invalid handler transport")

type apiRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
}

func NewAPIRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
) ServerRouter {
	return &apiRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
	}
}

func (r *apiRouter) BuildRoutes(router *fiber.App) error {
	if r.handlerTransport.ChatHandler == nil || r.handlerTransport.HealthHandler == nil {
		return ErrInvalidHandlerTransport
	}

	for _, m := range r.middlewareTransport.Global() {
		router.Use(m.Middleware())
	}

	router.Get(HealthPath, r.handlerTransport.HealthHandler.Handle)
	router.Get(PingPath, func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"message": "pong"})
	})

	chat := []fiber.Handler{}
	if r.middlewareTransport.RateLimitMiddleware != nil {
		chat = append(chat, r.middlewareTransport.RateLimitMiddleware.Middleware())
	}
	chat = append(chat, r.handlerTransport.ChatHandler.Handle)
	// Every method reaches the handler so non-POST gets the JSON 405 body.
	router.All(ChatPath, chat...)
	return nil
}
