package router

import (
	handlers "github.com/asifkhuda/turing/pkg/handlers/http"
	"github.com/asifkhuda/turing/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

type adminRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
}

func NewAdminRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
) ServerRouter {
	return &adminRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
	}
}

func (r *adminRouter) BuildRoutes(router *fiber.App) error {
	if r.handlerTransport.GetVersionHandler == nil || r.handlerTransport.ReloadKnowledgeHandler == nil {
		return ErrInvalidHandlerTransport
	}

	v1 := router.Group("/api/v1")
	{
		v1.Get("/version", r.handlerTransport.GetVersionHandler.Handle)

		knowledge := v1.Group("/knowledge")
		if r.middlewareTransport.AdminAuthMiddleware != nil {
			knowledge.Use(r.middlewareTransport.AdminAuthMiddleware.Middleware())
		}
		knowledge.Post("/reload", r.handlerTransport.ReloadKnowledgeHandler.Handle)
	}
	return nil
}
