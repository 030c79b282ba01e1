package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Public
	ChatHandler   Handler
	HealthHandler Handler

	// Admin
	GetVersionHandler      Handler
	ReloadKnowledgeHandler Handler
}
