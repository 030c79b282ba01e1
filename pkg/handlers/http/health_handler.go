package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type healthHandler struct {
	startedAt time.Time
}

func NewHealthHandler() Handler {
	return &healthHandler{startedAt: time.Now()}
}

func (h *healthHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}
