package http

import (
	"encoding/json"
	"errors"

	"github.com/asifkhuda/turing/pkg/app/chat"
	"github.com/asifkhuda/turing/pkg/common"
	"github.com/asifkhuda/turing/pkg/domain/knowledge"
	"github.com/asifkhuda/turing/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type chatHandler struct {
	logger   *logrus.Logger
	answerer chat.Answerer
}

func NewChatHandler(logger *logrus.Logger, answerer chat.Answerer) Handler {
	return &chatHandler{
		logger:   logger,
		answerer: answerer,
	}
}

// Handle @Summary Ask the portfolio assistant
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body request.ChatRequest true "Question"
// @Success 200 {object} map[string]string "reply"
// @Failure 400 {object} map[string]string
// @Failure 405 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/chat [post]
func (h *chatHandler) Handle(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"message": "Method not allowed"})
	}

	if err := h.answerer.CheckCredentials(); err != nil {
		h.logger.WithError(err).Error("chat request rejected")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Missing API credential"})
	}

	var req request.ChatRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	answer, err := h.answerer.Answer(c.UserContext(), req.Message)
	if err != nil {
		return h.handleError(c, err)
	}

	h.logger.WithFields(logrus.Fields{
		"request_id": c.Locals(common.RequestIDContextKey),
		"sources":    len(answer.Sources),
		"model":      answer.Model,
	}).Debug("chat request answered")

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"reply": answer.Reply})
}

func (h *chatHandler) handleError(c *fiber.Ctx, err error) error {
	fields := logrus.Fields{"request_id": c.Locals(common.RequestIDContextKey)}
	switch {
	case errors.Is(err, chat.ErrMissingCredential):
		h.logger.WithFields(fields).WithError(err).Error("chat request rejected")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Missing API credential"})
	case errors.Is(err, knowledge.ErrKnowledgeBaseNotFound), errors.Is(err, knowledge.ErrEmptyKnowledgeBase):
		h.logger.WithFields(fields).WithError(err).Error("knowledge base unavailable")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Knowledge base not found"})
	case errors.Is(err, chat.ErrEmptyMessage):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	default:
		h.logger.WithFields(fields).WithError(err).Error("failed to process chat request")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to process request",
			"details": err.Error(),
		})
	}
}
