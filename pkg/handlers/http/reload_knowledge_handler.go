package http

import (
	"encoding/json"
	"time"

	"github.com/asifkhuda/turing/pkg/domain/knowledge"
	"github.com/asifkhuda/turing/pkg/handlers/http/request"
	"github.com/asifkhuda/turing/pkg/infra/cache"
	"github.com/asifkhuda/turing/pkg/infra/cache/event"
	"github.com/asifkhuda/turing/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	reloadModeBroadcast = "broadcast"
	reloadModeLocal     = "local"
)

type ReloadKnowledgeHandlerDeps struct {
	Logger      *logrus.Logger
	Publisher   cache.EventPublisher
	Invalidator knowledge.Invalidator
	Path        string
}

type reloadKnowledgeHandler struct {
	logger      *logrus.Logger
	publisher   cache.EventPublisher
	invalidator knowledge.Invalidator
	path        string
}

// NewReloadKnowledgeHandler broadcasts the reload through Publisher when one
// is configured and falls back to invalidating this instance only.
func NewReloadKnowledgeHandler(deps ReloadKnowledgeHandlerDeps) Handler {
	return &reloadKnowledgeHandler{
		logger:      deps.Logger,
		publisher:   deps.Publisher,
		invalidator: deps.Invalidator,
		path:        deps.Path,
	}
}

// Handle @Summary Reload the knowledge base
// @Tags Knowledge
// @Security BearerAuth
// @Produce json
// @Success 202 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/knowledge/reload [post]
func (h *reloadKnowledgeHandler) Handle(c *fiber.Ctx) error {
	var req request.ReloadKnowledgeRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}

	mode := reloadModeLocal
	if h.publisher != nil {
		err := h.publisher.Publish(c.UserContext(), event.ReloadKnowledgeEvent{
			Source:      "admin",
			Path:        h.path,
			RequestedAt: time.Now().UTC(),
		})
		if err == nil {
			mode = reloadModeBroadcast
		} else {
			h.logger.WithError(err).Warn("failed to publish reload event, invalidating locally")
		}
	}
	if mode == reloadModeLocal && h.invalidator != nil {
		h.invalidator.Invalidate()
	}

	prometheus.KnowledgeReloadTotal.WithLabelValues("admin").Inc()
	h.logger.WithFields(logrus.Fields{
		"mode":   mode,
		"reason": req.Reason,
	}).Info("knowledge reload requested")

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Knowledge reload scheduled",
		"mode":    mode,
	})
}
