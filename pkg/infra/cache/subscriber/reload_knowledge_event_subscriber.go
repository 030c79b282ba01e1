package subscriber

import (
	"context"

	"github.com/asifkhuda/turing/pkg/domain/knowledge"
	"github.com/asifkhuda/turing/pkg/infra/cache"
	"github.com/asifkhuda/turing/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

type ReloadKnowledgeEventSubscriber struct {
	logger      *logrus.Logger
	invalidator knowledge.Invalidator
}

func NewReloadKnowledgeEventSubscriber(
	logger *logrus.Logger,
	invalidator knowledge.Invalidator,
) cache.EventSubscriber[event.ReloadKnowledgeEvent] {
	return &ReloadKnowledgeEventSubscriber{
		logger:      logger,
		invalidator: invalidator,
	}
}

func (s *ReloadKnowledgeEventSubscriber) OnEvent(ctx context.Context, ev event.ReloadKnowledgeEvent) error {
	s.invalidator.Invalidate()
	s.logger.WithFields(logrus.Fields{
		"source":    ev.Source,
		"path":      ev.Path,
		"documents": ev.Documents,
	}).Info("knowledge base invalidated")
	return nil
}
