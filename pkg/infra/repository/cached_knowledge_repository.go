package repository

import (
	"context"
	"sync"

	"github.com/asifkhuda/turing/pkg/domain/knowledge"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const loadKey = "knowledge"

//go:generate mockery --name=CachedKnowledgeRepository --dir=. --output=./mocks --filename=cached_knowledge_repository_mock.go --case=underscore --with-expecter

type CachedKnowledgeRepository interface {
	knowledge.Repository
	knowledge.Invalidator
}

type cachedKnowledgeRepository struct {
	source knowledge.Repository
	logger *logrus.Logger

	mu         sync.RWMutex
	docs       []knowledge.Document
	generation uint64
	sf         singleflight.Group
}

// NewCachedKnowledgeRepository loads the store once and serves it from
// memory until Invalidate is called. Failed loads are not cached.
func NewCachedKnowledgeRepository(source knowledge.Repository, logger *logrus.Logger) CachedKnowledgeRepository {
	return &cachedKnowledgeRepository{
		source: source,
		logger: logger,
	}
}

func (r *cachedKnowledgeRepository) Load(ctx context.Context) ([]knowledge.Document, error) {
	r.mu.RLock()
	docs := r.docs
	r.mu.RUnlock()
	if docs != nil {
		return docs, nil
	}

	v, err, _ := r.sf.Do(loadKey, func() (interface{}, error) {
		r.mu.RLock()
		gen := r.generation
		cached := r.docs
		r.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		// the load must outlive a single canceled caller since others share it
		loaded, err := r.source.Load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		if r.generation == gen {
			r.docs = loaded
		}
		r.mu.Unlock()

		r.logger.WithField("documents", len(loaded)).Info("knowledge base loaded")
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	loaded, _ := v.([]knowledge.Document)
	return loaded, nil
}

// Invalidate drops the in-memory store. A load already in flight when this
// is called is served to its waiters but not kept.
func (r *cachedKnowledgeRepository) Invalidate() {
	r.mu.Lock()
	r.docs = nil
	r.generation++
	r.mu.Unlock()
	r.sf.Forget(loadKey)
	r.logger.Info("knowledge base cache invalidated")
}

type passthroughKnowledgeRepository struct {
	knowledge.Repository
}

// NewPassthroughKnowledgeRepository serves every Load from source. Invalidate
// is a no-op since nothing is held in memory.
func NewPassthroughKnowledgeRepository(source knowledge.Repository) CachedKnowledgeRepository {
	return passthroughKnowledgeRepository{Repository: source}
}

func (passthroughKnowledgeRepository) Invalidate() {}
