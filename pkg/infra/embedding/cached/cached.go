package cached

import (
	"context"
	"errors"

	"github.com/asifkhuda/turing/pkg/domain/embedding"
	"github.com/sirupsen/logrus"
)

type cachedCreator struct {
	next   embedding.Creator
	repo   embedding.Repository
	logger *logrus.Logger
}

// NewCachedCreator serves repeated (model, text) pairs from repo. Cache
// failures are logged and fall through to the wrapped provider.
func NewCachedCreator(next embedding.Creator, repo embedding.Repository, logger *logrus.Logger) embedding.Creator {
	return &cachedCreator{
		next:   next,
		repo:   repo,
		logger: logger,
	}
}

func (c *cachedCreator) Generate(
	ctx context.Context,
	text, model string,
	cfg *embedding.Config,
) (*embedding.Embedding, error) {
	key := embedding.CacheKey(model, text)

	hit, err := c.repo.Get(ctx, key)
	switch {
	case err == nil && hit.Dimension() > 0:
		return hit, nil
	case err != nil && !errors.Is(err, embedding.ErrEmbeddingNotFound):
		c.logger.WithError(err).Warn("query embedding cache lookup failed")
	}

	emb, err := c.next.Generate(ctx, text, model, cfg)
	if err != nil {
		return nil, err
	}
	if err := c.repo.Store(ctx, key, emb); err != nil {
		c.logger.WithError(err).Warn("failed to cache query embedding")
	}
	return emb, nil
}
