package repository

import (
	"context"

	"github.com/asifkhuda/turing/pkg/domain/embedding"
	"github.com/asifkhuda/turing/pkg/infra/cache"
)

type memoryEmbeddingRepository struct {
	entries *cache.TTLMap
}

// NewMemoryEmbeddingRepository keeps query embeddings in process. Used when
// Redis is disabled.
func NewMemoryEmbeddingRepository(entries *cache.TTLMap) embedding.Repository {
	return &memoryEmbeddingRepository{entries: entries}
}

func (r *memoryEmbeddingRepository) Store(_ context.Context, key string, data *embedding.Embedding) error {
	r.entries.Set(key, data)
	return nil
}

func (r *memoryEmbeddingRepository) Get(_ context.Context, key string) (*embedding.Embedding, error) {
	v, ok := r.entries.Get(key)
	if !ok {
		return nil, embedding.ErrEmbeddingNotFound
	}
	data, ok := v.(*embedding.Embedding)
	if !ok {
		return nil, embedding.ErrEmbeddingNotFound
	}
	return data, nil
}
