package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/asifkhuda/turing/pkg/domain/embedding"
	"github.com/asifkhuda/turing/pkg/infra/cache"
	"github.com/go-redis/redis/v8"
)

const EmbeddingCacheTTL = 24 * time.Hour

type redisEmbeddingRepository struct {
	cache cache.Client
	ttl   time.Duration
}

func NewRedisEmbeddingRepository(c cache.Client, ttl time.Duration) embedding.Repository {
	if ttl <= 0 {
		ttl = EmbeddingCacheTTL
	}
	return &redisEmbeddingRepository{
		cache: c,
		ttl:   ttl,
	}
}

func (r *redisEmbeddingRepository) Store(ctx context.Context, key string, data *embedding.Embedding) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding data: %w", err)
	}
	return r.cache.Set(ctx, fmt.Sprintf(cache.QueryEmbeddingKeyPattern, key), string(jsonData), r.ttl)
}

func (r *redisEmbeddingRepository) Get(ctx context.Context, key string) (*embedding.Embedding, error) {
	jsonData, err := r.cache.Get(ctx, fmt.Sprintf(cache.QueryEmbeddingKeyPattern, key))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, embedding.ErrEmbeddingNotFound
		}
		return nil, fmt.Errorf("failed to get embedding from cache: %w", err)
	}

	var data embedding.Embedding
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embedding data: %w", err)
	}
	return &data, nil
}
