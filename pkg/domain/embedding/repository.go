package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=embedding_repository_mock.go --case=underscore --with-expecter

// Repository stores query embeddings so repeated questions skip the
// provider round trip.
type Repository interface {
	Store(ctx context.Context, key string, e *Embedding) error
	Get(ctx context.Context, key string) (*Embedding, error)
}

// CacheKey identifies an embedding by model and input text.
func CacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
