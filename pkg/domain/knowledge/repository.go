package knowledge

import (
	"context"
)

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=knowledge_repository_mock.go --case=underscore --with-expecter

type Repository interface {
	Load(ctx context.Context) ([]Document, error)
}

// Invalidator is implemented by repositories that keep the store in memory.
type Invalidator interface {
	Invalidate()
}
