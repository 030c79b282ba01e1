package retrieval

import (
	"context"
	"fmt"

	"github.com/asifkhuda/turing/pkg/common"
	"github.com/asifkhuda/turing/pkg/domain/knowledge"
	"github.com/asifkhuda/turing/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

//go:generate mockery --name=Retriever --dir=. --output=./mocks --filename=retriever_mock.go --case=underscore --with-expecter

type Retriever interface {
	// Documents loads the current vector store.
	Documents(ctx context.Context) ([]knowledge.Document, error)
	// Select ranks docs against query and keeps the best k.
	Select(query []float64, docs []knowledge.Document, k int) ([]knowledge.ScoredDocument, error)
}

type retriever struct {
	repo   knowledge.Repository
	logger *logrus.Logger
}

func NewRetriever(repo knowledge.Repository, logger *logrus.Logger) Retriever {
	return &retriever{
		repo:   repo,
		logger: logger,
	}
}

func (r *retriever) Documents(ctx context.Context) ([]knowledge.Document, error) {
	docs, err := r.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, knowledge.ErrEmptyKnowledgeBase
	}
	return docs, nil
}

func (r *retriever) Select(query []float64, docs []knowledge.Document, k int) ([]knowledge.ScoredDocument, error) {
	if k <= 0 {
		k = common.DefaultTopK
	}

	scored, skipped := Rank(query, docs)
	if skipped > 0 {
		prometheus.RetrievalSkippedDocuments.Add(float64(skipped))
		r.logger.WithFields(logrus.Fields{
			"skipped":   skipped,
			"documents": len(docs),
			"dimension": len(query),
		}).Warn("documents skipped due to embedding dimension mismatch")
	}
	if len(scored) == 0 && len(docs) > 0 {
		return nil, fmt.Errorf(
			"%w: query has %d dimensions and no stored document matches",
			ErrDimensionMismatch,
			len(query),
		)
	}

	if len(scored) > k {
		scored = scored[:k]
	}
	if len(scored) > 0 && prometheus.Config.EnableScores {
		prometheus.RetrievalTopScore.Observe(scored[0].Score)
	}
	return scored, nil
}
