package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/asifkhuda/turing/pkg/domain/embedding"
	"github.com/asifkhuda/turing/pkg/domain/knowledge"
	"github.com/asifkhuda/turing/pkg/infra/cache"
	"github.com/asifkhuda/turing/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 8

var (
	ErrEmptyInput = errors.New("knowledge base input is empty")
	ErrEmptyText  = errors.New("record has no text")
)

type Options struct {
	InputPath   string
	OutputPath  string
	Concurrency int
}

type Result struct {
	Documents int
	Dimension int
	Elapsed   time.Duration
}

//go:generate mockery --name=Builder --dir=. --output=./mocks --filename=builder_mock.go --case=underscore --with-expecter

type Builder interface {
	Build(ctx context.Context, opts Options) (*Result, error)
}

type builder struct {
	creator   embedding.Creator
	cfg       *embedding.Config
	publisher cache.EventPublisher
	logger    *logrus.Logger
}

// NewBuilder returns a vector store builder. publisher may be nil, in which
// case running servers are not notified of the new store.
func NewBuilder(
	creator embedding.Creator,
	cfg *embedding.Config,
	publisher cache.EventPublisher,
	logger *logrus.Logger,
) Builder {
	return &builder{
		creator:   creator,
		cfg:       cfg,
		publisher: publisher,
		logger:    logger,
	}
}

func (b *builder) Build(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}

	docs, err := readInput(opts.InputPath)
	if err != nil {
		return nil, err
	}

	b.logger.WithFields(logrus.Fields{
		"input":       opts.InputPath,
		"records":     len(docs),
		"model":       b.cfg.Model,
		"concurrency": opts.Concurrency,
	}).Info("generating embeddings")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i := range docs {
		i := i
		g.Go(func() error {
			emb, err := b.creator.Generate(gctx, docs[i].Text, b.cfg.Model, b.cfg)
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			docs[i].Embedding = emb.Value
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dim := len(docs[0].Embedding)
	for i, doc := range docs {
		if len(doc.Embedding) != dim {
			return nil, fmt.Errorf("record %d: embedding has %d dimensions, expected %d", i, len(doc.Embedding), dim)
		}
	}

	if err := writeAtomic(opts.OutputPath, docs); err != nil {
		return nil, err
	}

	result := &Result{Documents: len(docs), Dimension: dim, Elapsed: time.Since(start)}
	b.logger.WithFields(logrus.Fields{
		"output":    opts.OutputPath,
		"documents": result.Documents,
		"dimension": result.Dimension,
		"elapsed":   result.Elapsed.String(),
	}).Info("vector store written")

	b.notify(ctx, opts.OutputPath, result.Documents)
	return result, nil
}

func (b *builder) notify(ctx context.Context, path string, count int) {
	if b.publisher == nil {
		return
	}
	err := b.publisher.Publish(ctx, event.ReloadKnowledgeEvent{
		Source:      "builder",
		Path:        path,
		Documents:   count,
		RequestedAt: time.Now().UTC(),
	})
	if err != nil {
		b.logger.WithError(err).Warn("failed to publish knowledge reload event")
	}
}

func readInput(path string) ([]knowledge.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base %s: %w", path, err)
	}
	var docs []knowledge.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode knowledge base %s: %w", path, err)
	}
	if len(docs) == 0 {
		return nil, ErrEmptyInput
	}
	for i, doc := range docs {
		if strings.TrimSpace(doc.Text) == "" {
			return nil, fmt.Errorf("%w: index %d", ErrEmptyText, i)
		}
	}
	return docs, nil
}

// writeAtomic replaces path only after the whole store has been written.
func writeAtomic(path string, docs []knowledge.Document) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode vector store: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".vector_store-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write vector store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync vector store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close vector store: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set vector store permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace vector store: %w", err)
	}
	return nil
}
