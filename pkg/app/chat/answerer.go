package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/asifkhuda/turing/pkg/app/retrieval"
	"github.com/asifkhuda/turing/pkg/config"
	"github.com/asifkhuda/turing/pkg/domain/embedding"
	"github.com/asifkhuda/turing/pkg/domain/knowledge"
	embeddingFactory "github.com/asifkhuda/turing/pkg/infra/embedding/factory"
	"github.com/asifkhuda/turing/pkg/infra/embedding/cached"
	"github.com/asifkhuda/turing/pkg/infra/prometheus"
	"github.com/asifkhuda/turing/pkg/infra/providers"
	providersFactory "github.com/asifkhuda/turing/pkg/infra/providers/factory"
	"github.com/sirupsen/logrus"
)

type Answer struct {
	Reply   string
	Model   string
	Sources []knowledge.ScoredDocument
}

//go:generate mockery --name=Answerer --dir=. --output=./mocks --filename=answerer_mock.go --case=underscore --with-expecter

type Answerer interface {
	// CheckCredentials fails with ErrMissingCredential when a configured
	// provider has no api key.
	CheckCredentials() error
	Answer(ctx context.Context, message string) (*Answer, error)
}

type answerer struct {
	cfg              *config.Config
	logger           *logrus.Logger
	retriever        retrieval.Retriever
	embeddingLocator embeddingFactory.EmbeddingServiceLocator
	providerLocator  providersFactory.ProviderLocator
	embeddingCache   embedding.Repository
}

// NewAnswerer wires the retrieval pipeline. embeddingCache may be nil.
func NewAnswerer(
	cfg *config.Config,
	logger *logrus.Logger,
	retriever retrieval.Retriever,
	embeddingLocator embeddingFactory.EmbeddingServiceLocator,
	providerLocator providersFactory.ProviderLocator,
	embeddingCache embedding.Repository,
) Answerer {
	return &answerer{
		cfg:              cfg,
		logger:           logger,
		retriever:        retriever,
		embeddingLocator: embeddingLocator,
		providerLocator:  providerLocator,
		embeddingCache:   embeddingCache,
	}
}

func (a *answerer) Answer(ctx context.Context, message string) (*Answer, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}
	if err := a.CheckCredentials(); err != nil {
		return nil, err
	}

	docs, err := a.retriever.Documents(ctx)
	if err != nil {
		return nil, err
	}

	query, err := a.embed(ctx, message)
	if err != nil {
		return nil, err
	}

	top, err := a.retriever.Select(query, docs, a.cfg.Retrieval.TopK)
	if err != nil {
		return nil, err
	}

	persona := Persona{AssistantName: a.cfg.Chat.AssistantName, OwnerName: a.cfg.Chat.OwnerName}
	resp, err := a.complete(ctx, persona.Messages(retrieval.BuildContext(top), message))
	if err != nil {
		return nil, err
	}

	return &Answer{
		Reply:   resp.Response,
		Model:   resp.Model,
		Sources: top,
	}, nil
}

func (a *answerer) CheckCredentials() error {
	if a.cfg.Embedding.APIKey == "" {
		return fmt.Errorf("%w: embedding provider %s", ErrMissingCredential, a.cfg.Embedding.Provider)
	}
	if a.cfg.Chat.APIKey == "" && providersFactory.RequiresAPIKey(a.cfg.Chat.Provider, a.cfg.Chat.Options) {
		return fmt.Errorf("%w: chat provider %s", ErrMissingCredential, a.cfg.Chat.Provider)
	}
	return nil
}

func (a *answerer) embed(ctx context.Context, message string) ([]float64, error) {
	creator, err := a.embeddingLocator.GetService(a.cfg.Embedding.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to get embedding service: %w", err)
	}
	if a.embeddingCache != nil {
		creator = cached.NewCachedCreator(creator, a.embeddingCache, a.logger)
	}

	start := time.Now()
	emb, err := creator.Generate(ctx, message, a.cfg.Embedding.Model, &embedding.Config{
		Provider:  a.cfg.Embedding.Provider,
		Model:     a.cfg.Embedding.Model,
		BaseURL:   a.cfg.Embedding.BaseURL,
		Normalize: a.cfg.Embedding.Normalize,
		Timeout:   a.cfg.Embedding.Timeout,
		Credentials: embedding.Credentials{
			ApiKey: a.cfg.Embedding.APIKey,
		},
	})
	a.observe("embedding", a.cfg.Embedding.Provider, start)
	if err != nil {
		return nil, fmt.Errorf("failed to embed message: %w", err)
	}
	if emb.Dimension() == 0 {
		return nil, embedding.ErrUnexpectedEmbeddingShape
	}
	return emb.Value, nil
}

func (a *answerer) complete(ctx context.Context, messages []providers.Message) (*providers.CompletionResponse, error) {
	client, err := a.providerLocator.Get(a.cfg.Chat.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat provider: %w", err)
	}

	start := time.Now()
	resp, err := client.Chat(ctx, &providers.Config{
		Credentials: providers.Credentials{ApiKey: a.cfg.Chat.APIKey},
		Model:       a.cfg.Chat.Model,
		BaseURL:     a.cfg.Chat.BaseURL,
		MaxTokens:   a.cfg.Chat.MaxTokens,
		Temperature: a.cfg.Chat.Temperature,
		Timeout:     a.cfg.Chat.Timeout,
		Options:     a.cfg.Chat.Options,
	}, messages)
	a.observe("chat", a.cfg.Chat.Provider, start)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (a *answerer) observe(kind, provider string, start time.Time) {
	if !prometheus.Config.EnableLatency {
		return
	}
	prometheus.UpstreamLatency.WithLabelValues(kind, provider).Observe(float64(time.Since(start).Milliseconds()))
}
