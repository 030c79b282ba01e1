package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/asifkhuda/turing/pkg/domain/embedding"
	"github.com/asifkhuda/turing/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

const (
	DefaultBaseURL        = "https://api.openai.com/v1"
	defaultRequestTimeout = 30 * time.Second
	errorExcerptLength    = 256
)

type embeddingService struct {
	client  *fasthttp.Client
	breaker httpx.CircuitBreaker
	logger  *logrus.Logger
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

func NewOpenAIEmbeddingService(
	client *fasthttp.Client,
	breaker httpx.CircuitBreaker,
	logger *logrus.Logger,
) embedding.Creator {
	return &embeddingService{
		client:  client,
		breaker: breaker,
		logger:  logger,
	}
}

func (s *embeddingService) Generate(
	ctx context.Context,
	text, model string,
	cfg *embedding.Config,
) (*embedding.Embedding, error) {
	if cfg == nil || cfg.Credentials.ApiKey == "" {
		return nil, embedding.ErrMissingCredentials
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(embeddingRequest{
		Model: model,
		Input: text,
	})
	if err != nil {
		s.logger.WithError(err).Error("failed to marshal embedding request payload")
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	var body []byte
	err = s.breaker.Execute(func() error {
		status, respBody, err := httpx.PostJSON(ctx, s.client, strings.TrimRight(baseURL, "/")+"/embeddings", cfg.Credentials.ApiKey, payload, timeout)
		if err != nil {
			s.logger.WithError(err).Error("error performing HTTP request for embeddings")
			return err
		}
		if status != fasthttp.StatusOK {
			s.logger.WithField("status", status).Error("non-OK response from embeddings API")
			return fmt.Errorf("%w: %d: %s", embedding.ErrProviderNonOKResponse, status, httpx.Excerpt(respBody, errorExcerptLength))
		}
		body = respBody
		return nil
	})
	if err != nil {
		return nil, err
	}

	vector, err := embedding.Normalize(body)
	if err != nil {
		s.logger.WithError(err).Error("failed to decode embeddings response")
		return nil, err
	}
	if cfg.Normalize {
		embedding.L2Normalize(vector)
	}

	return &embedding.Embedding{
		Value:     vector,
		Model:     model,
		CreatedAt: time.Now(),
	}, nil
}
