package huggingface

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
	DefaultBaseURL        = "https://router.huggingface.co/hf-inference"
	defaultRequestTimeout = 30 * time.Second
	errorExcerptLength    = 256
)

type embeddingService struct {
	client  *fasthttp.Client
	breaker httpx.CircuitBreaker
	logger  *logrus.Logger
}

type featureExtractionRequest struct {
	Inputs  string            `json:"inputs"`
	Options extractionOptions `json:"options"`
}

type extractionOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// NewHuggingFaceEmbeddingService calls the hosted feature-extraction
// pipeline. The response may be a flat vector, a batch of one or per-token
// vectors depending on the model; all are reduced to one vector.
func NewHuggingFaceEmbeddingService(
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

	payload, err := json.Marshal(featureExtractionRequest{
		Inputs:  text,
		Options: extractionOptions{WaitForModel: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feature extraction request: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	var body []byte
	err = s.breaker.Execute(func() error {
		status, respBody, err := httpx.PostJSON(ctx, s.client, endpoint(cfg.BaseURL, model), cfg.Credentials.ApiKey, payload, timeout)
		if err != nil {
			return err
		}
		if status != fasthttp.StatusOK {
			s.logger.WithFields(logrus.Fields{
				"status": status,
				"model":  model,
			}).Error("non-OK response from feature extraction API")
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
		s.logger.WithError(err).WithField("model", model).Error("failed to parse feature extraction response")
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

func endpoint(baseURL, model string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return fmt.Sprintf("%s/models/%s/pipeline/feature-extraction", strings.TrimRight(baseURL, "/"), model)
}
