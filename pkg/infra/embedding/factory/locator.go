package factory

import (
	"fmt"
	"sync"

	"github.com/asifkhuda/turing/pkg/domain/embedding"
	"github.com/asifkhuda/turing/pkg/infra/embedding/huggingface"
	"github.com/asifkhuda/turing/pkg/infra/embedding/openai"
	"github.com/asifkhuda/turing/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

const (
	HuggingFaceProvider = "huggingface"
	OpenAIProvider      = "openai"
)

//go:generate mockery --name=EmbeddingServiceLocator --dir=. --output=./mocks --filename=embedding_service_locator_mock.go --case=underscore --with-expecter

type EmbeddingServiceLocator interface {
	GetService(provider string) (embedding.Creator, error)
}

type BreakerFactory func(name string) httpx.CircuitBreaker

type embeddingServiceLocator struct {
	logger     *logrus.Logger
	httpClient *fasthttp.Client
	breakers   BreakerFactory

	mu       sync.Mutex
	services map[string]embedding.Creator
}

// NewServiceLocator returns a locator that builds each provider once and
// hands out the same instance afterwards, so breaker state is shared by all
// callers of a provider.
func NewServiceLocator(logger *logrus.Logger, httpClient *fasthttp.Client, breakers BreakerFactory) EmbeddingServiceLocator {
	return &embeddingServiceLocator{
		logger:     logger,
		httpClient: httpClient,
		breakers:   breakers,
		services:   make(map[string]embedding.Creator),
	}
}

func (l *embeddingServiceLocator) GetService(provider string) (embedding.Creator, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if svc, ok := l.services[provider]; ok {
		return svc, nil
	}

	var svc embedding.Creator
	switch provider {
	case HuggingFaceProvider:
		svc = huggingface.NewHuggingFaceEmbeddingService(l.httpClient, l.breakers("embedding-"+provider), l.logger)
	case OpenAIProvider:
		svc = openai.NewOpenAIEmbeddingService(l.httpClient, l.breakers("embedding-"+provider), l.logger)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
	l.services[provider] = svc
	return svc, nil
}
