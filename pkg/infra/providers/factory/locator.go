package factory

import (
	"fmt"
	"sync"

	"github.com/asifkhuda/turing/pkg/infra/httpx"
	"github.com/asifkhuda/turing/pkg/infra/providers"
	"github.com/asifkhuda/turing/pkg/infra/providers/anthropic"
	"github.com/asifkhuda/turing/pkg/infra/providers/azure"
	"github.com/asifkhuda/turing/pkg/infra/providers/bedrock"
	"github.com/asifkhuda/turing/pkg/infra/providers/gemini"
	"github.com/asifkhuda/turing/pkg/infra/providers/openai"
)

const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderGemini      = "gemini"
	ProviderAnthropic   = "anthropic"
	ProviderBedrock     = "bedrock"
	ProviderAzure       = "azure"
)

//go:generate mockery --name=ProviderLocator --dir=. --output=./mocks --filename=provider_locator_mock.go --case=underscore --with-expecter

type ProviderLocator interface {
	Get(provider string) (providers.Client, error)
}

type providerLocator struct {
	httpClient httpx.Client

	mu      sync.Mutex
	clients map[string]providers.Client
}

func NewProviderLocator(httpClient httpx.Client) ProviderLocator {
	return &providerLocator{
		httpClient: httpClient,
		clients:    make(map[string]providers.Client),
	}
}

func (f *providerLocator) Get(provider string) (providers.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.clients[provider]; ok {
		return c, nil
	}

	var c providers.Client
	switch provider {
	case ProviderHuggingFace:
		c = openai.NewHuggingFaceClient()
	case ProviderOpenAI:
		c = openai.NewOpenaiClient(openai.DefaultBaseURL)
	case ProviderGemini:
		c = gemini.NewGeminiClient()
	case ProviderAnthropic:
		c = anthropic.NewAnthropicClient()
	case ProviderBedrock:
		c = bedrock.NewBedrockClient()
	case ProviderAzure:
		c = azure.NewAzureClient(f.httpClient)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	f.clients[provider] = c
	return c, nil
}

// RequiresAPIKey reports whether the provider authenticates with the shared
// api key. Bedrock and identity-based Azure resolve credentials themselves.
func RequiresAPIKey(provider string, options map[string]interface{}) bool {
	switch provider {
	case ProviderBedrock:
		return false
	case ProviderAzure:
		useIdentity, _ := options["use_identity"].(bool)
		return !useIdentity
	default:
		return true
	}
}
