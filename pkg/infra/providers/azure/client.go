package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/asifkhuda/turing/pkg/infra/httpx"
	"github.com/asifkhuda/turing/pkg/infra/providers"
	"github.com/mitchellh/mapstructure"
)

const (
	defaultAPIVersion  = "2024-02-15-preview"
	cognitiveScope     = "https://cognitiveservices.azure.com/.default"
	errorExcerptLength = 512
)

// Options are read from chat.options. Model is the deployment name.
type Options struct {
	Endpoint    string `mapstructure:"endpoint"`
	APIVersion  string `mapstructure:"api_version"`
	UseIdentity bool   `mapstructure:"use_identity"`
}

type chatRequest struct {
	Messages    []providers.Message `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage providers.Usage `json:"usage"`
}

type CredentialFactory func() (azcore.TokenCredential, error)

type client struct {
	httpClient    httpx.Client
	newCredential CredentialFactory

	credOnce sync.Once
	cred     azcore.TokenCredential
	credErr  error
}

func NewAzureClient(httpClient httpx.Client) providers.Client {
	return NewAzureClientWithCredential(httpClient, func() (azcore.TokenCredential, error) {
		return azidentity.NewDefaultAzureCredential(nil)
	})
}

func NewAzureClientWithCredential(httpClient httpx.Client, newCredential CredentialFactory) providers.Client {
	return &client{
		httpClient:    httpClient,
		newCredential: newCredential,
	}
}

// Chat calls an Azure OpenAI deployment with either an api-key header or an
// Entra ID bearer token when use_identity is set.
func (c *client) Chat(
	ctx context.Context,
	config *providers.Config,
	messages []providers.Message,
) (*providers.CompletionResponse, error) {
	var opts Options
	if len(config.Options) > 0 {
		if err := mapstructure.Decode(config.Options, &opts); err != nil {
			return nil, fmt.Errorf("invalid azure options: %w", err)
		}
	}
	if opts.Endpoint == "" {
		opts.Endpoint = config.BaseURL
	}
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("azure endpoint is required")
	}
	if opts.APIVersion == "" {
		opts.APIVersion = defaultAPIVersion
	}
	if err := providers.Validate(config, !opts.UseIdentity); err != nil {
		return nil, err
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(chatRequest{
		Messages:    messages,
		MaxTokens:   config.MaxTokens,
		Temperature: config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(opts.Endpoint, "/"), config.Model, opts.APIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if opts.UseIdentity {
		token, err := c.token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		req.Header.Set("api-key", config.Credentials.ApiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azure request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("azure request failed with status %d: %s", resp.StatusCode, httpx.Excerpt(respBody, errorExcerptLength))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, providers.ErrNoCompletions
	}

	model := parsed.Model
	if model == "" {
		model = config.Model
	}
	return &providers.CompletionResponse{
		ID:       parsed.ID,
		Model:    model,
		Response: parsed.Choices[0].Message.Content,
		Usage:    parsed.Usage,
	}, nil
}

func (c *client) token(ctx context.Context) (string, error) {
	c.credOnce.Do(func() {
		c.cred, c.credErr = c.newCredential()
	})
	if c.credErr != nil {
		return "", fmt.Errorf("failed to create azure credential: %w", c.credErr)
	}
	token, err := c.cred.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{cognitiveScope},
	})
	if err != nil {
		return "", fmt.Errorf("failed to get azure AD token: %w", err)
	}
	return token.Token, nil
}
