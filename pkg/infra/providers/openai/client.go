package openai

import (
	"context"
	"fmt"
	"sync"

	"github.com/asifkhuda/turing/pkg/infra/providers"
	"github.com/mitchellh/mapstructure"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultBaseURL           = "https://api.openai.com/v1"
	HuggingFaceRouterBaseURL = "https://router.huggingface.co/v1"
	DefaultHuggingFaceModel  = "Qwen/Qwen2.5-7B-Instruct"
)

type openaiOptions struct {
	Organization string `mapstructure:"organization"`
}

type client struct {
	defaultBaseURL string
	clientPool     *sync.Map
	sf             singleflight.Group
}

// NewOpenaiClient talks to any OpenAI-compatible chat completions API.
// defaultBaseURL is used when the request config does not set one.
func NewOpenaiClient(defaultBaseURL string) providers.Client {
	if defaultBaseURL == "" {
		defaultBaseURL = DefaultBaseURL
	}
	return &client{
		defaultBaseURL: defaultBaseURL,
		clientPool:     &sync.Map{},
	}
}

// NewHuggingFaceClient targets the Hugging Face router, which exposes hosted
// instruct models behind the OpenAI chat completions schema.
func NewHuggingFaceClient() providers.Client {
	return NewOpenaiClient(HuggingFaceRouterBaseURL)
}

func (c *client) Chat(
	ctx context.Context,
	config *providers.Config,
	messages []providers.Message,
) (*providers.CompletionResponse, error) {
	if err := providers.Validate(config, true); err != nil {
		return nil, err
	}

	var options openaiOptions
	if len(config.Options) > 0 {
		if err := mapstructure.Decode(config.Options, &options); err != nil {
			return nil, fmt.Errorf("invalid openai options: %w", err)
		}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = c.defaultBaseURL
	}
	openaiClient := c.getOrCreateClient(config.Credentials.ApiKey, baseURL, options.Organization)

	params := openai.ChatCompletionNewParams{
		Model:    config.Model,
		Messages: toParams(messages),
	}
	if config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(config.MaxTokens))
	}
	if config.Temperature > 0 {
		params.Temperature = openai.Float(config.Temperature)
	}

	var reqOpts []option.RequestOption
	if config.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(config.Timeout))
	}

	resp, err := openaiClient.Chat.Completions.New(ctx, params, reqOpts...)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, providers.ErrNoCompletions
	}

	return &providers.CompletionResponse{
		ID:       resp.ID,
		Model:    resp.Model,
		Response: resp.Choices[0].Message.Content,
		Usage: providers.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

func toParams(messages []providers.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case providers.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case providers.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func (c *client) getOrCreateClient(apiKey, baseURL, organization string) *openai.Client {
	key := apiKey + "|" + baseURL + "|" + organization
	if v, ok := c.clientPool.Load(key); ok {
		if cli, ok := v.(*openai.Client); ok {
			return cli
		}
	}
	v, _, _ := c.sf.Do(key, func() (any, error) {
		if v, ok := c.clientPool.Load(key); ok {
			return v, nil
		}
		opts := []option.RequestOption{
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
			option.WithMaxRetries(0),
		}
		if organization != "" {
			opts = append(opts, option.WithOrganization(organization))
		}
		cli := openai.NewClient(opts...)
		c.clientPool.Store(key, &cli)
		return &cli, nil
	})
	if cli, ok := v.(*openai.Client); ok {
		return cli
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey), option.WithBaseURL(baseURL))
	return &cli
}
