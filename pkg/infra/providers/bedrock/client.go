package bedrock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/asifkhuda/turing/pkg/infra/providers"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/mitchellh/mapstructure"
)

const (
	defaultRegion      = "us-east-1"
	defaultSessionName = "TuringBedrockSession"
)

// Options are read from chat.options. With no static keys the default AWS
// credential chain is used.
type Options struct {
	Region       string `mapstructure:"region"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	SessionToken string `mapstructure:"session_token"`
	RoleARN      string `mapstructure:"role_arn"`
}

//go:generate mockery --name=ConverseAPI --dir=. --output=./mocks --filename=converse_api_mock.go --case=underscore --with-expecter

type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type ClientBuilder func(ctx context.Context, opts Options) (ConverseAPI, error)

type client struct {
	build      ClientBuilder
	clientPool *sync.Map
}

func NewBedrockClient() providers.Client {
	return NewBedrockClientWithBuilder(buildRuntimeClient)
}

func NewBedrockClientWithBuilder(build ClientBuilder) providers.Client {
	return &client{
		build:      build,
		clientPool: &sync.Map{},
	}
}

func (c *client) Chat(
	ctx context.Context,
	cfg *providers.Config,
	messages []providers.Message,
) (*providers.CompletionResponse, error) {
	if err := providers.Validate(cfg, false); err != nil {
		return nil, err
	}

	var opts Options
	if len(cfg.Options) > 0 {
		if err := mapstructure.Decode(cfg.Options, &opts); err != nil {
			return nil, fmt.Errorf("invalid bedrock options: %w", err)
		}
	}
	if opts.Region == "" {
		opts.Region = defaultRegion
	}

	runtime, err := c.getOrCreateClient(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bedrock client: %w", err)
	}

	system, turns := providers.SplitSystem(messages)
	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(cfg.Model),
		Messages: toMessages(turns),
	}
	if system != "" {
		input.System = []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: system},
		}
	}
	inference := &types.InferenceConfiguration{}
	if cfg.MaxTokens > 0 {
		inference.MaxTokens = aws.Int32(int32(cfg.MaxTokens))
	}
	if cfg.Temperature > 0 {
		inference.Temperature = aws.Float32(float32(cfg.Temperature))
	}
	input.InferenceConfig = inference

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	out, err := runtime.Converse(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("bedrock request failed: %w", err)
	}

	text := extractText(out)
	if text == "" {
		return nil, providers.ErrNoCompletions
	}

	resp := &providers.CompletionResponse{
		Model:    cfg.Model,
		Response: text,
	}
	if out.Usage != nil {
		resp.Usage = providers.Usage{
			PromptTokens:     int(aws.ToInt32(out.Usage.InputTokens)),
			CompletionTokens: int(aws.ToInt32(out.Usage.OutputTokens)),
			TotalTokens:      int(aws.ToInt32(out.Usage.TotalTokens)),
		}
	}
	return resp, nil
}

func toMessages(turns []providers.Message) []types.Message {
	out := make([]types.Message, 0, len(turns))
	for _, m := range turns {
		role := types.ConversationRoleUser
		if m.Role == providers.RoleAssistant {
			role = types.ConversationRoleAssistant
		}
		out = append(out, types.Message{
			Role:    role,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: m.Content}},
		})
	}
	return out
}

func extractText(out *bedrockruntime.ConverseOutput) string {
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			b.WriteString(text.Value)
		}
	}
	return b.String()
}

func (c *client) getOrCreateClient(ctx context.Context, opts Options) (ConverseAPI, error) {
	key := fmt.Sprintf("%s:%s:%s", opts.Region, opts.AccessKey, opts.RoleARN)
	if v, ok := c.clientPool.Load(key); ok {
		if runtime, ok := v.(ConverseAPI); ok {
			return runtime, nil
		}
	}
	runtime, err := c.build(ctx, opts)
	if err != nil {
		return nil, err
	}
	actual, _ := c.clientPool.LoadOrStore(key, runtime)
	if stored, ok := actual.(ConverseAPI); ok {
		return stored, nil
	}
	return runtime, nil
}

func buildRuntimeClient(ctx context.Context, opts Options) (ConverseAPI, error) {
	cfg, err := loadAWSConfig(ctx, opts.AccessKey, opts.SecretKey, opts.SessionToken, opts.Region)
	if err != nil {
		return nil, err
	}
	if opts.RoleARN != "" {
		stsClient := sts.NewFromConfig(cfg)
		output, err := stsClient.AssumeRole(ctx, &sts.AssumeRoleInput{
			RoleArn:         aws.String(opts.RoleARN),
			RoleSessionName: aws.String(defaultSessionName),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to assume role: %w", err)
		}
		cfg, err = loadAWSConfig(ctx,
			aws.ToString(output.Credentials.AccessKeyId),
			aws.ToString(output.Credentials.SecretAccessKey),
			aws.ToString(output.Credentials.SessionToken),
			opts.Region,
		)
		if err != nil {
			return nil, err
		}
	}
	return bedrockruntime.NewFromConfig(cfg), nil
}

func loadAWSConfig(ctx context.Context, accessKey, secretKey, sessionToken, region string) (aws.Config, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     accessKey,
					SecretAccessKey: secretKey,
					SessionToken:    sessionToken,
				}, nil
			},
		)))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}
