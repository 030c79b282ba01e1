package bedrock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/asifkhuda/turing/pkg/infra/providers"
	"github.com/asifkhuda/turing/pkg/infra/providers/bedrock"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type converseMock struct {
	mock.Mock
}

func (m *converseMock) Converse(
	ctx context.Context,
	params *bedrockruntime.ConverseInput,
	optFns ...func(*bedrockruntime.Options),
) (*bedrockruntime.ConverseOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*bedrockruntime.ConverseOutput)
	return out, args.Error(1)
}

func TestChat_Converse(t *testing.T) {
	runtime := new(converseMock)
	runtime.On("Converse", mock.Anything, mock.MatchedBy(func(in *bedrockruntime.ConverseInput) bool {
		sys, ok := in.System[0].(*types.SystemContentBlockMemberText)
		return aws.ToString(in.ModelId) == "anthropic.claude-3-haiku-20240307-v1:0" &&
			ok && sys.Value == "You are Turing." &&
			len(in.Messages) == 1 &&
			in.Messages[0].Role == types.ConversationRoleUser &&
			aws.ToInt32(in.InferenceConfig.MaxTokens) == 500
	})).Return(&bedrockruntime.ConverseOutput{
		Output: &types.ConverseOutputMemberMessage{Value: types.Message{
			Role:    types.ConversationRoleAssistant,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: "Hi there"}},
		}},
		Usage: &types.TokenUsage{InputTokens: aws.Int32(10), OutputTokens: aws.Int32(2), TotalTokens: aws.Int32(12)},
	}, nil)

	var builtRegion string
	client := bedrock.NewBedrockClientWithBuilder(func(ctx context.Context, opts bedrock.Options) (bedrock.ConverseAPI, error) {
		builtRegion = opts.Region
		return runtime, nil
	})

	resp, err := client.Chat(context.Background(), &providers.Config{
		Model:     "anthropic.claude-3-haiku-20240307-v1:0",
		MaxTokens: 500,
		Options:   map[string]interface{}{"region": "eu-west-1"},
	}, []providers.Message{
		{Role: providers.RoleSystem, Content: "You are Turing."},
		{Role: providers.RoleUser, Content: "hello"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Hi there", resp.Response)
	assert.Equal(t, 12, resp.Usage.TotalTokens)
	assert.Equal(t, "eu-west-1", builtRegion)
	runtime.AssertExpectations(t)
}

func TestChat_ReusesClientPerRegion(t *testing.T) {
	runtime := new(converseMock)
	runtime.On("Converse", mock.Anything, mock.Anything).Return(&bedrockruntime.ConverseOutput{
		Output: &types.ConverseOutputMemberMessage{Value: types.Message{
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: "ok"}},
		}},
	}, nil)

	builds := 0
	client := bedrock.NewBedrockClientWithBuilder(func(context.Context, bedrock.Options) (bedrock.ConverseAPI, error) {
		builds++
		return runtime, nil
	})
	cfg := &providers.Config{Model: "m"}
	for i := 0; i < 3; i++ {
		_, err := client.Chat(context.Background(), cfg, []providers.Message{{Role: providers.RoleUser, Content: "x"}})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, builds)
}

func TestChat_EmptyOutput(t *testing.T) {
	runtime := new(converseMock)
	runtime.On("Converse", mock.Anything, mock.Anything).Return(&bedrockruntime.ConverseOutput{}, nil)

	client := bedrock.NewBedrockClientWithBuilder(func(context.Context, bedrock.Options) (bedrock.ConverseAPI, error) {
		return runtime, nil
	})
	_, err := client.Chat(context.Background(), &providers.Config{Model: "m"}, nil)
	assert.ErrorIs(t, err, providers.ErrNoCompletions)
}

func TestChat_BuilderError(t *testing.T) {
	client := bedrock.NewBedrockClientWithBuilder(func(context.Context, bedrock.Options) (bedrock.ConverseAPI, error) {
		return nil, errors.New("no credentials")
	})
	_, err := client.Chat(context.Background(), &providers.Config{Model: "m"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no credentials")
}
