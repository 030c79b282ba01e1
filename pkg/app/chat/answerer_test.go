package chat_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/asifkhuda/turing/pkg/app/chat"
	"github.com/asifkhuda/turing/pkg/app/retrieval"
	"github.com/asifkhuda/turing/pkg/config"
	"github.com/asifkhuda/turing/pkg/domain/embedding"
	embeddingMocks "github.com/asifkhuda/turing/pkg/domain/embedding/mocks"
	"github.com/asifkhuda/turing/pkg/domain/knowledge"
	knowledgeMocks "github.com/asifkhuda/turing/pkg/domain/knowledge/mocks"
	"github.com/asifkhuda/turing/pkg/infra/cache"
	locatorMocks "github.com/asifkhuda/turing/pkg/infra/embedding/factory/mocks"
	"github.com/asifkhuda/turing/pkg/infra/providers"
	providerLocatorMocks "github.com/asifkhuda/turing/pkg/infra/providers/factory/mocks"
	providerMocks "github.com/asifkhuda/turing/pkg/infra/providers/mocks"
	"github.com/asifkhuda/turing/pkg/infra/repository"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	cfg       *config.Config
	repo      *knowledgeMocks.Repository
	creator   *embeddingMocks.Creator
	embedLoc  *locatorMocks.EmbeddingServiceLocator
	client    *providerMocks.Client
	clientLoc *providerLocatorMocks.ProviderLocator
}

func newFixture(t *testing.T) *fixture {
	return &fixture{
		cfg: &config.Config{
			Retrieval: config.RetrievalConfig{TopK: 3},
			Embedding: config.EmbeddingConfig{
				Provider: "huggingface",
				Model:    "sentence-transformers/all-MiniLM-L6-v2",
				APIKey:   "hf_test",
				Timeout:  time.Second,
			},
			Chat: config.ChatConfig{
				Provider:      "huggingface",
				Model:         "Qwen/Qwen2.5-7B-Instruct",
				APIKey:        "hf_test",
				MaxTokens:     500,
				Temperature:   0.5,
				AssistantName: "Turing",
				OwnerName:     "Asif A Khuda",
			},
		},
		repo:      knowledgeMocks.NewRepository(t),
		creator:   embeddingMocks.NewCreator(t),
		embedLoc:  locatorMocks.NewEmbeddingServiceLocator(t),
		client:    providerMocks.NewClient(t),
		clientLoc: providerLocatorMocks.NewProviderLocator(t),
	}
}

func (f *fixture) answerer(cacheRepo embedding.Repository) chat.Answerer {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return chat.NewAnswerer(
		f.cfg,
		logger,
		retrieval.NewRetriever(f.repo, logger),
		f.embedLoc,
		f.clientLoc,
		cacheRepo,
	)
}

func store() []knowledge.Document {
	return []knowledge.Document{
		{Text: "Asif studied computer science.", Embedding: []float64{1, 0}},
		{Text: "Asif plays football.", Embedding: []float64{0, 1}},
		{Text: "Asif built a RAG assistant.", Embedding: []float64{0.7, 0.7}},
		{Text: "Asif likes tea.", Embedding: []float64{-1, 0}},
	}
}

func TestAnswer_Success(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Load(mock.Anything).Return(store(), nil)
	f.embedLoc.EXPECT().GetService("huggingface").Return(f.creator, nil)
	f.creator.EXPECT().
		Generate(mock.Anything, "What did Asif study?", f.cfg.Embedding.Model, mock.Anything).
		Return(&embedding.Embedding{Value: []float64{1, 0}}, nil)
	f.clientLoc.EXPECT().Get("huggingface").Return(f.client, nil)

	var sent []providers.Message
	var sentCfg *providers.Config
	f.client.EXPECT().Chat(mock.Anything, mock.Anything, mock.Anything).
		Run(func(_ context.Context, cfg *providers.Config, messages []providers.Message) {
			sentCfg = cfg
			sent = messages
		}).
		Return(&providers.CompletionResponse{Response: "  **Computer science.**\n", Model: "qwen"}, nil)

	answer, err := f.answerer(nil).Answer(context.Background(), "What did Asif study?")
	require.NoError(t, err)
	assert.Equal(t, "  **Computer science.**\n", answer.Reply)
	require.Len(t, answer.Sources, 3)

	require.Len(t, sent, 2)
	assert.Equal(t, providers.RoleSystem, sent[0].Role)
	assert.True(t, strings.HasSuffix(sent[0].Content,
		"Context:\nAsif studied computer science.\n\nAsif built a RAG assistant.\n\nAsif plays football."))
	assert.Contains(t, sent[0].Content, "You are Turing. You are Asif A Khuda's AI Portfolio Assistant.")
	assert.NotContains(t, sent[0].Content, "Asif likes tea.")
	assert.Equal(t, providers.Message{Role: providers.RoleUser, Content: "What did Asif study?"}, sent[1])

	assert.Equal(t, 500, sentCfg.MaxTokens)
	assert.Equal(t, 0.5, sentCfg.Temperature)
	assert.Equal(t, "hf_test", sentCfg.Credentials.ApiKey)
}

func TestAnswer_MissingStoreMakesNoCalls(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Load(mock.Anything).Return(nil, knowledge.ErrKnowledgeBaseNotFound)

	_, err := f.answerer(nil).Answer(context.Background(), "hi")
	assert.ErrorIs(t, err, knowledge.ErrKnowledgeBaseNotFound)
	f.embedLoc.AssertNotCalled(t, "GetService", mock.Anything)
	f.clientLoc.AssertNotCalled(t, "Get", mock.Anything)
}

func TestAnswer_EmptyStoreTreatedAsMissing(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Load(mock.Anything).Return([]knowledge.Document{}, nil)

	_, err := f.answerer(nil).Answer(context.Background(), "hi")
	assert.ErrorIs(t, err, knowledge.ErrEmptyKnowledgeBase)
}

func TestAnswer_MissingCredential(t *testing.T) {
	f := newFixture(t)
	f.cfg.Chat.APIKey = ""

	_, err := f.answerer(nil).Answer(context.Background(), "hi")
	assert.ErrorIs(t, err, chat.ErrMissingCredential)
	f.repo.AssertNotCalled(t, "Load", mock.Anything)
}

func TestAnswer_BedrockNeedsNoChatKey(t *testing.T) {
	f := newFixture(t)
	f.cfg.Chat.APIKey = ""
	f.cfg.Chat.Provider = "bedrock"
	f.repo.EXPECT().Load(mock.Anything).Return(nil, knowledge.ErrKnowledgeBaseNotFound)

	_, err := f.answerer(nil).Answer(context.Background(), "hi")
	assert.ErrorIs(t, err, knowledge.ErrKnowledgeBaseNotFound)
}

func TestAnswer_EmptyMessage(t *testing.T) {
	f := newFixture(t)
	_, err := f.answerer(nil).Answer(context.Background(), "   ")
	assert.ErrorIs(t, err, chat.ErrEmptyMessage)
}

func TestAnswer_ChatErrorIsReturnedVerbatim(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Load(mock.Anything).Return(store(), nil)
	f.embedLoc.EXPECT().GetService("huggingface").Return(f.creator, nil)
	f.creator.EXPECT().Generate(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&embedding.Embedding{Value: []float64{1, 0}}, nil)
	f.clientLoc.EXPECT().Get("huggingface").Return(f.client, nil)
	f.client.EXPECT().Chat(mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("Model is overloaded"))

	_, err := f.answerer(nil).Answer(context.Background(), "hi")
	require.Error(t, err)
	assert.Equal(t, "Model is overloaded", err.Error())
}

func TestAnswer_EmbeddingFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Load(mock.Anything).Return(store(), nil)
	f.embedLoc.EXPECT().GetService("huggingface").Return(f.creator, nil)
	f.creator.EXPECT().Generate(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, embedding.ErrUnexpectedEmbeddingShape)

	_, err := f.answerer(nil).Answer(context.Background(), "hi")
	assert.ErrorIs(t, err, embedding.ErrUnexpectedEmbeddingShape)
	f.clientLoc.AssertNotCalled(t, "Get", mock.Anything)
}

func TestAnswer_DimensionMismatch(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Load(mock.Anything).Return(store(), nil)
	f.embedLoc.EXPECT().GetService("huggingface").Return(f.creator, nil)
	f.creator.EXPECT().Generate(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&embedding.Embedding{Value: []float64{1, 0, 0}}, nil)

	_, err := f.answerer(nil).Answer(context.Background(), "hi")
	assert.ErrorIs(t, err, retrieval.ErrDimensionMismatch)
}

func TestAnswer_ReusesCachedQueryEmbedding(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Load(mock.Anything).Return(store(), nil)
	f.embedLoc.EXPECT().GetService("huggingface").Return(f.creator, nil)
	f.creator.EXPECT().Generate(mock.Anything, "same question", mock.Anything, mock.Anything).
		Return(&embedding.Embedding{Value: []float64{1, 0}}, nil).Once()
	f.clientLoc.EXPECT().Get("huggingface").Return(f.client, nil)
	f.client.EXPECT().Chat(mock.Anything, mock.Anything, mock.Anything).
		Return(&providers.CompletionResponse{Response: "ok"}, nil)

	a := f.answerer(repository.NewMemoryEmbeddingRepository(cache.NewTTLMap(time.Hour)))
	for i := 0; i < 2; i++ {
		_, err := a.Answer(context.Background(), "same question")
		require.NoError(t, err)
	}
}
