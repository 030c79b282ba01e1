package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asifkhuda/turing/pkg/infra/providers"
	"github.com/asifkhuda/turing/pkg/infra/providers/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newChatServer(t *testing.T, status int, body string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestChat_Success(t *testing.T) {
	var captured capturedRequest
	server := newChatServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "Qwen/Qwen2.5-7B-Instruct",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "**Asif** studied CS."}}],
		"usage": {"prompt_tokens": 120, "completion_tokens": 8, "total_tokens": 128}
	}`, &captured)

	client := openai.NewHuggingFaceClient()
	resp, err := client.Chat(context.Background(), &providers.Config{
		Credentials: providers.Credentials{ApiKey: "hf_test"},
		Model:       openai.DefaultHuggingFaceModel,
		BaseURL:     server.URL + "/v1",
		MaxTokens:   500,
		Temperature: 0.5,
	}, []providers.Message{
		{Role: providers.RoleSystem, Content: "You are Turing."},
		{Role: providers.RoleUser, Content: "What did Asif study?"},
	})
	require.NoError(t, err)

	assert.Equal(t, "**Asif** studied CS.", resp.Response)
	assert.Equal(t, 128, resp.Usage.TotalTokens)

	assert.Equal(t, openai.DefaultHuggingFaceModel, captured.Model)
	assert.Equal(t, 500, captured.MaxTokens)
	assert.InDelta(t, 0.5, captured.Temperature, 1e-9)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "You are Turing.", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
}

func TestChat_NoChoices(t *testing.T) {
	server := newChatServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","model":"m","choices":[]}`, nil)

	client := openai.NewOpenaiClient(server.URL + "/v1")
	_, err := client.Chat(context.Background(), &providers.Config{
		Credentials: providers.Credentials{ApiKey: "hf_test"},
		Model:       "m",
	}, []providers.Message{{Role: providers.RoleUser, Content: "hi"}})
	assert.ErrorIs(t, err, providers.ErrNoCompletions)
}

func TestChat_UpstreamError(t *testing.T) {
	server := newChatServer(t, http.StatusUnauthorized, `{"error":{"message":"Invalid credentials in Authorization header"}}`, nil)

	client := openai.NewOpenaiClient(server.URL + "/v1")
	_, err := client.Chat(context.Background(), &providers.Config{
		Credentials: providers.Credentials{ApiKey: "hf_test"},
		Model:       "m",
	}, []providers.Message{{Role: providers.RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai request failed")
	assert.Contains(t, err.Error(), "401")
}

func TestChat_MissingAPIKey(t *testing.T) {
	client := openai.NewHuggingFaceClient()
	resp, err := client.Chat(context.Background(), &providers.Config{Model: "m"}, nil)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, providers.ErrAPIKeyRequired)
}

func TestChat_MissingModel(t *testing.T) {
	client := openai.NewHuggingFaceClient()
	_, err := client.Chat(context.Background(), &providers.Config{
		Credentials: providers.Credentials{ApiKey: "k"},
	}, nil)
	assert.ErrorIs(t, err, providers.ErrModelRequired)
}
