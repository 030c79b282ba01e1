package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HF_TOKEN", "")
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, "sentence-transformers/all-MiniLM-L6-v2", cfg.Embedding.Model)
	assert.Equal(t, "Qwen/Qwen2.5-7B-Instruct", cfg.Chat.Model)
	assert.Equal(t, 500, cfg.Chat.MaxTokens)
	assert.InDelta(t, 0.5, cfg.Chat.Temperature, 1e-9)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.True(t, cfg.Knowledge.Cache)
	assert.Empty(t, cfg.Chat.APIKey)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: 3000
knowledge:
  path: /srv/store.json
  cache: false
chat:
  provider: openai
  model: gpt-4o-mini
  temperature: 0.2
  options:
    api: completions
`)
	t.Setenv("HF_TOKEN", "")
	t.Setenv("RETRIEVAL_TOP_K", "5")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "/srv/store.json", cfg.Knowledge.Path)
	assert.False(t, cfg.Knowledge.Cache)
	assert.Equal(t, "openai", cfg.Chat.Provider)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, "completions", cfg.Chat.Options["api"])
}

func TestLoad_SharedTokenFillsProviderKeys(t *testing.T) {
	dir := writeConfig(t, `
embedding:
  api_key: embed-only
`)
	t.Setenv("HF_TOKEN", "hf_secret")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "embed-only", cfg.Embedding.APIKey)
	assert.Equal(t, "hf_secret", cfg.Chat.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero top k", mutate: func(c *Config) { c.Retrieval.TopK = 0 }, wantErr: "retrieval.top_k"},
		{name: "missing path", mutate: func(c *Config) { c.Knowledge.Path = "" }, wantErr: "knowledge.path"},
		{name: "missing chat model", mutate: func(c *Config) { c.Chat.Model = "" }, wantErr: "chat.provider"},
		{name: "temperature out of range", mutate: func(c *Config) { c.Chat.Temperature = 3 }, wantErr: "chat.temperature"},
		{name: "rate limit without window", mutate: func(c *Config) { c.RateLimit.Window = 0 }, wantErr: "rate_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HF_TOKEN", "")
			cfg, err := Load(t.TempDir())
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
