package config

import "time"

// EmbeddingConfig selects the hosted embedding service used by both the
// offline builder and the chat handler. The two must agree on provider and
// model or stored vectors and query vectors will not be comparable.
type EmbeddingConfig struct {
	Provider        string        `mapstructure:"provider"`
	Model           string        `mapstructure:"model"`
	BaseURL         string        `mapstructure:"base_url"`
	APIKey          string        `mapstructure:"api_key"`
	Normalize       bool          `mapstructure:"normalize"`
	Timeout         time.Duration `mapstructure:"timeout"`
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
	// CacheTTL bounds how long query embeddings are reused. Zero disables
	// the cache.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type ChatConfig struct {
	Provider      string                 `mapstructure:"provider"`
	Model         string                 `mapstructure:"model"`
	BaseURL       string                 `mapstructure:"base_url"`
	APIKey        string                 `mapstructure:"api_key"`
	MaxTokens     int                    `mapstructure:"max_tokens"`
	Temperature   float64                `mapstructure:"temperature"`
	Timeout       time.Duration          `mapstructure:"timeout"`
	AssistantName string                 `mapstructure:"assistant_name"`
	OwnerName     string                 `mapstructure:"owner_name"`
	Options       map[string]interface{} `mapstructure:"options"`
}
