package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type MetricsConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	EnableLatency bool `mapstructure:"enable_latency"`
	EnableScores  bool `mapstructure:"enable_scores"`
}

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	Knowledge   KnowledgeConfig   `mapstructure:"knowledge"`
	Retrieval   RetrievalConfig   `mapstructure:"retrieval"`
	Embedding   EmbeddingConfig   `mapstructure:"embedding"`
	Chat        ChatConfig        `mapstructure:"chat"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	MetricsPort    int      `mapstructure:"metrics_port"`
	Host           string   `mapstructure:"host"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	SecretKey      string   `mapstructure:"secret_key"`
	BodyLimit      int      `mapstructure:"body_limit"`
	// ProxyHeader names the header carrying the client IP when running
	// behind a reverse proxy, e.g. X-Forwarded-For.
	ProxyHeader string `mapstructure:"proxy_header"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

// CredentialsConfig holds the single hosted-model secret shared by the
// embedding and chat providers unless they set their own api_key.
type CredentialsConfig struct {
	Token string `mapstructure:"token"`
}

type KnowledgeConfig struct {
	Path           string `mapstructure:"path"`
	Cache          bool   `mapstructure:"cache"`
	ReloadSchedule string `mapstructure:"reload_schedule"`
}

type RetrievalConfig struct {
	TopK int `mapstructure:"top_k"`
}

type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

// Load reads config.yaml from configPath (falling back to ./config and .),
// applies environment overrides and defaults, and validates the result.
// A missing file is not an error: every key has a default or an env binding.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaultValues(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("credentials.token", "HF_TOKEN", "CREDENTIALS_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind credentials env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file config.yaml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.resolveCredentials()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaultValues(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.host", "")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.secret_key", "")
	v.SetDefault("server.body_limit", 64*1024)
	v.SetDefault("server.proxy_header", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.enable_latency", true)
	v.SetDefault("metrics.enable_scores", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.tls", false)

	v.SetDefault("knowledge.path", "data/vector_store.json")
	v.SetDefault("knowledge.cache", true)
	v.SetDefault("knowledge.reload_schedule", "")

	v.SetDefault("retrieval.top_k", 3)

	v.SetDefault("embedding.provider", "huggingface")
	v.SetDefault("embedding.model", "sentence-transformers/all-MiniLM-L6-v2")
	v.SetDefault("embedding.base_url", "")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.normalize", true)
	v.SetDefault("embedding.timeout", "30s")
	v.SetDefault("embedding.breaker_failures", 5)
	v.SetDefault("embedding.breaker_timeout", "30s")
	v.SetDefault("embedding.cache_ttl", "24h")

	v.SetDefault("chat.provider", "huggingface")
	v.SetDefault("chat.model", "Qwen/Qwen2.5-7B-Instruct")
	v.SetDefault("chat.base_url", "")
	v.SetDefault("chat.api_key", "")
	v.SetDefault("chat.max_tokens", 500)
	v.SetDefault("chat.temperature", 0.5)
	v.SetDefault("chat.timeout", "60s")
	v.SetDefault("chat.assistant_name", "Turing")
	v.SetDefault("chat.owner_name", "Asif A Khuda")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.limit", 20)
	v.SetDefault("rate_limit.window", "1m")
}

func (c *Config) resolveCredentials() {
	if c.Embedding.APIKey == "" {
		c.Embedding.APIKey = c.Credentials.Token
	}
	if c.Chat.APIKey == "" {
		c.Chat.APIKey = c.Credentials.Token
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive")
	}
	if c.Knowledge.Path == "" {
		return fmt.Errorf("knowledge.path is required")
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Embedding.Provider == "" || c.Embedding.Model == "" {
		return fmt.Errorf("embedding.provider and embedding.model are required")
	}
	if c.Chat.Provider == "" || c.Chat.Model == "" {
		return fmt.Errorf("chat.provider and chat.model are required")
	}
	if c.Chat.MaxTokens <= 0 {
		return fmt.Errorf("chat.max_tokens must be positive")
	}
	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		return fmt.Errorf("chat.temperature must be within [0, 2], got %v", c.Chat.Temperature)
	}
	if c.RateLimit.Enabled && (c.RateLimit.Limit <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate_limit.limit and rate_limit.window must be positive when enabled")
	}
	return nil
}
