package dependency_container

import (
	"context"
	"fmt"
	"reflect"

	"github.com/asifkhuda/turing/pkg/app/builder"
	"github.com/asifkhuda/turing/pkg/app/chat"
	"github.com/asifkhuda/turing/pkg/app/retrieval"
	"github.com/asifkhuda/turing/pkg/config"
	domainEmbedding "github.com/asifkhuda/turing/pkg/domain/embedding"
	handlers "github.com/asifkhuda/turing/pkg/handlers/http"
	"github.com/asifkhuda/turing/pkg/infra/auth/jwt"
	"github.com/asifkhuda/turing/pkg/infra/cache"
	"github.com/asifkhuda/turing/pkg/infra/cache/channel"
	"github.com/asifkhuda/turing/pkg/infra/cache/event"
	"github.com/asifkhuda/turing/pkg/infra/cache/subscriber"
	"github.com/asifkhuda/turing/pkg/infra/embedding/factory"
	"github.com/asifkhuda/turing/pkg/infra/httpx"
	"github.com/asifkhuda/turing/pkg/infra/prometheus"
	providersFactory "github.com/asifkhuda/turing/pkg/infra/providers/factory"
	"github.com/asifkhuda/turing/pkg/infra/ratelimit"
	"github.com/asifkhuda/turing/pkg/infra/repository"
	"github.com/asifkhuda/turing/pkg/infra/scheduler"
	"github.com/asifkhuda/turing/pkg/middleware"
	"github.com/asifkhuda/turing/pkg/server/router"
	"github.com/sirupsen/logrus"
)

const (
	reloadSourceSchedule = "schedule"
	reloadJobName        = "knowledge-reload"
)

type Container struct {
	Cache               cache.Client
	RedisListener       cache.EventListener
	RedisPublisher      cache.EventPublisher
	KnowledgeRepository repository.CachedKnowledgeRepository
	EmbeddingRepository domainEmbedding.Repository
	EmbeddingLocator    factory.EmbeddingServiceLocator
	ProviderLocator     providersFactory.ProviderLocator
	Retriever           retrieval.Retriever
	Answerer            chat.Answerer
	Limiter             ratelimit.Limiter
	JWTManager          jwt.Manager
	Scheduler           *scheduler.Scheduler
	MiddlewareTransport *middleware.Transport
	HandlerTransport    handlers.HandlerTransport
	Routers             []router.ServerRouter
}

type ContainerDI struct {
	Cfg            *config.Config
	Logger         *logrus.Logger
	EventsRegistry map[string]reflect.Type
	EventsChannel  channel.Channel
}

func NewContainer(di ContainerDI) (*Container, error) {
	cfg := di.Cfg
	logger := di.Logger

	if cfg.Metrics.Enabled {
		prometheus.Initialize(prometheus.MetricsConfig{
			EnableLatency: cfg.Metrics.EnableLatency,
			EnableScores:  cfg.Metrics.EnableScores,
		})
	}

	c := &Container{}

	if cfg.Redis.Enabled {
		cacheInstance, err := NewCache(cfg, logger)
		if err != nil {
			return nil, err
		}
		c.Cache = cacheInstance
		c.RedisPublisher = cache.NewRedisEventPublisher(cacheInstance, di.EventsChannel)
		c.RedisListener = cache.NewRedisEventListener(logger, cacheInstance, di.EventsRegistry)
	}

	// knowledge
	knowledgeSource := repository.NewFileKnowledgeRepository(cfg.Knowledge.Path)
	if cfg.Knowledge.Cache {
		c.KnowledgeRepository = repository.NewCachedKnowledgeRepository(knowledgeSource, logger)
	} else {
		c.KnowledgeRepository = repository.NewPassthroughKnowledgeRepository(knowledgeSource)
	}
	if c.RedisListener != nil {
		cache.RegisterEventSubscriber[event.ReloadKnowledgeEvent](
			c.RedisListener,
			subscriber.NewReloadKnowledgeEventSubscriber(logger, c.KnowledgeRepository),
		)
	}

	// embedding services
	c.EmbeddingLocator = NewEmbeddingLocator(cfg, logger)
	c.EmbeddingRepository = newEmbeddingRepository(cfg, c.Cache)

	c.ProviderLocator = providersFactory.NewProviderLocator(
		httpx.NewFastHTTPClient(httpx.WithTimeout(cfg.Chat.Timeout)),
	)

	c.Retriever = retrieval.NewRetriever(c.KnowledgeRepository, logger)
	c.Answerer = chat.NewAnswerer(
		cfg,
		logger,
		c.Retriever,
		c.EmbeddingLocator,
		c.ProviderLocator,
		c.EmbeddingRepository,
	)

	if cfg.RateLimit.Enabled {
		limiterCfg := ratelimit.Config{
			Scope:  "chat",
			Limit:  cfg.RateLimit.Limit,
			Window: cfg.RateLimit.Window,
		}
		if c.Cache != nil {
			c.Limiter = ratelimit.NewRedisLimiter(c.Cache.RedisClient(), limiterCfg, nil)
		} else {
			c.Limiter = ratelimit.NewMemoryLimiter(limiterCfg)
		}
	}

	c.JWTManager = NewJWTManager(cfg)

	if cfg.Knowledge.ReloadSchedule != "" {
		c.Scheduler = scheduler.New(logger)
		invalidator := c.KnowledgeRepository
		err := c.Scheduler.Add(reloadJobName, cfg.Knowledge.ReloadSchedule, func(ctx context.Context) error {
			invalidator.Invalidate()
			prometheus.KnowledgeReloadTotal.WithLabelValues(reloadSourceSchedule).Inc()
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	c.MiddlewareTransport = &middleware.Transport{
		RecoverMiddleware:   middleware.NewPanicRecoverMiddleware(logger),
		RequestIDMiddleware: middleware.NewRequestIDMiddleware(),
		CORSMiddleware: middleware.NewCORSGlobalMiddleware(
			cfg.Server.AllowedOrigins,
			[]string{"GET", "POST", "OPTIONS"},
			false,
			nil,
			"86400",
		),
		AdminAuthMiddleware: middleware.NewAdminAuthMiddleware(logger, c.JWTManager),
	}
	if cfg.Metrics.Enabled {
		c.MiddlewareTransport.MetricsMiddleware = middleware.NewMetricsMiddleware(logger)
	}
	if c.Limiter != nil {
		c.MiddlewareTransport.RateLimitMiddleware = middleware.NewRateLimitMiddleware(logger, c.Limiter, router.ChatPath)
	}

	c.HandlerTransport = handlers.HandlerTransport{
		ChatHandler:       handlers.NewChatHandler(logger, c.Answerer),
		HealthHandler:     handlers.NewHealthHandler(),
		GetVersionHandler: handlers.NewGetVersionHandler(logger),
		ReloadKnowledgeHandler: handlers.NewReloadKnowledgeHandler(handlers.ReloadKnowledgeHandlerDeps{
			Logger:      logger,
			Publisher:   c.RedisPublisher,
			Invalidator: c.KnowledgeRepository,
			Path:        cfg.Knowledge.Path,
		}),
	}

	c.Routers = []router.ServerRouter{
		router.NewAPIRouter(c.MiddlewareTransport, c.HandlerTransport),
		router.NewAdminRouter(c.MiddlewareTransport, c.HandlerTransport),
	}

	return c, nil
}

func NewJWTManager(cfg *config.Config) jwt.Manager {
	return jwt.NewJwtManager(&cfg.Server)
}

// NewCache connects to the configured Redis instance.
func NewCache(cfg *config.Config, logger *logrus.Logger) (cache.Client, error) {
	cacheInstance, err := cache.NewClient(cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return cacheInstance, nil
}

// NewEmbeddingLocator is shared with the offline builder so both sides
// embed through the same client and breaker settings.
func NewEmbeddingLocator(cfg *config.Config, logger *logrus.Logger) factory.EmbeddingServiceLocator {
	httpClient := httpx.NewFastClient(httpx.WithTimeout(cfg.Embedding.Timeout))
	breakers := func(name string) httpx.CircuitBreaker {
		return httpx.NewCircuitBreaker(httpx.BreakerSettings{
			Name:        name,
			Timeout:     cfg.Embedding.BreakerTimeout,
			MaxFailures: cfg.Embedding.BreakerFailures,
			Logger:      logger,
		})
	}
	return factory.NewServiceLocator(logger, httpClient, breakers)
}

// EmbeddingConfig maps the embedding section onto the domain config passed
// to every Generate call.
func EmbeddingConfig(cfg *config.Config) *domainEmbedding.Config {
	return &domainEmbedding.Config{
		Provider:  cfg.Embedding.Provider,
		Model:     cfg.Embedding.Model,
		BaseURL:   cfg.Embedding.BaseURL,
		Normalize: cfg.Embedding.Normalize,
		Timeout:   cfg.Embedding.Timeout,
		Credentials: domainEmbedding.Credentials{
			ApiKey: cfg.Embedding.APIKey,
		},
	}
}

// NewBuilder assembles the offline vector store builder. publisher may be nil.
func NewBuilder(cfg *config.Config, logger *logrus.Logger, publisher cache.EventPublisher) (builder.Builder, error) {
	creator, err := NewEmbeddingLocator(cfg, logger).GetService(cfg.Embedding.Provider)
	if err != nil {
		return nil, err
	}
	return builder.NewBuilder(creator, EmbeddingConfig(cfg), publisher, logger), nil
}

func newEmbeddingRepository(cfg *config.Config, cacheInstance cache.Client) domainEmbedding.Repository {
	if cfg.Embedding.CacheTTL <= 0 {
		return nil
	}
	if cacheInstance != nil {
		return repository.NewRedisEmbeddingRepository(cacheInstance, cfg.Embedding.CacheTTL)
	}
	return repository.NewMemoryEmbeddingRepository(cache.NewTTLMap(cfg.Embedding.CacheTTL))
}
