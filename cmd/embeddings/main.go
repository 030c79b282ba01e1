package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/asifkhuda/turing/pkg/app/builder"
	"github.com/asifkhuda/turing/pkg/config"
	"github.com/asifkhuda/turing/pkg/dependency_container"
	"github.com/asifkhuda/turing/pkg/infra/cache"
	"github.com/asifkhuda/turing/pkg/infra/cache/channel"
	infraLogger "github.com/asifkhuda/turing/pkg/infra/logger"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "config", "directory containing config.yaml")
	input := flag.String("input", "scripts/knowledge_base.json", "knowledge base records to embed")
	output := flag.String("output", "", "vector store to write, defaults to knowledge.path")
	concurrency := flag.Int("concurrency", builder.DefaultConcurrency, "embedding requests in flight")
	notify := flag.Bool("notify", true, "broadcast a reload to running servers when redis is enabled")
	flag.Parse()

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *output == "" {
		*output = cfg.Knowledge.Path
	}

	logger, closer := infraLogger.NewLogger("embeddings", infraLogger.Options{})
	defer closer.Close()

	if cfg.Embedding.APIKey == "" {
		logger.Fatalf("missing api credential for embedding provider %s", cfg.Embedding.Provider)
	}

	var publisher cache.EventPublisher
	if *notify && cfg.Redis.Enabled {
		cacheInstance, err := dependency_container.NewCache(cfg, logger)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, running servers will not be notified")
		} else {
			defer cacheInstance.Close()
			publisher = cache.NewRedisEventPublisher(cacheInstance, channel.KnowledgeEventsChannel)
		}
	}

	b, err := dependency_container.NewBuilder(cfg, logger, publisher)
	if err != nil {
		logger.Fatalf("failed to create builder: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := b.Build(ctx, builder.Options{
		InputPath:   *input,
		OutputPath:  *output,
		Concurrency: *concurrency,
	})
	if err != nil {
		logger.WithError(err).Error("failed to build vector store")
		_ = closer.Close()
		os.Exit(1)
	}
	logger.WithFields(logrus.Fields{
		"documents": res.Documents,
		"dimension": res.Dimension,
		"elapsed":   res.Elapsed.String(),
		"output":    *output,
	}).Info("embeddings saved")
}
