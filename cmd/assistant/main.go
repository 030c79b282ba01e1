package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asifkhuda/turing/pkg/config"
	"github.com/asifkhuda/turing/pkg/dependency_container"
	"github.com/asifkhuda/turing/pkg/infra/cache/channel"
	"github.com/asifkhuda/turing/pkg/infra/cache/event"
	infraLogger "github.com/asifkhuda/turing/pkg/infra/logger"
	"github.com/asifkhuda/turing/pkg/infra/prometheus"
	"github.com/asifkhuda/turing/pkg/server"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", "config", "directory containing config.yaml")
	adminToken := flag.Bool("admin-token", false, "print an admin token for the knowledge reload endpoint and exit")
	adminTokenTTL := flag.Duration("admin-token-ttl", 24*time.Hour, "lifetime of the token printed by -admin-token, 0 for no expiry")
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

	if *adminToken {
		printAdminToken(cfg, *adminTokenTTL)
		return
	}

	logger, closer := infraLogger.NewLogger("assistant", infraLogger.Options{AsyncConsole: true})
	defer closer.Close()

	container, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:            cfg,
		Logger:         logger,
		EventsRegistry: event.Registry,
		EventsChannel:  channel.KnowledgeEventsChannel,
	})
	if err != nil {
		logger.Fatalf("failed to build container: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if container.RedisListener != nil {
		go func() {
			logger.Info("listening for knowledge events")
			container.RedisListener.Listen(ctx, channel.KnowledgeEventsChannel)
		}()
	}
	if container.Scheduler != nil {
		container.Scheduler.Start()
	}

	srv := server.NewAssistantServer(server.AssistantServerDI{
		Config:  cfg,
		Logger:  logger,
		Routers: container.Routers,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	for sig := range signals {
		if sig == syscall.SIGHUP {
			container.KnowledgeRepository.Invalidate()
			prometheus.KnowledgeReloadTotal.WithLabelValues("signal").Inc()
			logger.Info("knowledge base invalidated on SIGHUP")
			continue
		}
		break
	}

	logger.Info("shutting down server")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()

	if container.Scheduler != nil {
		container.Scheduler.Stop(shutdownCtx)
	}
	err = srv.Shutdown(shutdownCtx)
	if container.Cache != nil {
		err = errors.Join(err, container.Cache.Close())
	}
	if err != nil {
		logger.WithError(err).Error("error shutting down server")
		_ = closer.Close()
		os.Exit(1)
	}
	logger.Info("server gracefully stopped")
}

func printAdminToken(cfg *config.Config, ttl time.Duration) {
	token, err := dependency_container.NewJWTManager(cfg).CreateToken(ttl)
	if err != nil {
		log.Fatalf("failed to create admin token: %v", err)
	}
	fmt.Println(token)
}
