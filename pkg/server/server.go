package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/asifkhuda/turing/pkg/config"
	"github.com/asifkhuda/turing/pkg/infra/prometheus"
	"github.com/asifkhuda/turing/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Server interface defines the common behavior for all servers
type Server interface {
	Run() error
	Shutdown(ctx context.Context) error
}

type BaseServer struct {
	Config     *config.Config
	Logger     *logrus.Logger
	Router     *fiber.App
	metricsApp *fiber.App
}

func NewBaseServer(cfg *config.Config, logger *logrus.Logger) *BaseServer {
	r := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             cfg.Server.BodyLimit,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          cfg.Chat.Timeout + cfg.Embedding.Timeout + 5*time.Second,
		IdleTimeout:           120 * time.Second,
		ProxyHeader:           cfg.Server.ProxyHeader,
		EnableIPValidation:    true,
		ErrorHandler:          jsonErrorHandler,
	})

	r.Server().NoDefaultServerHeader = true

	return &BaseServer{
		Config: cfg,
		Logger: logger,
		Router: r,
	}
}

func (s *BaseServer) WithRouters(routers ...router.ServerRouter) *BaseServer {
	for _, r := range routers {
		if err := r.BuildRoutes(s.Router); err != nil {
			s.Logger.WithError(err).Error("failed to build routes")
		}
	}
	return s
}

// StartMetricsEndpoint serves /metrics on its own port so it is never
// exposed through the public listener.
func (s *BaseServer) StartMetricsEndpoint() {
	if !s.Config.Metrics.Enabled {
		s.Logger.Info("prometheus metrics are disabled by configuration")
		return
	}
	if s.metricsApp != nil {
		return
	}

	s.metricsApp = fiber.New(fiber.Config{DisableStartupMessage: true})
	s.metricsApp.Use(recover.New())

	handler := fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(prometheus.Gatherer(), promhttp.HandlerOpts{}),
	)
	s.metricsApp.Get("/metrics", func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	})

	addr := net.JoinHostPort(s.Config.Server.Host, fmt.Sprint(s.Config.Server.MetricsPort))
	go func() {
		s.Logger.WithField("addr", addr).Info("starting metrics server")
		if err := s.metricsApp.Listen(addr); err != nil {
			s.Logger.WithError(err).Error("metrics server stopped")
		}
	}()
}

func (s *BaseServer) Shutdown(ctx context.Context) error {
	var errs []error
	if s.metricsApp != nil {
		errs = append(errs, s.metricsApp.ShutdownWithContext(ctx))
	}
	errs = append(errs, s.Router.ShutdownWithContext(ctx))
	return errors.Join(errs...)
}

func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}
