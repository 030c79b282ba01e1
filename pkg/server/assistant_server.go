package server

import (
	"fmt"
	"net"

	"github.com/asifkhuda/turing/pkg/config"
	"github.com/asifkhuda/turing/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	AssistantServerDI struct {
		Config  *config.Config
		Logger  *logrus.Logger
		Routers []router.ServerRouter
	}
	AssistantServer struct {
		*BaseServer
	}
)

func NewAssistantServer(di AssistantServerDI) *AssistantServer {
	s := &AssistantServer{
		BaseServer: NewBaseServer(di.Config, di.Logger),
	}
	s.WithRouters(di.Routers...)
	return s
}

func (s *AssistantServer) Run() error {
	s.StartMetricsEndpoint()

	addr := net.JoinHostPort(s.Config.Server.Host, fmt.Sprint(s.Config.Server.Port))
	s.Logger.WithField("addr", addr).Info("starting assistant server")
	return s.Router.Listen(addr)
}
