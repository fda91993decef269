package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MalithGihan/archmetrics/internal/config"
)

// Server runs the analyzer's HTTP endpoints.
type Server struct {
	httpServer *http.Server
	logger     *logrus.Logger
	cfg        config.HTTPConfig
}

func NewServer(logger *logrus.Logger, cfg config.HTTPConfig, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
		cfg:    cfg,
	}
}

// Start listens on the configured address until the server is shut down.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln. A clean shutdown returns nil.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.WithFields(logrus.Fields{
		"addr":             ln.Addr().String(),
		"max_upload_bytes": s.cfg.MaxUploadBytes,
		"read_timeout":     s.cfg.ReadTimeout.String(),
		"write_timeout":    s.cfg.WriteTimeout.String(),
		"metrics":          s.cfg.MetricsEnabled,
	}).Info("archmetrics listening")
	if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting uploads and waits for in-flight analyses to
// finish, up to ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}
