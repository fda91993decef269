package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MalithGihan/archmetrics/internal/config"
	"github.com/MalithGihan/archmetrics/internal/ingest"
	"github.com/MalithGihan/archmetrics/internal/logging"
	"github.com/MalithGihan/archmetrics/internal/metrics"
	"github.com/MalithGihan/archmetrics/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging)

	m := metrics.New()
	var metricsHandler http.Handler
	if cfg.HTTP.MetricsEnabled {
		metricsHandler = m.Handler()
	}

	handlers := web.NewHandlers(logger, m, ingest.Options{Strict: cfg.Ingest.Strict}, cfg.HTTP.MaxUploadBytes)
	srv := web.NewServer(logger, cfg.HTTP, web.NewRouter(logger, handlers, metricsHandler))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("received shutdown signal")
	case err := <-errCh:
		if err != nil {
			logger.WithError(err).Fatal("server stopped unexpectedly")
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}
