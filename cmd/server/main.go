package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/quantlab/blotter/internal/blotter"
	"github.com/quantlab/blotter/internal/config"
	"github.com/quantlab/blotter/internal/handler"
	"github.com/quantlab/blotter/internal/marketdata"
	"github.com/quantlab/blotter/internal/middleware"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.WithField("env", cfg.Env).Info("starting blotter service")

	// --- Core components ---

	// The blotter owns the order collection and its per-instrument index.
	b := blotter.New()

	// The feed drives trigger evaluation from incoming price bars.
	feed := marketdata.NewFeed(b, cfg.Feed.BufferSize, cfg.Feed.BarHistory, logger)
	feed.Start()

	// --- HTTP server ---
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.PrometheusMiddleware())

	h := handler.NewHandler(b, feed)
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: r,
	}

	// --- Metrics server ---
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: metricsMux,
	}

	go func() {
		logger.Infof("metrics server listening on :%d", cfg.Metrics.Port)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("metrics server error: %v", err)
		}
	}()

	go func() {
		logger.Infof("http server listening on %s", cfg.HTTP.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server error: %v", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	feed.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("http server shutdown error: %v", err)
	}
	if err := metricsSrv.Shutdown(ctx); err != nil {
		logger.Errorf("metrics server shutdown error: %v", err)
	}

	logger.Info("blotter service stopped")
}
