// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the analysis pipeline over HTTP. A requester
// uploads a PDF with their name and email and receives the report;
// verification codes can be checked by anyone. Usage is metered per
// session through the X-Session-ID header.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pdiddy/plagia/internal/metrics"
	"github.com/pdiddy/plagia/internal/pipeline"
	"github.com/pdiddy/plagia/internal/session"
)

// SessionHeader carries the requester's session id in both directions.
const SessionHeader = "X-Session-ID"

// RemainingHeader reports the analyses left in the session.
const RemainingHeader = "X-Quota-Remaining"

// Server holds the HTTP surface dependencies.
type Server struct {
	pipeline *pipeline.Pipeline
	tracker  session.Tracker
	metrics  *metrics.Metrics
	logger   *zap.Logger
	router   *gin.Engine
}

// New builds the router. A nil tracker disables quotas; a nil logger
// discards request logs.
func New(p *pipeline.Pipeline, tracker session.Tracker, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{pipeline: p, tracker: tracker, metrics: m, logger: logger}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(Logger(logger))
	router.Use(Instrument(m))
	if limit := p.Config().Server.MaxUploadBytes; limit > 0 {
		router.MaxMultipartMemory = limit
	}

	router.GET("/healthz", s.health)
	router.GET("/metrics", gin.WrapH(m.Handler()))
	api := router.Group("/api")
	api.POST("/analyze", s.analyze)
	api.GET("/verify/:code", s.verify)

	s.router = router
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down, waiting up
// to grace for in-flight requests.
func (s *Server) Run(ctx context.Context, addr string, grace time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serving %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
