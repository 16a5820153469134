// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/plagia/internal/metrics"
	"github.com/pdiddy/plagia/internal/server"
	"github.com/pdiddy/plagia/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve analyses over HTTP",
	Long: `Serve exposes POST /api/analyze, GET /api/verify/:code, /healthz and
/metrics. Each session (X-Session-ID header) may run a limited number of
analyses, tracked in memory or in Redis.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	m := metrics.New()
	a, err := newApp(m)
	if err != nil {
		return err
	}
	defer a.Close()

	tracker, err := session.New(a.cfg.Quota, a.cfg.Cache.RedisURL, a.cfg.Cache.Prefix)
	if err != nil {
		return fmt.Errorf("session tracker: %w", err)
	}
	if c, ok := tracker.(io.Closer); ok {
		defer c.Close()
	}

	if a.cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting plagia server",
		zap.String("version", version),
		zap.String("addr", addr),
		zap.Int("quota", a.cfg.Quota.Limit),
		zap.String("registration", string(a.cfg.Registration.Backend)))

	srv := server.New(a.pipeline, tracker, m, a.logger.Named("http"))
	return srv.Run(ctx, addr, a.cfg.Server.ShutdownGrace)
}
