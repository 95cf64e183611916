// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package server assembles the gateway: it wires the Ranger client, the
// policy store and refresher, the caches, the audit emitter and the
// decision engine, then serves the HTTP façade.
//
// gin.Engine is mounted inside an http.Server rather than run via
// gin.Run() so shutdown is graceful and tied to the application context:
// the refresher stops, the HTTP listener drains, and the audit queue is
// flushed before Start returns.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"

	"github.com/ovsyannikovas/minio-ranger-gateway/config"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/gateway/api"
)

var srv *http.Server

func Start(ctx context.Context, port int) error {
	cfg := config.GetConfig()
	l, err := logger.NewTag(config.NewLoggerConfig(cfg), "server")
	if err != nil {
		return err
	}

	// Switch to debug mode for non-production environments
	switch cfg.Environment {
	case "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	comps, err := buildComponents(cfg, l)
	if err != nil {
		return fmt.Errorf("failed to build gateway components: %w", err)
	}

	if err := comps.refresher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start policy refresher: %w", err)
	}
	defer func() {
		if err := comps.refresher.Stop(); err != nil {
			l.Warn("Policy refresher stop failed", "error", err)
		}
		comps.emitter.Close()
	}()

	// Create engine without middleware
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(LoggerMiddleware(l))
	engine.Use(api.IPWhitelist(cfg.IPWhitelistEntries(), l))

	registerRoutes(engine, comps)

	srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: engine,
	}

	// Channel to catch server startup errors
	errChan := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			if err != http.ErrServerClosed {
				errChan <- err
			}
		}
	}()

	l.Info("Gateway listening",
		"port", port, "service", cfg.Ranger.ServiceName)

	// Wait for either server error or context cancellation
	select {
	case err := <-errChan:
		return fmt.Errorf("server startup failed: %w", err)
	case <-ctx.Done():
		return Shutdown(context.Background())
	}
}

func Shutdown(ctx context.Context) error {
	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}
