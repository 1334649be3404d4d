// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// =============================================================================
// Metrics Server
// =============================================================================

// MetricsServer serves /metrics and /healthz while the browser runs.
//
// # Thread Safety
//
// Start and Shutdown may be called from different goroutines.
type MetricsServer struct {
	srv      *http.Server
	listener net.Listener
	logger   *slog.Logger
}

// NewRouter builds the gin engine backing the metrics server.
//
// Exposed separately so tests can drive it with httptest.
func NewRouter(serviceName string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

// NewMetricsServer binds addr and prepares the server.
//
// # Inputs
//
//   - addr: Listen address, e.g. "127.0.0.1:9464". ":0" picks a free port.
//   - serviceName: Used for the otelgin middleware.
//   - logger: May be nil.
//
// # Outputs
//
//   - *MetricsServer: Bound but not yet serving. Call Start.
//   - error: Non-nil when addr cannot be bound.
func NewMetricsServer(addr, serviceName string, logger *slog.Logger) (*MetricsServer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &MetricsServer{
		srv: &http.Server{
			Handler:           NewRouter(serviceName),
			ReadHeaderTimeout: 5 * time.Second,
		},
		listener: ln,
		logger:   logger,
	}, nil
}

// Addr returns the bound address.
func (m *MetricsServer) Addr() string {
	return m.listener.Addr().String()
}

// Start serves in a background goroutine.
func (m *MetricsServer) Start() {
	go func() {
		m.logger.Info("metrics server listening", slog.String("addr", m.Addr()))
		if err := m.srv.Serve(m.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("metrics server stopped", slog.String("error", err.Error()))
		}
	}()
}

// Shutdown stops the server gracefully.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
