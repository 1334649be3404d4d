// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nirzon47/pokedex/cmd/pokedex/config"
	"github.com/nirzon47/pokedex/pkg/logging"
	"github.com/nirzon47/pokedex/pkg/telemetry"
	"github.com/nirzon47/pokedex/pkg/ux"
	"github.com/nirzon47/pokedex/services/catalog"
	"github.com/nirzon47/pokedex/services/pokeapi"
	"github.com/nirzon47/pokedex/services/prefs"
	storage "github.com/nirzon47/pokedex/services/storage/badger"
)

// =============================================================================
// Runtime
// =============================================================================

// app is everything a command needs, built from the config file.
//
// # Description
//
// The preference database is opened lazily: BadgerDB holds a directory
// lock, and commands that only read the catalog should not fail because a
// browser is open in another terminal.
type app struct {
	cfg        config.Config
	configPath string

	log    *logging.Logger
	logger *slog.Logger

	telemetryShutdown func(context.Context) error
	metrics           *telemetry.MetricsServer
	traceFile         *os.File

	provider    *pokeapi.CachingProvider
	coordinator *catalog.Coordinator

	db    *storage.DB
	prefs *prefs.Store
}

// newApp loads configuration and wires the runtime.
//
// # Inputs
//
//   - ctx: Used for exporter connections.
//   - flags: Root command flags.
//   - stderr: Console log destination when verbose.
//
// # Outputs
//
//   - *app: Ready to use. Call Close.
//   - error: Config, telemetry or wiring failure.
func newApp(ctx context.Context, flags *rootFlags, stderr io.Writer) (*app, error) {
	path := flags.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, created, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	if flags.verbose {
		level = logging.LevelDebug
	}
	log := logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Logging.Dir,
		Service: "pokedex",
		JSON:    cfg.Logging.JSON,
		Quiet:   !flags.verbose,
		Writer:  stderr,
	})

	a := &app{
		cfg:        cfg,
		configPath: path,
		log:        log,
		logger:     log.Slog(),
	}
	if created {
		a.logger.Info("default config created", slog.String("path", path))
	}

	if err := a.initTelemetry(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	client := pokeapi.NewClient(
		pokeapi.WithBaseURL(cfg.API.BaseURL),
		pokeapi.WithTimeout(cfg.API.Timeout),
		pokeapi.WithRateLimit(cfg.API.RequestsPerSecond),
		pokeapi.WithLogger(a.logger),
	)
	a.provider = pokeapi.NewCachingProvider(client)

	coord, err := catalog.NewCoordinator(a.provider,
		catalog.WithMaxConcurrency(cfg.API.MaxConcurrency),
		catalog.WithFetchLogger(a.logger),
	)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.coordinator = coord

	a.logger.Debug("runtime ready",
		slog.String("config", path),
		slog.String("api", cfg.API.BaseURL),
		slog.Int("max_concurrency", cfg.API.MaxConcurrency),
	)
	return a, nil
}

func (a *app) initTelemetry(ctx context.Context) error {
	tcfg := telemetry.DefaultConfig()
	tcfg.TraceExporter = a.cfg.Telemetry.TraceExporter
	tcfg.MetricExporter = a.cfg.Telemetry.MetricExporter
	if a.cfg.Telemetry.OTLPEndpoint != "" {
		tcfg.OTLPEndpoint = a.cfg.Telemetry.OTLPEndpoint
	}

	// Span dumps go to a file so they never land on the terminal.
	if tcfg.TraceExporter == "stdout" || tcfg.MetricExporter == "stdout" {
		dir := a.cfg.Logging.Dir
		if dir == "" {
			dir = a.cfg.Storage.DataDir
		}
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("create telemetry dir: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(dir, "pokedex_telemetry.json"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			return fmt.Errorf("open telemetry file: %w", err)
		}
		a.traceFile = f
		tcfg.Writer = f
	}

	shutdown, err := telemetry.Init(ctx, tcfg)
	if err != nil {
		return err
	}
	a.telemetryShutdown = shutdown

	if addr := a.cfg.Telemetry.MetricsAddr; addr != "" {
		srv, err := telemetry.NewMetricsServer(addr, "pokedex", a.logger)
		if err != nil {
			return err
		}
		srv.Start()
		a.metrics = srv
	}
	return nil
}

// Controller creates a catalog controller over the shared coordinator.
func (a *app) Controller(opts ...catalog.ControllerOption) *catalog.Controller {
	opts = append([]catalog.ControllerOption{catalog.WithLogger(a.logger)}, opts...)
	return catalog.NewController(a.coordinator, opts...)
}

// Prefs opens the preference store on first use.
func (a *app) Prefs() (*prefs.Store, error) {
	if a.prefs != nil {
		return a.prefs, nil
	}
	scfg := storage.DefaultConfig(filepath.Join(a.cfg.Storage.DataDir, "prefs"))
	scfg.Logger = a.logger
	db, err := storage.Open(scfg)
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}
	a.db = db
	a.prefs = prefs.NewStore(db, a.logger)
	return a.prefs, nil
}

// Theme returns the stored theme, or the default when preferences are
// unavailable.
func (a *app) Theme(ctx context.Context) ux.Theme {
	store, err := a.Prefs()
	if err != nil {
		a.logger.Debug("preferences unavailable, using default theme", slog.String("error", err.Error()))
		return ux.DefaultTheme
	}
	name, err := store.Theme(ctx)
	if err != nil {
		return ux.DefaultTheme
	}
	t, err := ux.ParseTheme(name)
	if err != nil {
		return ux.DefaultTheme
	}
	return t
}

// Close releases everything newApp acquired.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	if a.metrics != nil {
		errs = append(errs, a.metrics.Shutdown(ctx))
	}
	if a.telemetryShutdown != nil {
		errs = append(errs, a.telemetryShutdown(ctx))
	}
	if a.traceFile != nil {
		errs = append(errs, a.traceFile.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	errs = append(errs, a.log.Close())
	return errors.Join(errs...)
}
