// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the pokedex configuration file.
//
// Sources are applied in order: built-in defaults, the YAML file at
// ~/.pokedex/pokedex.yaml (created on first run), then POKEDEX_*
// environment variables. The result is validated before use.
package config

import (
	"time"
)

// Config is the complete pokedex configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	UI        UIConfig        `yaml:"ui"`
}

// APIConfig configures the record provider.
type APIConfig struct {
	BaseURL string `yaml:"base_url" env:"POKEDEX_API_BASE_URL" validate:"required,url"`

	// Timeout bounds each request. Zero disables it.
	Timeout time.Duration `yaml:"timeout" env:"POKEDEX_API_TIMEOUT" validate:"gte=0"`

	// RequestsPerSecond throttles outgoing requests. Zero is unlimited.
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"POKEDEX_API_RPS" validate:"gte=0"`

	// MaxConcurrency caps in-flight requests per generation. Zero is one
	// request per record.
	MaxConcurrency int `yaml:"max_concurrency" env:"POKEDEX_MAX_CONCURRENCY" validate:"gte=0"`
}

// StorageConfig locates persistent state.
type StorageConfig struct {
	DataDir string `yaml:"data_dir" env:"POKEDEX_DATA_DIR" validate:"required"`
}

// LoggingConfig configures pkg/logging.
type LoggingConfig struct {
	Level string `yaml:"level" env:"POKEDEX_LOG_LEVEL" validate:"oneof=debug info warn warning error"`
	Dir   string `yaml:"dir" env:"POKEDEX_LOG_DIR"`
	JSON  bool   `yaml:"json" env:"POKEDEX_LOG_JSON"`
}

// TelemetryConfig configures pkg/telemetry.
type TelemetryConfig struct {
	TraceExporter  string `yaml:"trace_exporter" env:"POKEDEX_TRACE_EXPORTER" validate:"oneof=none stdout otlp"`
	MetricExporter string `yaml:"metric_exporter" env:"POKEDEX_METRIC_EXPORTER" validate:"oneof=none stdout prometheus"`

	// MetricsAddr serves /metrics and /healthz when set, e.g. "127.0.0.1:9464".
	MetricsAddr string `yaml:"metrics_addr" env:"POKEDEX_METRICS_ADDR" validate:"omitempty,hostname_port"`

	OTLPEndpoint string `yaml:"otlp_endpoint" env:"POKEDEX_OTLP_ENDPOINT"`
}

// UIConfig configures the browser.
type UIConfig struct {
	DefaultGeneration string `yaml:"default_generation" env:"POKEDEX_DEFAULT_GENERATION" validate:"required"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:           "https://pokeapi.co/api/v2",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 0,
			MaxConcurrency:    32,
		},
		Storage: StorageConfig{
			DataDir: "~/.pokedex/data",
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "~/.pokedex/logs",
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			OTLPEndpoint:   "localhost:4317",
		},
		UI: UIConfig{
			DefaultGeneration: "one",
		},
	}
}
