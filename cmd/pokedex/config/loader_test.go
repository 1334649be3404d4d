// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nirzon47/pokedex/services/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pokedex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_CreatesDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "pokedex.yaml")

	cfg, created, err := Load(path)
	require.NoError(t, err)
	assert.True(t, created)
	assert.FileExists(t, path)

	assert.Equal(t, "https://pokeapi.co/api/v2", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "one", cfg.UI.DefaultGeneration)
	assert.True(t, filepath.IsAbs(cfg.Storage.DataDir), "~ is expanded")

	// The written file round-trips through YAML with readable durations.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout: 30s")

	_, created, err = Load(path)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: http://localhost:8080/api/v2
  max_concurrency: 4
storage:
  data_dir: /tmp/pokedex-data
ui:
  default_generation: three
`)
	cfg, created, err := Load(path)
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, "http://localhost:8080/api/v2", cfg.API.BaseURL)
	assert.Equal(t, 4, cfg.API.MaxConcurrency)
	assert.Equal(t, "/tmp/pokedex-data", cfg.Storage.DataDir)
	assert.Equal(t, "three", cfg.UI.DefaultGeneration)

	// Untouched keys keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "api:\n  max_concurrency: 4\n")
	t.Setenv("POKEDEX_MAX_CONCURRENCY", "16")
	t.Setenv("POKEDEX_API_BASE_URL", "http://127.0.0.1:9000")
	t.Setenv("POKEDEX_API_TIMEOUT", "5s")
	t.Setenv("POKEDEX_LOG_JSON", "true")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.API.MaxConcurrency)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.Logging.JSON)
}

func TestLoad_BadEnv(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("POKEDEX_MAX_CONCURRENCY", "many")

	_, _, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "api: [unclosed")
	_, _, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }, "BaseURL"},
		{"bad base url", func(c *Config) { c.API.BaseURL = "not a url" }, "BaseURL"},
		{"negative concurrency", func(c *Config) { c.API.MaxConcurrency = -1 }, "MaxConcurrency"},
		{"negative rps", func(c *Config) { c.API.RequestsPerSecond = -2 }, "RequestsPerSecond"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "Level"},
		{"bad trace exporter", func(c *Config) { c.Telemetry.TraceExporter = "jaeger" }, "TraceExporter"},
		{"bad metrics addr", func(c *Config) { c.Telemetry.MetricsAddr = "nope" }, "MetricsAddr"},
		{"metrics addr", func(c *Config) { c.Telemetry.MetricsAddr = "127.0.0.1:9464" }, ""},
		{"unknown generation", func(c *Config) { c.UI.DefaultGeneration = "thre" }, `did you mean "three"`},
		{"empty data dir", func(c *Config) { c.Storage.DataDir = "" }, "DataDir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_UnknownGenerationIsTyped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UI.DefaultGeneration = "ten"
	assert.ErrorIs(t, cfg.Validate(), catalog.ErrInvalidGeneration)
}

func TestDefaultConfig_YAMLRoundTrip(t *testing.T) {
	data, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)

	var got Config
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, DefaultConfig(), got)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, filepath.Join(home, "data"), expandHome("~/data"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
}
