// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_ConsoleFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Writer: &buf, Service: "test"})

	logger.Slog().Info("hidden")
	logger.Slog().Warn("shown", "generation", "one")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "service=test")
	assert.Contains(t, out, "generation=one")
}

func TestNew_JSONConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{JSON: true, Writer: &buf})
	logger.Slog().Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
}

func TestNew_QuietWithFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger := New(Config{Quiet: true, LogDir: dir, Service: "browse", Writer: &console})
	logger.Slog().Info("to file only")
	require.NoError(t, logger.Close())

	assert.Empty(t, console.String())
	require.NotEmpty(t, logger.FilePath())
	assert.Equal(t, dir, filepath.Dir(logger.FilePath()))
	assert.True(t, strings.HasPrefix(filepath.Base(logger.FilePath()), "browse_"))

	data, err := os.ReadFile(logger.FilePath())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file only"`)
}

func TestNew_BothDestinations(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger := New(Config{LogDir: dir, Writer: &console})
	logger.Slog().Info("twice")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logger.FilePath())
	require.NoError(t, err)
	assert.Contains(t, console.String(), "twice")
	assert.Contains(t, string(data), "twice")
}

func TestNew_QuietNoFileDiscards(t *testing.T) {
	logger := New(Config{Quiet: true})
	assert.NotPanics(t, func() { logger.Slog().Error("nowhere") })
	assert.Empty(t, logger.FilePath())
	assert.NoError(t, logger.Close())
}

func TestClose_Idempotent(t *testing.T) {
	logger := New(Config{Quiet: true, LogDir: t.TempDir()})
	require.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".pokedex/logs"), expandPath("~/.pokedex/logs"))
	assert.Equal(t, "/var/log", expandPath("/var/log"))
	assert.Equal(t, "relative", expandPath("relative"))
}
