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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/nirzon47/pokedex/services/catalog"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultPath returns ~/.pokedex/pokedex.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".pokedex", "pokedex.yaml"), nil
}

// Load reads the configuration at path.
//
// # Description
//
// A missing file is created with DefaultConfig first. Keys absent from the
// file keep their defaults. Environment variables then override file
// values, and the result is validated. Paths starting with "~" are
// expanded.
//
// # Outputs
//
//   - Config: The effective configuration.
//   - bool: True when the file was created by this call.
//   - error: Read, parse, env or validation failure.
func Load(path string) (Config, bool, error) {
	created := false
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return Config{}, false, err
		}
		created = true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, created, fmt.Errorf("failed to read the config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, created, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, created, fmt.Errorf("parse env: %w", err)
	}

	cfg.Storage.DataDir = expandHome(cfg.Storage.DataDir)
	cfg.Logging.Dir = expandHome(cfg.Logging.Dir)

	if err := cfg.Validate(); err != nil {
		return Config{}, created, err
	}
	return cfg, created, nil
}

// Validate checks field constraints and that the default generation
// exists.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := catalog.LookupGeneration(catalog.GenerationID(c.UI.DefaultGeneration)); err != nil {
		return fmt.Errorf("invalid config: ui.default_generation: %w", err)
	}
	return nil
}

func createDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
