// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package prefs persists the two user settings: theme and hover preview.
//
// Settings are independent of catalog state. They are stored in an
// embedded BadgerDB under the "pref:" key prefix and survive restarts.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	storage "github.com/nirzon47/pokedex/services/storage/badger"
)

// Key names a setting.
type Key string

const (
	// KeyTheme selects the color scheme: "light" or "dark".
	KeyTheme Key = "theme"

	// KeyHoverPreview enables showing the focused card's back face:
	// "true" or "false".
	KeyHoverPreview Key = "hoverPreview"
)

const keyPrefix = "pref:"

var (
	// ErrInvalidKey is returned for a key outside the known set.
	ErrInvalidKey = errors.New("invalid preference key")

	// ErrInvalidValue is returned for a value outside the key's domain.
	ErrInvalidValue = errors.New("invalid preference value")
)

// allowed lists the legal values per key. The first is the default.
var allowed = map[Key][]string{
	KeyTheme:        {"dark", "light"},
	KeyHoverPreview: {"false", "true"},
}

// Keys returns every known key in a stable order.
func Keys() []Key {
	return []Key{KeyTheme, KeyHoverPreview}
}

// Values returns the legal values of key, default first.
func Values(key Key) ([]string, error) {
	vals, ok := allowed[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return slices.Clone(vals), nil
}

// Default returns the value used when key has never been set.
func Default(key Key) (string, error) {
	vals, err := Values(key)
	if err != nil {
		return "", err
	}
	return vals[0], nil
}

// Validate checks a key/value pair without storing it.
func Validate(key Key, value string) error {
	vals, ok := allowed[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if !slices.Contains(vals, value) {
		return fmt.Errorf("%w: %q for %s (want one of %v)", ErrInvalidValue, value, key, vals)
	}
	return nil
}

// =============================================================================
// Store
// =============================================================================

// Store reads and writes preferences.
//
// # Thread Safety
//
// Safe for concurrent use.
type Store struct {
	db     *storage.DB
	logger *slog.Logger
}

// NewStore creates a Store over an open database. The caller owns db.
func NewStore(db *storage.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Get returns the stored value of key.
//
// # Outputs
//
//   - string: The stored value, "" when absent.
//   - bool: False when the key has never been set.
//   - error: ErrInvalidKey, or a storage error.
func (s *Store) Get(ctx context.Context, key Key) (string, bool, error) {
	if _, ok := allowed[key]; !ok {
		return "", false, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	raw, err := s.db.Get(ctx, []byte(keyPrefix+string(key)))
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read preference %s: %w", key, err)
	}
	return string(raw), true, nil
}

// Set validates and stores value under key.
func (s *Store) Set(ctx context.Context, key Key, value string) error {
	if err := Validate(key, value); err != nil {
		return err
	}
	if err := s.db.Put(ctx, []byte(keyPrefix+string(key)), []byte(value)); err != nil {
		return fmt.Errorf("write preference %s: %w", key, err)
	}
	s.logger.Info("preference saved", slog.String("key", string(key)), slog.String("value", value))
	return nil
}

// GetOrDefault returns the stored value, or the key's default when unset.
//
// A stored value that no longer validates is treated as unset.
func (s *Store) GetOrDefault(ctx context.Context, key Key) (string, error) {
	v, ok, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if ok && Validate(key, v) == nil {
		return v, nil
	}
	if ok {
		s.logger.Warn("ignoring invalid stored preference",
			slog.String("key", string(key)), slog.String("value", v))
	}
	return Default(key)
}

// Theme returns the theme setting, "dark" by default.
func (s *Store) Theme(ctx context.Context) (string, error) {
	return s.GetOrDefault(ctx, KeyTheme)
}

// HoverPreview returns the hover preview setting, false by default.
func (s *Store) HoverPreview(ctx context.Context) (bool, error) {
	v, err := s.GetOrDefault(ctx, KeyHoverPreview)
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(v)
}

// SetTheme stores the theme.
func (s *Store) SetTheme(ctx context.Context, theme string) error {
	return s.Set(ctx, KeyTheme, theme)
}

// SetHoverPreview stores the hover preview flag.
func (s *Store) SetHoverPreview(ctx context.Context, enabled bool) error {
	return s.Set(ctx, KeyHoverPreview, strconv.FormatBool(enabled))
}
