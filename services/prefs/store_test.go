// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package prefs

import (
	"context"
	"path/filepath"
	"testing"

	storage "github.com/nirzon47/pokedex/services/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *storage.DB) {
	t.Helper()
	db, err := storage.Open(storage.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, nil), db
}

func TestStore_GetAbsent(t *testing.T) {
	s, _ := newTestStore(t)

	v, ok, err := s.Get(context.Background(), KeyTheme)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestStore_SetGet(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyTheme, "light"))
	require.NoError(t, s.Set(ctx, KeyHoverPreview, "true"))

	v, ok, err := s.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)

	v, ok, err = s.Get(ctx, KeyHoverPreview)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestStore_Validation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		key   Key
		value string
		want  error
	}{
		{"unknown key", Key("fontSize"), "12", ErrInvalidKey},
		{"bad theme", KeyTheme, "sepia", ErrInvalidValue},
		{"theme case", KeyTheme, "Dark", ErrInvalidValue},
		{"bad bool", KeyHoverPreview, "yes", ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, s.Set(ctx, tt.key, tt.value), tt.want)
		})
	}

	_, _, err := s.Get(ctx, Key("fontSize"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestStore_Defaults(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	theme, err := s.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)

	hover, err := s.HoverPreview(ctx)
	require.NoError(t, err)
	assert.False(t, hover)

	require.NoError(t, s.SetTheme(ctx, "light"))
	require.NoError(t, s.SetHoverPreview(ctx, true))

	theme, err = s.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, "light", theme)

	hover, err = s.HoverPreview(ctx)
	require.NoError(t, err)
	assert.True(t, hover)
}

func TestStore_CorruptValueFallsBackToDefault(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, db.Put(ctx, []byte(keyPrefix+string(KeyTheme)), []byte("neon")))

	theme, err := s.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)
}

func TestStore_DurableAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	ctx := context.Background()

	db, err := storage.Open(storage.DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, NewStore(db, nil).SetTheme(ctx, "light"))
	require.NoError(t, db.Close())

	db, err = storage.Open(storage.DefaultConfig(dir))
	require.NoError(t, err)
	defer db.Close()

	theme, err := NewStore(db, nil).Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, "light", theme)
}

func TestValuesAndKeys(t *testing.T) {
	assert.Equal(t, []Key{KeyTheme, KeyHoverPreview}, Keys())

	vals, err := Values(KeyTheme)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"light", "dark"}, vals)

	_, err = Values(Key("nope"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}
