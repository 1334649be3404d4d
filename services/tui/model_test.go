// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nirzon47/pokedex/pkg/ux"
	"github.com/nirzon47/pokedex/services/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Fakes
// =============================================================================

type fakeProvider struct {
	mu      sync.Mutex
	failIDs map[int]bool
	catErr  error
}

var namedRecords = map[int]catalog.Record{
	1: {ID: 1, Name: "bulbasaur", Categories: []string{"grass", "poison"}, Abilities: []string{"overgrow"}},
	4: {ID: 4, Name: "charmander", Categories: []string{"fire"}, Abilities: []string{"blaze"}},
	7: {ID: 7, Name: "squirtle", Categories: []string{"water"}, Abilities: []string{"torrent"}},
}

func (p *fakeProvider) FetchRecord(_ context.Context, id int) (catalog.Record, error) {
	p.mu.Lock()
	fail := p.failIDs[id]
	p.mu.Unlock()
	if fail {
		return catalog.Record{}, fmt.Errorf("record %d unavailable", id)
	}
	if rec, ok := namedRecords[id]; ok {
		return rec, nil
	}
	return catalog.Record{
		ID:         id,
		Name:       fmt.Sprintf("mon-%04d", id),
		Categories: []string{"normal"},
		Abilities:  []string{"run-away"},
	}, nil
}

func (p *fakeProvider) FetchCategories(context.Context) ([]string, error) {
	if p.catErr != nil {
		return nil, p.catErr
	}
	return []string{"grass", "fire", "water", "normal"}, nil
}

type fakePrefs struct {
	mu     sync.Mutex
	themes []string
	hovers []bool
	err    error
}

func (f *fakePrefs) SetTheme(_ context.Context, theme string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.themes = append(f.themes, theme)
	return f.err
}

func (f *fakePrefs) SetHoverPreview(_ context.Context, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hovers = append(f.hovers, enabled)
	return f.err
}

// =============================================================================
// Helpers
// =============================================================================

func newTestModel(t *testing.T, p *fakeProvider, prefs PreferenceSaver) Model {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	coord, err := catalog.NewCoordinator(p, catalog.WithFetchLogger(logger))
	require.NoError(t, err)

	m := New(Config{
		Controller: catalog.NewController(coord, catalog.WithLogger(logger)),
		Prefs:      prefs,
		Logger:     logger,
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

// started returns a model with the initial load and category fetch done.
func started(t *testing.T, p *fakeProvider, prefs PreferenceSaver) Model {
	t.Helper()
	m := newTestModel(t, p, prefs)
	return run(t, m, m.Init())
}

// run executes cmd and every command it leads to, feeding messages back
// into the model. Spinner ticks are dropped so the loop terminates.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case spinner.TickMsg, tea.QuitMsg:
		default:
			next, nc := m.Update(msg)
			m = next.(Model)
			queue = append(queue, nc)
		}
	}
	return m
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(keyMsg(k))
		m = run(t, next.(Model), cmd)
	}
	return m
}

// =============================================================================
// Tests
// =============================================================================

func TestModel_InitialLoad(t *testing.T) {
	m := started(t, &fakeProvider{}, nil)

	v := m.CatalogView()
	assert.True(t, v.Loaded)
	assert.False(t, v.Busy)
	assert.Equal(t, catalog.GenerationID("one"), v.Generation)
	assert.Len(t, v.Records, 151)
	assert.Equal(t, []string{"grass", "fire", "water", "normal"}, m.categories)

	out := m.View()
	assert.Contains(t, out, "#001 Bulbasaur")
	assert.Contains(t, out, "generation one")
	assert.Contains(t, out, "151 shown")
}

func TestModel_ViewBeforeSize(t *testing.T) {
	p := &fakeProvider{}
	coord, err := catalog.NewCoordinator(p)
	require.NoError(t, err)
	m := New(Config{Controller: catalog.NewController(coord)})
	assert.Contains(t, m.View(), "Loading")
}

func TestModel_RapidGenerationSwitchKeepsLastChoice(t *testing.T) {
	m := started(t, &fakeProvider{}, nil)

	// Two presses before either batch comes back.
	next, first := m.Update(keyMsg("]"))
	m = next.(Model)
	next, second := m.Update(keyMsg("]"))
	m = next.(Model)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.True(t, m.controller.Busy())

	m = run(t, m, second)
	assert.Equal(t, catalog.GenerationID("three"), m.CatalogView().Generation)
	assert.Len(t, m.CatalogView().Records, 135)

	// The older batch settles last and must not replace the display.
	m = run(t, m, first)
	assert.Equal(t, catalog.GenerationID("three"), m.CatalogView().Generation)
	assert.Len(t, m.CatalogView().Records, 135)
	assert.Empty(t, m.Notice())
}

func TestModel_PreviousGenerationWraps(t *testing.T) {
	m := started(t, &fakeProvider{}, nil)
	m = press(t, m, "[")
	assert.Equal(t, catalog.GenerationID("nine"), m.CatalogView().Generation)
	assert.Len(t, m.CatalogView().Records, 120)
}

func TestModel_PartialFailureKeepsPreviousDataset(t *testing.T) {
	p := &fakeProvider{failIDs: map[int]bool{200: true}}
	m := started(t, p, nil)

	m = press(t, m, "]")

	assert.Equal(t, catalog.GenerationID("one"), m.CatalogView().Generation)
	assert.Len(t, m.CatalogView().Records, 151)
	assert.Equal(t, catalog.GenerationID("one"), m.controller.ActiveGeneration())
	assert.Contains(t, m.Notice(), "failed to load")
	assert.True(t, m.noticeErr)
}

func TestModel_CategoryCycle(t *testing.T) {
	m := started(t, &fakeProvider{}, nil)

	m = press(t, m, ">")
	v := m.CatalogView()
	assert.Equal(t, "grass", v.Category)
	require.Len(t, v.Records, 1)
	assert.Equal(t, "bulbasaur", v.Records[0].Name)

	m = press(t, m, ">")
	assert.Equal(t, "fire", m.CatalogView().Category)

	m = press(t, m, "<", "<")
	assert.Empty(t, m.CatalogView().Category)
	assert.Len(t, m.CatalogView().Records, 151)

	// Wraps from "all" to the last category.
	m = press(t, m, "<")
	assert.Equal(t, "normal", m.CatalogView().Category)
}

func TestModel_Search(t *testing.T) {
	m := started(t, &fakeProvider{}, nil)

	m = press(t, m, "/")
	assert.True(t, m.searching)

	m = press(t, m, "s", "q", "u", "i", "r")
	v := m.CatalogView()
	assert.Equal(t, "squir", v.Query)
	require.Len(t, v.Records, 1)
	assert.Equal(t, 7, v.Records[0].ID)

	// Keys are text while searching, not commands.
	m = press(t, m, "q")
	assert.False(t, m.quitting)
	assert.Equal(t, "squirq", m.CatalogView().Query)

	m = press(t, m, "esc")
	assert.False(t, m.searching)
	assert.Contains(t, m.View(), "name: ")
}

func TestModel_EmptyState(t *testing.T) {
	m := started(t, &fakeProvider{}, nil)

	m = press(t, m, "/", "z", "z", "z", "enter")

	assert.True(t, m.CatalogView().NoResults)
	assert.Contains(t, m.View(), "No results")
}

func TestModel_CategoryChangeClearsQuery(t *testing.T) {
	m := started(t, &fakeProvider{}, nil)

	m = press(t, m, "/", "c", "h", "a", "r", "enter")
	require.Len(t, m.CatalogView().Records, 1)

	m = press(t, m, ">")
	assert.Empty(t, m.CatalogView().Query)
	assert.Empty(t, m.input.Value())
}

func TestModel_Reset(t *testing.T) {
	m := started(t, &fakeProvider{}, nil)
	m = press(t, m, "]", ">", ">")
	require.Equal(t, catalog.GenerationID("two"), m.CatalogView().Generation)

	m = press(t, m, "r")

	v := m.CatalogView()
	assert.Equal(t, catalog.GenerationID("one"), v.Generation)
	assert.Empty(t, v.Category)
	assert.Empty(t, v.Query)
	assert.Len(t, v.Records, 151)
	assert.Equal(t, 0, m.catIndex)
}

func TestModel_ResetWhileLoading(t *testing.T) {
	m := started(t, &fakeProvider{}, nil)

	next, pending := m.Update(keyMsg("]"))
	m = next.(Model)
	require.NotNil(t, pending)

	next, reset := m.Update(keyMsg("r"))
	m = next.(Model)
	require.NotNil(t, reset)
	assert.True(t, m.controller.Busy())
	assert.Equal(t, catalog.FilterState{}, m.controller.Filters())

	m = run(t, m, reset)
	m = run(t, m, pending)

	v := m.CatalogView()
	assert.Equal(t, catalog.GenerationID("one"), v.Generation)
	assert.Len(t, v.Records, 151)
	assert.False(t, m.controller.Busy())
}

func TestModel_ThemeTogglePersists(t *testing.T) {
	prefs := &fakePrefs{}
	m := started(t, &fakeProvider{}, prefs)
	require.Equal(t, ux.ThemeDark, m.Theme())

	m = press(t, m, "t")
	assert.Equal(t, ux.ThemeLight, m.Theme())

	m = press(t, m, "t")
	assert.Equal(t, ux.ThemeDark, m.Theme())

	assert.Equal(t, []string{"light", "dark"}, prefs.themes)
}

func TestModel_HoverPreview(t *testing.T) {
	prefs := &fakePrefs{}
	m := started(t, &fakeProvider{}, prefs)
	assert.NotContains(t, m.View(), "Abilities")

	m = press(t, m, "h")
	assert.True(t, m.HoverPreview())
	assert.Equal(t, []bool{true}, prefs.hovers)
	assert.Contains(t, m.View(), "Abilities: Overgrow")

	// Focus moves, so does the preview.
	m = press(t, m, "j")
	assert.Equal(t, 1, m.focus)
	assert.NotContains(t, m.View(), "Abilities: Overgrow")
}

func TestModel_PreferenceSaveFailure(t *testing.T) {
	prefs := &fakePrefs{err: errors.New("disk full")}
	m := started(t, &fakeProvider{}, prefs)

	m = press(t, m, "h")

	assert.True(t, m.HoverPreview(), "toggle applies for the session")
	assert.Contains(t, m.Notice(), "disk full")
}

func TestModel_Flip(t *testing.T) {
	m := started(t, &fakeProvider{}, nil)

	m = press(t, m, " ")
	assert.True(t, m.flipped[1])
	assert.Contains(t, m.View(), "Abilities: Overgrow")

	m = press(t, m, " ")
	assert.False(t, m.flipped[1])

	// A new generation starts with every card face up.
	m = press(t, m, " ", "]")
	assert.Empty(t, m.flipped)
}

func TestModel_FocusBounds(t *testing.T) {
	m := started(t, &fakeProvider{}, nil)

	m = press(t, m, "k")
	assert.Equal(t, 0, m.focus)

	for i := 0; i < 160; i++ {
		m = press(t, m, "j")
	}
	assert.Equal(t, 150, m.focus)
	assert.Positive(t, m.viewport.YOffset, "viewport follows focus")

	m = press(t, m, "g")
	assert.Equal(t, 0, m.focus)
	assert.Equal(t, 0, m.viewport.YOffset)
}

func TestModel_CategoriesUnavailable(t *testing.T) {
	m := started(t, &fakeProvider{catErr: errors.New("offline")}, nil)

	assert.Empty(t, m.categories)
	assert.Contains(t, m.Notice(), "Types unavailable")
	assert.True(t, m.CatalogView().Loaded, "records still load")

	// Cycling with no categories stays on "all".
	m = press(t, m, ">")
	assert.Empty(t, m.CatalogView().Category)
}

func TestModel_Help(t *testing.T) {
	m := started(t, &fakeProvider{}, nil)

	m = press(t, m, "?")
	assert.Contains(t, m.View(), "toggle theme")

	m = press(t, m, "]")
	assert.False(t, m.showHelp)
	assert.Equal(t, catalog.GenerationID("one"), m.CatalogView().Generation, "the dismissing key is swallowed")
}

func TestModel_Quit(t *testing.T) {
	m := started(t, &fakeProvider{}, nil)

	next, cmd := m.Update(keyMsg("q"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}
