// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tui is the interactive catalog browser.
//
// The model never fetches on the event loop. A generation change calls
// Controller.Begin synchronously, then returns a tea.Cmd that runs the
// batch and comes back as a batchMsg, which is handed to
// Controller.Complete. Batches superseded in the meantime are discarded
// there, so rapid generation switching always ends on the last choice.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nirzon47/pokedex/pkg/ux"
	"github.com/nirzon47/pokedex/services/catalog"
)

// PreferenceSaver persists the two toggles.
type PreferenceSaver interface {
	SetTheme(ctx context.Context, theme string) error
	SetHoverPreview(ctx context.Context, enabled bool) error
}

// Config configures a Model.
type Config struct {
	// Controller owns the catalog state. Required.
	Controller *catalog.Controller

	// Prefs persists toggles. May be nil, in which case toggles last for
	// the session only.
	Prefs PreferenceSaver

	// Theme and HoverPreview are the initial settings.
	Theme        ux.Theme
	HoverPreview bool

	// Generation is loaded on start. Defaults to catalog.DefaultGeneration.
	Generation catalog.GenerationID

	// Context is passed to fetches and preference writes.
	Context context.Context

	Logger *slog.Logger
}

// =============================================================================
// Messages
// =============================================================================

// batchMsg carries a settled generation batch back to the event loop.
type batchMsg struct {
	batch catalog.Batch
}

// categoriesMsg carries the result of a category list fetch.
type categoriesMsg struct {
	categories []string
	err        error
}

// prefSavedMsg reports a preference write.
type prefSavedMsg struct {
	key string
	err error
}

// =============================================================================
// Model
// =============================================================================

// Model is the bubbletea model of the browser.
type Model struct {
	ctx        context.Context
	controller *catalog.Controller
	prefs      PreferenceSaver
	logger     *slog.Logger

	// Catalog state, refreshed from the controller after each transition.
	view       catalog.View
	categories []string
	catIndex   int // 0 is "all"

	// Presentation state.
	theme   ux.Theme
	styles  ux.Styles
	hover   bool
	focus   int
	flipped map[int]bool

	// offsets[i] is the first viewport line of card i.
	offsets []int
	heights []int

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	width, height int
	ready         bool
	searching     bool
	showHelp      bool
	quitting      bool

	notice    string
	noticeErr bool

	initial catalog.GenerationID
}

// New creates the model. Call tea.NewProgram(New(cfg)).Run().
func New(cfg Config) Model {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	theme := cfg.Theme
	if theme == "" {
		theme = ux.DefaultTheme
	}
	initial := cfg.Generation
	if initial == "" {
		initial = catalog.DefaultGeneration
	}

	in := textinput.New()
	in.Prompt = "name: "
	in.Placeholder = "search by name"
	in.CharLimit = 32
	in.Cursor.SetMode(cursor.CursorStatic)

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		ctx:        ctx,
		controller: cfg.Controller,
		prefs:      cfg.Prefs,
		logger:     logger,
		theme:      theme,
		hover:      cfg.HoverPreview,
		flipped:    make(map[int]bool),
		input:      in,
		spinner:    spin,
		initial:    initial,
	}
	m.applyTheme(theme)
	m.view = cfg.Controller.View()
	return m
}

// Init implements tea.Model. It starts the first load and the category
// fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startLoad(m.initial), m.loadCategories())
}

// Theme returns the active theme.
func (m Model) Theme() ux.Theme {
	return m.theme
}

// HoverPreview reports whether hover preview is on.
func (m Model) HoverPreview() bool {
	return m.hover
}

// Notice returns the notification line.
func (m Model) Notice() string {
	return m.notice
}

// CatalogView returns the last catalog view the model drew.
func (m Model) CatalogView() catalog.View {
	return m.view
}

func (m *Model) applyTheme(t ux.Theme) {
	m.theme = t
	m.styles = ux.NewStyles(t)
	m.spinner.Style = m.styles.Highlight
	m.input.PromptStyle = m.styles.Highlight
	m.input.PlaceholderStyle = m.styles.Muted
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}
