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
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nirzon47/pokedex/services/catalog"
	"github.com/nirzon47/pokedex/services/prefs"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case batchMsg:
		return m.completeBatch(msg.batch)

	case categoriesMsg:
		m.categories = msg.categories
		if msg.err != nil {
			m.setNotice("Types unavailable; the type selector keeps its previous entries.", true)
		}
		if m.catIndex > len(m.categories) {
			m.catIndex = 0
		}
		return m, nil

	case prefSavedMsg:
		if msg.err != nil {
			m.logger.Warn("preference not saved", slog.String("key", msg.key), slog.String("error", msg.err.Error()))
			m.setNotice(fmt.Sprintf("Could not save %s: %v", msg.key, msg.err), true)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == keyForceQuit {
			m.quitting = true
			return m, tea.Quit
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit:
		m.quitting = true
		return m, tea.Quit

	case keyHelp:
		m.showHelp = true

	case keyPrevGeneration:
		return m, m.startLoad(catalog.NextGeneration(m.controller.ActiveGeneration(), -1))

	case keyNextGeneration:
		return m, m.startLoad(catalog.NextGeneration(m.controller.ActiveGeneration(), 1))

	case keyPrevCategory, ",":
		m.cycleCategory(-1)

	case keyNextCategory, ".":
		m.cycleCategory(1)

	case keySearch:
		m.searching = true
		return m, m.input.Focus()

	case keyReset:
		m.input.Reset()
		m.catIndex = 0
		m.resetCards()
		ticket, err := m.controller.BeginReset()
		return m, m.fetchCmd(ticket, err)

	case keyHover:
		m.hover = !m.hover
		m.refreshContent()
		return m, m.saveHover()

	case keyTheme:
		m.applyTheme(m.theme.Toggle())
		m.refreshContent()
		return m, m.saveTheme()

	case keyFlip, "space":
		if id, ok := m.focusedID(); ok {
			m.flipped[id] = !m.flipped[id]
			m.refreshContent()
		}

	case "j", "down":
		m.moveFocus(1)

	case "k", "up":
		m.moveFocus(-1)

	case "pgdown", "ctrl+d":
		m.viewport.HalfViewDown()

	case "pgup", "ctrl+u":
		m.viewport.HalfViewUp()

	case "g", "home":
		m.focus = 0
		m.refreshContent()
		m.viewport.GotoTop()
	}
	return m, nil
}

// updateSearch routes keys to the name input. Every edit re-filters.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		m.input.Blur()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.view = m.controller.SetNameQuery(after)
		m.resetCards()
	}
	return m, cmd
}

// =============================================================================
// Loads
// =============================================================================

// startLoad begins a generation load and returns the command that runs it.
func (m *Model) startLoad(id catalog.GenerationID) tea.Cmd {
	return m.fetchCmd(m.controller.Begin(id))
}

// fetchCmd runs the batch for a begun ticket off the event loop.
func (m *Model) fetchCmd(ticket catalog.Ticket, err error) tea.Cmd {
	if err != nil {
		m.setNotice(err.Error(), true)
		return nil
	}
	m.view = m.controller.View()
	m.setNotice("", false)

	ctx, ctrl := m.ctx, m.controller
	return func() tea.Msg {
		return batchMsg{batch: ctrl.Fetch(ctx, ticket)}
	}
}

func (m Model) completeBatch(b catalog.Batch) (tea.Model, tea.Cmd) {
	view, err := m.controller.Complete(b)
	switch {
	case errors.Is(err, catalog.ErrStaleBatch):
		return m, nil

	case err != nil:
		m.view = m.controller.View()
		var pf *catalog.PartialFetchFailureError
		if errors.As(err, &pf) {
			m.setNotice(fmt.Sprintf("Generation %s failed to load (%d records). Select it again to retry.",
				pf.Generation, len(pf.FailedIDs)), true)
		} else {
			m.setNotice(err.Error(), true)
		}
		m.refreshContent()
		return m, nil
	}

	m.view = view
	m.catIndex = 0
	m.input.Reset()
	m.flipped = make(map[int]bool)
	m.resetCards()
	return m, nil
}

func (m Model) loadCategories() tea.Cmd {
	ctx, ctrl := m.ctx, m.controller
	return func() tea.Msg {
		cats, err := ctrl.LoadCategories(ctx)
		return categoriesMsg{categories: cats, err: err}
	}
}

// =============================================================================
// Filters and focus
// =============================================================================

// cycleCategory steps through "all" followed by the loaded categories.
func (m *Model) cycleCategory(step int) {
	n := len(m.categories) + 1
	m.catIndex = ((m.catIndex+step)%n + n) % n

	tag := catalog.CategoryAll
	if m.catIndex > 0 {
		tag = m.categories[m.catIndex-1]
	}
	m.view = m.controller.SetCategory(tag)
	m.input.Reset()
	m.resetCards()
}

func (m *Model) focusedID() (int, bool) {
	if m.focus < 0 || m.focus >= len(m.view.Records) {
		return 0, false
	}
	return m.view.Records[m.focus].ID, true
}

func (m *Model) moveFocus(step int) {
	n := len(m.view.Records)
	if n == 0 {
		return
	}
	m.focus += step
	if m.focus < 0 {
		m.focus = 0
	}
	if m.focus >= n {
		m.focus = n - 1
	}
	m.refreshContent()
	m.scrollToFocus()
}

func (m *Model) resetCards() {
	m.focus = 0
	m.refreshContent()
	if m.ready {
		m.viewport.GotoTop()
	}
}

func (m *Model) scrollToFocus() {
	if !m.ready || m.focus >= len(m.offsets) {
		return
	}
	top := m.offsets[m.focus]
	bottom := top + m.heights[m.focus]
	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
}

// =============================================================================
// Preferences
// =============================================================================

func (m Model) saveTheme() tea.Cmd {
	if m.prefs == nil {
		return nil
	}
	ctx, p, theme := m.ctx, m.prefs, m.theme
	return func() tea.Msg {
		return prefSavedMsg{key: string(prefs.KeyTheme), err: p.SetTheme(ctx, string(theme))}
	}
}

func (m Model) saveHover() tea.Cmd {
	if m.prefs == nil {
		return nil
	}
	ctx, p, hover := m.ctx, m.prefs, m.hover
	return func() tea.Msg {
		return prefSavedMsg{key: string(prefs.KeyHoverPreview), err: p.SetHoverPreview(ctx, hover)}
	}
}
