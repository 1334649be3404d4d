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
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/nirzon47/pokedex/services/catalog"
	"github.com/nirzon47/pokedex/services/render"
)

// Lines reserved above and below the card viewport.
const (
	headerHeight = 3
	footerHeight = 2
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "\n  " + render.LoadingText
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.bodyView())
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m Model) headerView() string {
	title := m.styles.Title.Render("Pokedex")

	gen := m.controller.ActiveGeneration()
	parts := []string{fmt.Sprintf("generation %s", gen)}
	category := catalog.CategoryAll
	if m.view.Category != "" {
		category = m.view.Category
	}
	parts = append(parts, "type "+category)
	status := m.styles.Subtitle.Render(strings.Join(parts, "  "))

	var busy string
	if m.controller.Busy() {
		busy = " " + m.spinner.View() + " " + m.styles.Muted.Render(render.LoadingText)
	} else if m.view.Loaded {
		busy = " " + m.styles.Muted.Render(fmt.Sprintf("%d shown", len(m.view.Records)))
	}

	search := m.styles.Muted.Render("/ to search by name")
	if m.searching || m.input.Value() != "" {
		search = m.input.View()
	}
	return title + "  " + status + busy + "\n" + search
}

func (m Model) bodyView() string {
	switch {
	case m.showHelp:
		return m.fill(m.styles.Box.Render(strings.Join(helpLines, "\n")))
	case !m.view.Loaded:
		if m.controller.Busy() {
			return m.fill(m.spinner.View() + " " + render.LoadingText)
		}
		return m.fill("")
	case m.view.NoResults:
		return m.fill(m.styles.Warning.Render(render.NoResultsText))
	}
	return m.viewport.View()
}

func (m Model) footerView() string {
	var notice string
	if m.notice != "" {
		style := m.styles.Muted
		if m.noticeErr {
			style = m.styles.Error
		}
		notice = style.Render(m.notice)
	}
	return notice + "\n" + m.styles.StatusBar.Render(footerHint)
}

// fill pads s to the viewport height so the footer stays put.
func (m Model) fill(s string) string {
	return lipgloss.PlaceVertical(m.viewport.Height, lipgloss.Top, s)
}

// =============================================================================
// Layout
// =============================================================================

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	vh := height - headerHeight - footerHeight
	if vh < 1 {
		vh = 1
	}
	if !m.ready {
		m.viewport = viewport.New(width, vh)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vh
	}
	m.refreshContent()
}

// refreshContent redraws every card into the viewport and records where
// each one starts.
func (m *Model) refreshContent() {
	painter := render.CardPainter{Styles: m.styles, Styled: true}
	opts := render.Options{
		HoverPreview: m.hover,
		Focus:        m.focus,
		Flipped:      m.flipped,
	}

	cards := render.NewCards(m.view)
	m.offsets = make([]int, len(cards))
	m.heights = make([]int, len(cards))

	var b strings.Builder
	line := 0
	for i, card := range cards {
		drawn := painter.Paint(card, opts.FaceFor(i, card.ID), i == m.focus)
		h := lipgloss.Height(drawn)
		m.offsets[i] = line
		m.heights[i] = h
		line += h

		b.WriteString(drawn)
		if i < len(cards)-1 {
			b.WriteString("\n")
		}
	}
	m.viewport.SetContent(b.String())
}
