// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/nirzon47/pokedex/pkg/ux"
	"github.com/nirzon47/pokedex/services/catalog"
)

const (
	// NoResultsText is the empty-state indicator.
	NoResultsText = "No results"

	// LoadingText is the busy-state line.
	LoadingText = "Loading..."
)

// =============================================================================
// Card drawing
// =============================================================================

// CardPainter draws single cards, styled or plain.
type CardPainter struct {
	Styles ux.Styles
	Styled bool
}

// Paint draws one face of a card.
//
// Plain output is one line per face plus an image line, for pipes and
// tests. Styled output is a bordered block tinted with the category
// style; the focused card gets the theme's focus border.
func (p CardPainter) Paint(c Card, face Face, focused bool) string {
	var b strings.Builder

	header := fmt.Sprintf("#%s %s", c.PaddedID, c.DisplayName)
	image := c.FrontImage
	var detail string
	if face == FaceBack {
		image = c.BackImage
		detail = "Abilities: " + c.Abilities
	} else {
		detail = p.tags(c)
	}
	if image == "" {
		image = "(no image)"
	}

	if !p.Styled {
		marker := " "
		if focused {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %s  %s\n", marker, header, detail)
		fmt.Fprintf(&b, "      %s", image)
		return b.String()
	}

	body := lipgloss.NewStyle().
		Foreground(c.Style.Foreground).
		Background(c.Style.Background).
		Padding(0, 1)
	b.WriteString(body.Bold(true).Render(header))
	b.WriteString("\n")
	b.WriteString(detail)
	b.WriteString("\n")
	b.WriteString(p.Styles.Muted.Render(image))

	frame := p.Styles.Card
	if focused {
		frame = p.Styles.CardFocused
	}
	return frame.BorderForeground(borderColor(c, focused, p.Styles)).Render(b.String())
}

func (p CardPainter) tags(c Card) string {
	parts := make([]string, 0, len(c.Categories))
	for _, tag := range c.Categories {
		if p.Styled {
			s := CategoryStyle(tag)
			parts = append(parts, lipgloss.NewStyle().
				Foreground(s.Foreground).
				Background(s.Background).
				Padding(0, 1).
				Render(tag))
			continue
		}
		parts = append(parts, "["+tag+"]")
	}
	return strings.Join(parts, " ")
}

func borderColor(c Card, focused bool, s ux.Styles) lipgloss.Color {
	if focused {
		return s.Palette.Accent
	}
	return c.Style.Background
}

// =============================================================================
// TextRenderer
// =============================================================================

// TextRenderer implements catalog.Renderer by writing each view to a
// writer. It is used by the one-shot list command.
//
// # Thread Safety
//
// Safe for concurrent use; writes are serialised.
type TextRenderer struct {
	mu      sync.Mutex
	out     io.Writer
	painter CardPainter
	opts    Options
}

// NewTextRenderer creates a renderer writing to out. Styling is enabled
// when out is a terminal.
func NewTextRenderer(out io.Writer, theme ux.Theme, opts Options) *TextRenderer {
	return &TextRenderer{
		out: out,
		painter: CardPainter{
			Styles: ux.NewStyles(theme),
			Styled: ux.IsTerminal(out),
		},
		opts: opts,
	}
}

// WithStyled forces styling on or off.
func (r *TextRenderer) WithStyled(styled bool) *TextRenderer {
	r.painter.Styled = styled
	return r
}

var _ catalog.Renderer = (*TextRenderer)(nil)

// Render writes the view.
//
// A busy view prints a loading line. A loaded view with no records prints
// the empty-state indicator. A view that was never loaded and is not busy
// prints nothing.
func (r *TextRenderer) Render(view catalog.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.out, Draw(view, r.painter, r.opts))
}

// Draw renders a view to a string.
func Draw(view catalog.View, painter CardPainter, opts Options) string {
	var b strings.Builder

	if view.Busy {
		b.WriteString(LoadingText)
		b.WriteString("\n")
		return b.String()
	}
	if !view.Loaded {
		return ""
	}
	if view.NoResults {
		line := NoResultsText
		if painter.Styled {
			line = painter.Styles.Warning.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
		return b.String()
	}

	for i, card := range NewCards(view) {
		b.WriteString(painter.Paint(card, opts.FaceFor(i, card.ID), i == opts.Focus))
		b.WriteString("\n")
	}
	return b.String()
}

// Summary describes the active filters and the result count.
func Summary(view catalog.View) string {
	parts := []string{fmt.Sprintf("generation %s", view.Generation)}
	if view.Category != "" {
		parts = append(parts, "type "+view.Category)
	}
	if view.Query != "" {
		parts = append(parts, fmt.Sprintf("name %q", view.Query))
	}
	return fmt.Sprintf("%s: %d shown", strings.Join(parts, ", "), len(view.Records))
}
