// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal styling for the pokedex CLI.
//
// Two themes exist, light and dark, each a Palette from which a Styles set
// is derived. The theme is a user preference and can be switched at run
// time, so styles are values built per theme rather than package globals.
package ux

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme names a color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme is used when no preference is stored.
const DefaultTheme = ThemeDark

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	default:
		return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// =============================================================================
// Palettes
// =============================================================================

// Palette is the set of colors a theme is drawn with.
type Palette struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Border     lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

var darkPalette = Palette{
	Background: lipgloss.Color("#1A1B26"),
	Surface:    lipgloss.Color("#24283B"),
	Text:       lipgloss.Color("#E0E0E0"),
	Muted:      lipgloss.Color("#6B7089"),
	Accent:     lipgloss.Color("#EE1515"), // dex red
	Border:     lipgloss.Color("#414868"),
	Success:    lipgloss.Color("#9ECE6A"),
	Warning:    lipgloss.Color("#F4D03F"),
	Error:      lipgloss.Color("#F7768E"),
}

var lightPalette = Palette{
	Background: lipgloss.Color("#F5F5F5"),
	Surface:    lipgloss.Color("#FFFFFF"),
	Text:       lipgloss.Color("#222222"),
	Muted:      lipgloss.Color("#8A8A8A"),
	Accent:     lipgloss.Color("#CC0000"),
	Border:     lipgloss.Color("#D0D0D0"),
	Success:    lipgloss.Color("#2E7D32"),
	Warning:    lipgloss.Color("#B7950B"),
	Error:      lipgloss.Color("#C62828"),
}

// PaletteFor returns the palette of a theme. Unknown themes get the default.
func PaletteFor(t Theme) Palette {
	if t == ThemeLight {
		return lightPalette
	}
	return darkPalette
}

// =============================================================================
// Styles
// =============================================================================

// Styles is the lipgloss style set for one theme.
type Styles struct {
	Theme   Theme
	Palette Palette

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	Card        lipgloss.Style
	CardFocused lipgloss.Style
	Box         lipgloss.Style
	StatusBar   lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(t Theme) Styles {
	p := PaletteFor(t)
	return Styles{
		Theme:   t,
		Palette: p,

		Title:     lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Subtitle:  lipgloss.NewStyle().Foreground(p.Text),
		Bold:      lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		Muted:     lipgloss.NewStyle().Foreground(p.Muted),
		Success:   lipgloss.NewStyle().Foreground(p.Success),
		Warning:   lipgloss.NewStyle().Foreground(p.Warning),
		Error:     lipgloss.NewStyle().Foreground(p.Error),
		Highlight: lipgloss.NewStyle().Bold(true).Foreground(p.Accent),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		CardFocused: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(p.Accent).
			Padding(0, 1),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),
	}
}
