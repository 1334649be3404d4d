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

import "github.com/charmbracelet/lipgloss"

// Style is the card coloring for a category.
type Style struct {
	// Name is a short color token, useful in plain output and tests.
	Name string

	Background lipgloss.Color
	Foreground lipgloss.Color
}

// DefaultCategoryStyle is used for categories missing from the table and
// for records with no category at all.
var DefaultCategoryStyle = Style{
	Name:       "neutral",
	Background: lipgloss.Color("#94A3B8"),
	Foreground: lipgloss.Color("#0F172A"),
}

const (
	darkText  = lipgloss.Color("#111827")
	lightText = lipgloss.Color("#F9FAFB")
)

// categoryStyles is keyed by primary category.
var categoryStyles = map[string]Style{
	"grass":    {Name: "green", Background: lipgloss.Color("#4ADE80"), Foreground: darkText},
	"fire":     {Name: "red", Background: lipgloss.Color("#F87171"), Foreground: darkText},
	"water":    {Name: "blue", Background: lipgloss.Color("#60A5FA"), Foreground: darkText},
	"bug":      {Name: "yellow", Background: lipgloss.Color("#FACC15"), Foreground: darkText},
	"normal":   {Name: "gray", Background: lipgloss.Color("#9CA3AF"), Foreground: darkText},
	"poison":   {Name: "purple", Background: lipgloss.Color("#C084FC"), Foreground: darkText},
	"electric": {Name: "light-yellow", Background: lipgloss.Color("#FDE047"), Foreground: darkText},
	"ground":   {Name: "brown", Background: lipgloss.Color("#A16207"), Foreground: lightText},
	"fairy":    {Name: "pink", Background: lipgloss.Color("#F472B6"), Foreground: darkText},
	"fighting": {Name: "dark-red", Background: lipgloss.Color("#DC2626"), Foreground: lightText},
	"psychic":  {Name: "dark-pink", Background: lipgloss.Color("#DB2777"), Foreground: lightText},
	"rock":     {Name: "dark-gray", Background: lipgloss.Color("#4B5563"), Foreground: lightText},
	"ghost":    {Name: "dark-purple", Background: lipgloss.Color("#9333EA"), Foreground: lightText},
	"ice":      {Name: "cyan", Background: lipgloss.Color("#22D3EE"), Foreground: darkText},
	"dragon":   {Name: "cream", Background: lipgloss.Color("#FEFCE8"), Foreground: darkText},
	"dark":     {Name: "charcoal", Background: lipgloss.Color("#1F2937"), Foreground: lightText},
	"steel":    {Name: "slate", Background: lipgloss.Color("#374151"), Foreground: lightText},
	"flying":   {Name: "sky", Background: lipgloss.Color("#93C5FD"), Foreground: darkText},
	"unknown":  {Name: "zinc", Background: lipgloss.Color("#27272A"), Foreground: lightText},
	"shadow":   {Name: "black", Background: lipgloss.Color("#18181B"), Foreground: lightText},
}

// CategoryStyle returns the style for a category tag, or
// DefaultCategoryStyle when the tag is not in the table.
func CategoryStyle(tag string) Style {
	if s, ok := categoryStyles[tag]; ok {
		return s
	}
	return DefaultCategoryStyle
}

// HasCategoryStyle reports whether tag has a dedicated style.
func HasCategoryStyle(tag string) bool {
	_, ok := categoryStyles[tag]
	return ok
}
