// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package render turns catalog views into cards.
//
// A card has two faces. The front shows the padded ID, the name, the
// primary image and the category tags; the back shows the ID, the name,
// the secondary image and the ability list. Which face is shown is a
// declarative Options decision (hover preview, explicit flips), never
// per-card state held by the renderer.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nirzon47/pokedex/services/catalog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Face selects which side of a card is shown.
type Face int

const (
	// FaceFront shows the primary image and the category tags.
	FaceFront Face = iota

	// FaceBack shows the secondary image and the abilities.
	FaceBack
)

// Card is the display model of one record.
type Card struct {
	ID          int
	PaddedID    string
	Name        string
	DisplayName string
	FrontImage  string
	BackImage   string
	Categories  []string
	Abilities   string
	Style       Style
}

var upperCaser = cases.Upper(language.English)

// capitalize upper-cases the first rune only, so "run-away" reads
// "Run-away".
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return upperCaser.String(string(r)) + s[size:]
}

// NewCard builds the card for a record shown under generation gen.
//
// # Description
//
// The ID is zero-padded to at least three digits. Images follow the
// generation's preference order; for an unknown generation the modern
// order is used. The name and each ability get an upper-case first
// letter; abilities are joined with ", ". The
// style follows the primary category.
func NewCard(rec catalog.Record, gen catalog.GenerationID) Card {
	front, back := imageOrder(gen)

	abilities := make([]string, 0, len(rec.Abilities))
	for _, a := range rec.Abilities {
		abilities = append(abilities, capitalize(a))
	}

	style := DefaultCategoryStyle
	if primary, ok := rec.Primary(); ok {
		style = CategoryStyle(primary)
	}

	return Card{
		ID:          rec.ID,
		PaddedID:    PadID(rec.ID),
		Name:        rec.Name,
		DisplayName: capitalize(rec.Name),
		FrontImage:  rec.Image(front...),
		BackImage:   rec.Image(back...),
		Categories:  append([]string(nil), rec.Categories...),
		Abilities:   strings.Join(abilities, ", "),
		Style:       style,
	}
}

// NewCards builds the cards of a view in order.
func NewCards(view catalog.View) []Card {
	cards := make([]Card, 0, len(view.Records))
	for _, rec := range view.Records {
		cards = append(cards, NewCard(rec, view.Generation))
	}
	return cards
}

// PadID formats id with at least three digits.
func PadID(id int) string {
	return fmt.Sprintf("%03d", id)
}

func imageOrder(id catalog.GenerationID) (front, back []catalog.ImageKind) {
	if gen, err := catalog.LookupGeneration(id); err == nil {
		return gen.FrontImage, gen.BackImage
	}
	return []catalog.ImageKind{catalog.ImageHome, catalog.ImageFront},
		[]catalog.ImageKind{catalog.ImageHomeShiny, catalog.ImageShiny, catalog.ImageBack}
}

// =============================================================================
// Face selection
// =============================================================================

// Options controls which face each card shows.
type Options struct {
	// HoverPreview shows the back face of the focused card.
	HoverPreview bool

	// Focus is the index of the focused card, -1 for none.
	Focus int

	// Flipped holds record IDs the user flipped explicitly.
	Flipped map[int]bool

	// AllBack shows every card's back face.
	AllBack bool
}

// FaceFor returns the face of the card at index idx with record ID id.
func (o Options) FaceFor(idx, id int) Face {
	if o.AllBack || o.Flipped[id] {
		return FaceBack
	}
	if o.HoverPreview && idx == o.Focus {
		return FaceBack
	}
	return FaceFront
}
