// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package pokeapi

import (
	"fmt"
	"sort"

	"github.com/nirzon47/pokedex/services/catalog"
)

// --- PokeAPI wire structs ---
// Only the fields the catalog needs are decoded.

type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type pokemonType struct {
	Slot int           `json:"slot"`
	Type namedResource `json:"type"`
}

type pokemonAbility struct {
	Slot     int           `json:"slot"`
	IsHidden bool          `json:"is_hidden"`
	Ability  namedResource `json:"ability"`
}

type spriteSet struct {
	FrontDefault *string `json:"front_default"`
	FrontShiny   *string `json:"front_shiny"`
}

type pokemonSprites struct {
	FrontDefault *string `json:"front_default"`
	BackDefault  *string `json:"back_default"`
	FrontShiny   *string `json:"front_shiny"`
	Other        struct {
		DreamWorld spriteSet `json:"dream_world"`
		Home       spriteSet `json:"home"`
	} `json:"other"`
}

type pokemonResponse struct {
	ID        int              `json:"id"`
	Name      string           `json:"name"`
	Types     []pokemonType    `json:"types"`
	Abilities []pokemonAbility `json:"abilities"`
	Sprites   pokemonSprites   `json:"sprites"`
}

type typeListResponse struct {
	Count   int             `json:"count"`
	Results []namedResource `json:"results"`
}

// toRecord converts a decoded response into a catalog Record.
//
// Types are ordered by slot so the first category is the primary one.
// Abilities keep response order. Null sprites are omitted.
func (p pokemonResponse) toRecord() (catalog.Record, error) {
	if p.ID < 1 {
		return catalog.Record{}, fmt.Errorf("invalid record id %d", p.ID)
	}
	if p.Name == "" {
		return catalog.Record{}, fmt.Errorf("record %d has no name", p.ID)
	}

	types := append([]pokemonType(nil), p.Types...)
	sort.SliceStable(types, func(i, j int) bool { return types[i].Slot < types[j].Slot })

	categories := make([]string, 0, len(types))
	for _, t := range types {
		categories = append(categories, t.Type.Name)
	}

	abilities := make([]string, 0, len(p.Abilities))
	for _, a := range p.Abilities {
		abilities = append(abilities, a.Ability.Name)
	}

	images := make(map[catalog.ImageKind]string, 6)
	put := func(kind catalog.ImageKind, ref *string) {
		if ref != nil && *ref != "" {
			images[kind] = *ref
		}
	}
	put(catalog.ImageFront, p.Sprites.FrontDefault)
	put(catalog.ImageBack, p.Sprites.BackDefault)
	put(catalog.ImageShiny, p.Sprites.FrontShiny)
	put(catalog.ImageDreamWorld, p.Sprites.Other.DreamWorld.FrontDefault)
	put(catalog.ImageHome, p.Sprites.Other.Home.FrontDefault)
	put(catalog.ImageHomeShiny, p.Sprites.Other.Home.FrontShiny)

	return catalog.Record{
		ID:         p.ID,
		Name:       p.Name,
		Categories: categories,
		Abilities:  abilities,
		Images:     images,
	}, nil
}
