// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package catalog

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// GenerationID identifies a generation, e.g. "one".
type GenerationID string

// DefaultGeneration is the generation shown on start and after a full reset.
const DefaultGeneration GenerationID = "one"

// Generation is a named, contiguous, inclusive ID range.
//
// FrontImage and BackImage list image kinds in preference order for the
// two card faces. Dream world art stops after generation five, so later
// generations prefer HOME art.
type Generation struct {
	ID         GenerationID
	Start      int
	End        int
	FrontImage []ImageKind
	BackImage  []ImageKind
}

// Size returns the number of IDs in the range.
func (g Generation) Size() int {
	return g.End - g.Start + 1
}

// Contains reports whether id lies in the range.
func (g Generation) Contains(id int) bool {
	return id >= g.Start && id <= g.End
}

var (
	classicFront = []ImageKind{ImageDreamWorld, ImageHome, ImageFront}
	modernFront  = []ImageKind{ImageHome, ImageFront}
	backFace     = []ImageKind{ImageHomeShiny, ImageShiny, ImageBack}
)

// generations is the Group Range Table, in display order.
var generations = []Generation{
	{ID: "one", Start: 1, End: 151, FrontImage: classicFront, BackImage: backFace},
	{ID: "two", Start: 152, End: 251, FrontImage: classicFront, BackImage: backFace},
	{ID: "three", Start: 252, End: 386, FrontImage: classicFront, BackImage: backFace},
	{ID: "four", Start: 387, End: 493, FrontImage: classicFront, BackImage: backFace},
	{ID: "five", Start: 494, End: 649, FrontImage: classicFront, BackImage: backFace},
	{ID: "six", Start: 650, End: 721, FrontImage: modernFront, BackImage: backFace},
	{ID: "seven", Start: 722, End: 809, FrontImage: modernFront, BackImage: backFace},
	{ID: "eight", Start: 810, End: 905, FrontImage: modernFront, BackImage: backFace},
	{ID: "nine", Start: 906, End: 1025, FrontImage: modernFront, BackImage: backFace},
}

// Generations returns a copy of the Group Range Table in display order.
func Generations() []Generation {
	out := make([]Generation, len(generations))
	copy(out, generations)
	return out
}

// LookupGeneration returns the generation with the given identifier.
//
// # Outputs
//
//   - Generation: The matching entry.
//   - error: *InvalidGenerationError when id is not in the table.
func LookupGeneration(id GenerationID) (Generation, error) {
	for _, g := range generations {
		if g.ID == id {
			return g, nil
		}
	}
	return Generation{}, &InvalidGenerationError{
		ID:         id,
		Suggestion: GenerationID(Suggest(string(id), generationNames())),
	}
}

// NextGeneration returns the generation after id, wrapping around.
// Unknown identifiers map to the first generation.
func NextGeneration(id GenerationID, step int) GenerationID {
	idx := 0
	for i, g := range generations {
		if g.ID == id {
			idx = i
			break
		}
	}
	n := len(generations)
	idx = ((idx+step)%n + n) % n
	return generations[idx].ID
}

func generationNames() []string {
	names := make([]string, len(generations))
	for i, g := range generations {
		names[i] = string(g.ID)
	}
	return names
}

// Suggest returns the candidate closest to input, or "" when nothing is
// close enough to be a plausible typo.
func Suggest(input string, candidates []string) string {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return ""
	}
	best := ""
	bestDist := -1
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(in, strings.ToLower(cand))
		if dist > suggestLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	return best
}

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
