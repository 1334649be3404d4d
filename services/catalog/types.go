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
	"context"

	"github.com/google/uuid"
)

// =============================================================================
// Records
// =============================================================================

// ImageKind names the presentation context of an image reference.
type ImageKind string

const (
	// ImageFront is the default front-facing sprite.
	ImageFront ImageKind = "front"

	// ImageBack is the default back-facing sprite.
	ImageBack ImageKind = "back"

	// ImageShiny is the shiny front-facing sprite.
	ImageShiny ImageKind = "shiny"

	// ImageDreamWorld is the dream world artwork. Missing after generation five.
	ImageDreamWorld ImageKind = "dream_world"

	// ImageHome is the HOME artwork.
	ImageHome ImageKind = "home"

	// ImageHomeShiny is the shiny HOME artwork.
	ImageHomeShiny ImageKind = "home_shiny"
)

// Record is one creature as returned by a Provider.
//
// # Description
//
// Records are values. They are created on a successful fetch and never
// mutated afterwards; a generation change discards them wholesale.
//
// Categories are ordered and the first entry is the primary category.
// A record with no categories is a data-integrity fault and never matches
// a category filter.
type Record struct {
	ID         int
	Name       string
	Categories []string
	Abilities  []string
	Images     map[ImageKind]string
}

// Primary returns the primary category and whether one exists.
func (r Record) Primary() (string, bool) {
	if len(r.Categories) == 0 {
		return "", false
	}
	return r.Categories[0], true
}

// Image returns the first non-empty image reference among kinds.
func (r Record) Image(kinds ...ImageKind) string {
	for _, k := range kinds {
		if ref := r.Images[k]; ref != "" {
			return ref
		}
	}
	return ""
}

// =============================================================================
// Dataset
// =============================================================================

// Dataset is the full set of records loaded for one generation.
//
// Records are in ascending ID order, which equals request order.
type Dataset struct {
	Generation GenerationID
	Records    []Record
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// =============================================================================
// Collaborators
// =============================================================================

// Provider is the external source of records and categories.
//
// # Description
//
// FetchRecord is called concurrently, once per ID of a generation.
// Implementations must be safe for concurrent use and must not assume
// any completion order.
type Provider interface {
	// FetchRecord returns the record with the given ID.
	FetchRecord(ctx context.Context, id int) (Record, error)

	// FetchCategories returns the list of valid category tags.
	FetchCategories(ctx context.Context) ([]string, error)
}

// Renderer consumes views. It holds no filter state of its own.
type Renderer interface {
	Render(view View)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(View)

// Render implements Renderer.
func (f RendererFunc) Render(view View) {
	f(view)
}

type noopRenderer struct{}

func (noopRenderer) Render(View) {}

// =============================================================================
// View
// =============================================================================

// View is the visible subset plus the state a renderer needs to draw it.
//
// # Description
//
// Loaded is false until the first dataset is published. A loaded view with
// no records is the empty state and must be drawn as such, not as a blank
// area; NoResults is set in exactly that case.
type View struct {
	Records    []Record
	Loaded     bool
	NoResults  bool
	Busy       bool
	Generation GenerationID
	Category   string
	Query      string
}

// =============================================================================
// Tickets
// =============================================================================

// Ticket tags an in-flight generation load.
//
// # Description
//
// Seq increases with every load the Controller begins, so two loads of the
// same generation still get distinct tickets. BatchID only correlates logs
// and spans.
type Ticket struct {
	Generation GenerationID
	Seq        uint64
	BatchID    uuid.UUID
}

// Batch is the settled result of one ticket.
type Batch struct {
	Ticket  Ticket
	Dataset Dataset
	Err     error
}
