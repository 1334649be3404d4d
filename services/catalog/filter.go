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
	"slices"
	"strings"
)

// CategoryAll is the selector value that clears the category filter.
const CategoryAll = "all"

// FilterState is the active filter selection.
//
// Category is empty when no category filter is active. Query is empty
// when no name filter is active.
type FilterState struct {
	Category string
	Query    string
}

// FilterEngine derives the visible subset from a published dataset.
//
// # Description
//
// The engine keeps the full dataset, the active selectors and a cached
// base: the subset produced by the last concrete category selection. The
// name query is evaluated against that base (see the package doc for the
// exact rules), so typing and deleting characters never narrows the
// result irreversibly.
//
// # Thread Safety
//
// Not safe for concurrent use. Controller serialises access.
type FilterEngine struct {
	dataset Dataset
	loaded  bool

	state FilterState

	// base is the cached category subset. Only meaningful while
	// state.Category is non-empty; it may be empty.
	base []Record

	visible []Record
}

// NewFilterEngine creates an engine with no dataset.
func NewFilterEngine() *FilterEngine {
	return &FilterEngine{}
}

// Publish replaces the dataset and clears every filter.
func (f *FilterEngine) Publish(d Dataset) View {
	f.dataset = d
	f.loaded = true
	return f.Reset()
}

// Reset clears both selectors and the cached base.
//
// # Outputs
//
//   - View: The full dataset, NoResults cleared.
func (f *FilterEngine) Reset() View {
	f.state = FilterState{}
	f.base = nil
	f.visible = f.dataset.Records
	return f.View()
}

// SetCategory applies a category filter.
//
// # Description
//
// An empty tag or CategoryAll clears the category filter and the visible
// subset becomes the full dataset. Any other tag selects the records whose
// primary category equals tag exactly (case-sensitive); records with no
// categories never match. The result becomes the cached base.
//
// The name query is cleared in both cases, since it was typed against a
// different base.
//
// # Outputs
//
//   - View: The new visible subset. NoResults is set when a concrete tag
//     matches nothing; the dataset itself is untouched.
func (f *FilterEngine) SetCategory(tag string) View {
	f.state.Query = ""

	if tag == "" || tag == CategoryAll {
		f.state.Category = ""
		f.base = nil
		f.visible = f.dataset.Records
		return f.View()
	}

	f.state.Category = tag
	f.base = filterByCategory(f.dataset.Records, tag)
	f.visible = f.base
	return f.View()
}

// SetNameQuery applies a case-insensitive substring filter on names.
//
// # Description
//
// An empty text reverts to the base without filtering: the category
// subset when a category is active (even if that subset is empty), the
// full dataset otherwise.
//
// A non-empty text is matched against the category subset when it is
// non-empty, and against the full dataset otherwise. The fallback does
// not replace the cached base.
//
// # Outputs
//
//   - View: The new visible subset, NoResults set when nothing matches.
func (f *FilterEngine) SetNameQuery(text string) View {
	f.state.Query = text

	if text == "" {
		f.visible = f.categoryBase()
		return f.View()
	}

	f.visible = filterByName(f.queryBase(), text)
	return f.View()
}

// View returns the current visible subset.
//
// The returned slice is a copy; callers may keep it.
func (f *FilterEngine) View() View {
	return View{
		Records:    slices.Clone(f.visible),
		Loaded:     f.loaded,
		NoResults:  f.loaded && len(f.visible) == 0,
		Generation: f.dataset.Generation,
		Category:   f.state.Category,
		Query:      f.state.Query,
	}
}

// Visible returns a copy of the visible subset.
func (f *FilterEngine) Visible() []Record {
	return slices.Clone(f.visible)
}

// State returns the active selectors.
func (f *FilterEngine) State() FilterState {
	return f.state
}

// Dataset returns the published dataset.
func (f *FilterEngine) Dataset() (Dataset, bool) {
	return f.dataset, f.loaded
}

// categoryBase is what an empty name query reverts to.
func (f *FilterEngine) categoryBase() []Record {
	if f.state.Category == "" {
		return f.dataset.Records
	}
	return f.base
}

// queryBase is what a non-empty name query is matched against.
func (f *FilterEngine) queryBase() []Record {
	if f.state.Category == "" || len(f.base) == 0 {
		return f.dataset.Records
	}
	return f.base
}

func filterByCategory(records []Record, tag string) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if primary, ok := r.Primary(); ok && primary == tag {
			out = append(out, r)
		}
	}
	return out
}

func filterByName(records []Record, text string) []Record {
	needle := strings.ToLower(text)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), needle) {
			out = append(out, r)
		}
	}
	return out
}
