// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package catalog holds the state/filter/render pipeline of the browser.
//
// # Description
//
// The package owns everything between the record provider and the
// renderer:
//
//	Generations ─► Coordinator ─► Dataset ─► FilterEngine ─► View ─► Renderer
//
//   - Generations is the static table mapping a generation identifier to
//     an inclusive ID range.
//   - Coordinator fetches every record of one generation concurrently and
//     assembles them in ascending ID order, all-or-nothing.
//   - FilterEngine narrows the published dataset by primary category and
//     by case-insensitive name substring.
//   - Controller is the application state object. It issues a Ticket for
//     every generation load, discards completions whose ticket is no
//     longer current, and drives the Renderer after every transition.
//
// # Filter Bases
//
// The name query is always evaluated against a base, never against the
// result of a previous name query:
//
//   - no category active: the full dataset
//   - category active with a non-empty subset: that subset
//   - category active with an empty subset: the full dataset (fallback)
//
// Changing the category, including back to "all", clears the name query.
//
// # Thread Safety
//
// Controller is safe for concurrent use. FilterEngine and Coordinator are
// not synchronised on their own; Controller serialises access to them.
package catalog
