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
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// =============================================================================
// Controller
// =============================================================================

// Controller owns the dataset, the filter state and the load state.
//
// # Description
//
// A generation load is split in three steps so that interactive callers
// can run the fetch off their event loop:
//
//  1. Begin validates the generation, marks it active, sets busy and
//     returns a Ticket.
//  2. Fetch runs the batch for that ticket (no lock held).
//  3. Complete publishes the batch, or drops it with ErrStaleBatch when a
//     newer Begin has happened since. A dropped batch never touches the
//     dataset and never renders.
//
// LoadGeneration does all three for synchronous callers.
//
// Every transition renders the resulting View through the Renderer.
//
// # Thread Safety
//
// Safe for concurrent use. The Renderer is called with the controller
// lock held and must not call back into the Controller.
type Controller struct {
	mu sync.Mutex

	coordinator *Coordinator
	renderer    Renderer
	logger      *slog.Logger

	engine *FilterEngine

	// active is the selected generation. It may differ from the dataset's
	// generation while a load is in flight.
	active GenerationID
	latest Ticket
	seq    uint64
	busy   bool

	categories []string
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithRenderer sets the renderer driven after every transition.
func WithRenderer(r Renderer) ControllerOption {
	return func(c *Controller) {
		if r != nil {
			c.renderer = r
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController creates a Controller with no dataset loaded.
//
// # Inputs
//
//   - coordinator: Fetches generations. Must not be nil.
//   - opts: Optional renderer and logger.
//
// # Outputs
//
//   - *Controller: Ready to use. Active generation is DefaultGeneration.
func NewController(coordinator *Coordinator, opts ...ControllerOption) *Controller {
	c := &Controller{
		coordinator: coordinator,
		renderer:    noopRenderer{},
		logger:      slog.Default(),
		engine:      NewFilterEngine(),
		active:      DefaultGeneration,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// -----------------------------------------------------------------------------
// Generation loads
// -----------------------------------------------------------------------------

// Begin starts a generation load.
//
// # Outputs
//
//   - Ticket: Tag for the batch. Pass it to Fetch, then the Batch to Complete.
//   - error: *InvalidGenerationError; no state changes in that case.
func (c *Controller) Begin(id GenerationID) (Ticket, error) {
	if _, err := LookupGeneration(id); err != nil {
		return Ticket{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := Ticket{Generation: id, Seq: c.seq, BatchID: uuid.New()}
	c.latest = t
	c.active = id
	c.busy = true

	c.logger.Info("generation load started",
		slog.String("generation", string(id)),
		slog.String("batch_id", t.BatchID.String()),
		slog.Uint64("seq", t.Seq),
	)
	c.renderer.Render(c.viewLocked())
	return t, nil
}

// Fetch runs the batch for a ticket. It holds no lock while fetching.
func (c *Controller) Fetch(ctx context.Context, t Ticket) Batch {
	return c.coordinator.Fetch(ctx, t)
}

// Complete applies a settled batch.
//
// # Description
//
// A batch whose ticket is not the latest issued is discarded and
// ErrStaleBatch returned. Otherwise busy clears and:
//
//   - on failure the prior dataset and filters stay as they were, the
//     active generation reverts to the displayed one, and the batch
//     error is returned;
//   - on success the dataset is published, every filter is cleared and
//     the full dataset is rendered.
//
// # Outputs
//
//   - View: The view after the batch was applied. Zero for stale batches.
//   - error: ErrStaleBatch, or the batch error.
func (c *Controller) Complete(b Batch) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	logger := c.logger.With(
		slog.String("generation", string(b.Ticket.Generation)),
		slog.String("batch_id", b.Ticket.BatchID.String()),
	)

	if b.Ticket != c.latest {
		staleBatches.Inc()
		logger.Debug("stale batch discarded",
			slog.Uint64("seq", b.Ticket.Seq),
			slog.Uint64("latest_seq", c.latest.Seq),
		)
		return View{}, fmt.Errorf("%w: generation %q seq %d superseded by %q seq %d",
			ErrStaleBatch, b.Ticket.Generation, b.Ticket.Seq, c.latest.Generation, c.latest.Seq)
	}

	c.busy = false

	if b.Err != nil {
		if ds, ok := c.engine.Dataset(); ok {
			c.active = ds.Generation
		}
		logger.Warn("generation load failed", slog.String("error", b.Err.Error()))
		view := c.viewLocked()
		c.renderer.Render(view)
		return view, b.Err
	}

	c.engine.Publish(b.Dataset)
	view := c.viewLocked()
	logger.Info("generation published", slog.Int("records", b.Dataset.Len()))
	c.renderer.Render(view)
	return view, nil
}

// LoadGeneration loads a generation synchronously.
//
// # Outputs
//
//   - View: The full new dataset on success.
//   - error: *InvalidGenerationError, *PartialFetchFailureError, or
//     ErrStaleBatch when another load began while this one was in flight.
func (c *Controller) LoadGeneration(ctx context.Context, id GenerationID) (View, error) {
	t, err := c.Begin(id)
	if err != nil {
		return c.View(), err
	}
	return c.Complete(c.Fetch(ctx, t))
}

// BeginReset clears every filter and begins a load of DefaultGeneration.
//
// # Description
//
// The cleared view is rendered at once; the ticket completes like any
// other through Fetch and Complete.
//
// # Outputs
//
//   - Ticket: Tag for the default generation batch.
//   - error: Never non-nil for the built-in default generation.
func (c *Controller) BeginReset() (Ticket, error) {
	c.mu.Lock()
	c.engine.Reset()
	recordFilterOp("reset", c.viewLocked())
	c.mu.Unlock()
	return c.Begin(DefaultGeneration)
}

// -----------------------------------------------------------------------------
// Filters
// -----------------------------------------------------------------------------

// SetCategory applies a category filter. See FilterEngine.SetCategory.
func (c *Controller) SetCategory(tag string) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.engine.SetCategory(tag)
	view := c.viewLocked()
	recordFilterOp("category", view)
	c.logger.Debug("category filter applied",
		slog.String("category", view.Category),
		slog.Int("visible", len(view.Records)),
	)
	c.renderer.Render(view)
	return view
}

// SetNameQuery applies a name filter. See FilterEngine.SetNameQuery.
func (c *Controller) SetNameQuery(text string) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.engine.SetNameQuery(text)
	view := c.viewLocked()
	recordFilterOp("name", view)
	c.renderer.Render(view)
	return view
}

// Reset clears every filter without reloading.
func (c *Controller) Reset() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.engine.Reset()
	view := c.viewLocked()
	recordFilterOp("reset", view)
	c.renderer.Render(view)
	return view
}

// -----------------------------------------------------------------------------
// Categories
// -----------------------------------------------------------------------------

// LoadCategories fetches the category list from the provider.
//
// # Outputs
//
//   - []string: The fetched list, or the previously loaded one (possibly
//     empty) when the provider fails.
//   - error: Wraps ErrProviderUnavailable on failure. Non-fatal.
func (c *Controller) LoadCategories(ctx context.Context) ([]string, error) {
	cats, err := c.coordinator.Provider().FetchCategories(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Warn("category list unavailable", slog.String("error", err.Error()))
		return slices.Clone(c.categories), fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	c.categories = slices.Clone(cats)
	return slices.Clone(cats), nil
}

// Categories returns the last successfully loaded category list.
func (c *Controller) Categories() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.categories)
}

// -----------------------------------------------------------------------------
// Reads
// -----------------------------------------------------------------------------

// View returns the current view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Busy reports whether the latest generation load is still outstanding.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// ActiveGeneration returns the selected generation.
func (c *Controller) ActiveGeneration() GenerationID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Filters returns the active filter selectors.
func (c *Controller) Filters() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.State()
}

func (c *Controller) viewLocked() View {
	v := c.engine.View()
	v.Busy = c.busy
	return v
}
