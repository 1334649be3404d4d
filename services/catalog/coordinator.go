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
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nirzon47/pokedex/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Coordinator fetches whole generations from a Provider.
//
// # Description
//
// One request is issued per ID of the generation, concurrently and with
// no ordering dependency between requests. The batch joins only after
// every request has settled. Records are placed by requested ID, not by
// completion order, so the assembled dataset is deterministic.
//
// # Thread Safety
//
// Safe for concurrent use as long as the Provider is.
type Coordinator struct {
	provider       Provider
	logger         *slog.Logger
	maxConcurrency int
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithFetchLogger sets the logger for batch events.
func WithFetchLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxConcurrency caps the number of in-flight record requests per
// batch. Zero or negative means one goroutine per ID.
func WithMaxConcurrency(n int) CoordinatorOption {
	return func(c *Coordinator) {
		c.maxConcurrency = n
	}
}

// NewCoordinator creates a Coordinator.
//
// # Inputs
//
//   - provider: Record source. Must not be nil.
//   - opts: Optional configuration.
//
// # Outputs
//
//   - *Coordinator: Ready to use.
//   - error: ErrNilProvider when provider is nil.
func NewCoordinator(provider Provider, opts ...CoordinatorOption) (*Coordinator, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	c := &Coordinator{
		provider: provider,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Provider returns the underlying record provider.
func (c *Coordinator) Provider() Provider {
	return c.provider
}

// Load fetches a generation under a fresh, untracked ticket.
//
// # Outputs
//
//   - Dataset: All records of the generation in ascending ID order.
//   - error: *InvalidGenerationError or *PartialFetchFailureError.
func (c *Coordinator) Load(ctx context.Context, id GenerationID) (Dataset, error) {
	b := c.Fetch(ctx, Ticket{Generation: id, BatchID: uuid.New()})
	return b.Dataset, b.Err
}

// Fetch runs the batch for a ticket and blocks until it settles.
//
// # Description
//
// Fetch never fails fast: a failed record does not cancel its siblings,
// so the returned error names every failing ID. When any record fails
// the batch carries no dataset.
//
// # Inputs
//
//   - ctx: Passed to every provider request.
//   - t: The ticket to fetch. t.Generation must be in the table.
//
// # Outputs
//
//   - Batch: The ticket together with either a dataset or an error.
func (c *Coordinator) Fetch(ctx context.Context, t Ticket) Batch {
	gen, err := LookupGeneration(t.Generation)
	if err != nil {
		return Batch{Ticket: t, Err: err}
	}

	ctx, span := telemetry.StartSpan(ctx, tracerName, "catalog.Coordinator.Fetch",
		trace.WithAttributes(
			attribute.String("generation", string(gen.ID)),
			attribute.Int("batch.size", gen.Size()),
			attribute.String("batch.id", t.BatchID.String()),
		),
	)
	defer span.End()

	logger := c.logger.With(
		slog.String("generation", string(gen.ID)),
		slog.String("batch_id", t.BatchID.String()),
	)
	logger.Debug("batch started", slog.Int("size", gen.Size()))
	start := time.Now()

	records := make([]Record, gen.Size())
	var (
		mu     sync.Mutex
		failed = make(map[int]error)
	)

	var g errgroup.Group
	if c.maxConcurrency > 0 {
		g.SetLimit(c.maxConcurrency)
	}
	for id := gen.Start; id <= gen.End; id++ {
		g.Go(func() error {
			rec, err := c.provider.FetchRecord(ctx, id)
			if err == nil && rec.ID != id {
				err = fmt.Errorf("provider returned record %d for id %d", rec.ID, id)
			}
			if err != nil {
				mu.Lock()
				failed[id] = err
				mu.Unlock()
				return nil
			}
			records[id-gen.Start] = rec
			return nil
		})
	}
	_ = g.Wait()

	batchDuration.WithLabelValues(string(gen.ID)).Observe(time.Since(start).Seconds())

	if len(failed) > 0 {
		ids := make([]int, 0, len(failed))
		for id := range failed {
			ids = append(ids, id)
		}
		sort.Ints(ids)

		ferr := &PartialFetchFailureError{Generation: gen.ID, FailedIDs: ids, Errs: failed}
		batchesTotal.WithLabelValues(string(gen.ID), "failure").Inc()
		recordFailures.WithLabelValues(string(gen.ID)).Add(float64(len(ids)))
		telemetry.RecordError(span, ferr, attribute.Int("batch.failed", len(ids)))
		logger.Warn("batch failed",
			slog.Int("failed", len(ids)),
			slog.Any("failed_ids", ids),
			slog.Duration("elapsed", time.Since(start)),
		)
		return Batch{Ticket: t, Err: ferr}
	}

	batchesTotal.WithLabelValues(string(gen.ID), "success").Inc()
	telemetry.SetSpanOK(span)
	logger.Info("batch loaded",
		slog.Int("records", len(records)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return Batch{Ticket: t, Dataset: Dataset{Generation: gen.ID, Records: records}}
}
