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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// tracerName is the otel tracer used by this package.
const tracerName = "pokedex.catalog"

// =============================================================================
// Prometheus Metrics for Generation Loads and Filtering
// =============================================================================

var (
	// batchesTotal counts settled batches.
	// Labels: generation, status (success, failure)
	batchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pokedex",
		Subsystem: "catalog",
		Name:      "batches_total",
		Help:      "Total generation batches settled by the fetch coordinator",
	}, []string{"generation", "status"})

	// batchDuration measures the time from first request to join.
	// Labels: generation
	batchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pokedex",
		Subsystem: "catalog",
		Name:      "batch_duration_seconds",
		Help:      "Time for a full generation batch to settle",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"generation"})

	// recordFailures counts individual record requests that failed.
	// Labels: generation
	recordFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pokedex",
		Subsystem: "catalog",
		Name:      "record_failures_total",
		Help:      "Total record requests that failed inside a batch",
	}, []string{"generation"})

	// staleBatches counts completions dropped because a newer load began.
	staleBatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pokedex",
		Subsystem: "catalog",
		Name:      "stale_batches_total",
		Help:      "Total batches discarded because their ticket was no longer current",
	})

	// filterOps counts filter transitions.
	// Labels: operation (category, name, reset), outcome (results, no_results)
	filterOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pokedex",
		Subsystem: "catalog",
		Name:      "filter_operations_total",
		Help:      "Total filter transitions by outcome",
	}, []string{"operation", "outcome"})
)

func recordFilterOp(operation string, v View) {
	outcome := "results"
	if v.NoResults {
		outcome = "no_results"
	}
	filterOps.WithLabelValues(operation, outcome).Inc()
}
