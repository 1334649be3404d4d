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
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const tracerName = "pokedex.pokeapi"

// =============================================================================
// Prometheus Metrics for HTTP Requests
// =============================================================================

var (
	// requestsTotal counts provider HTTP requests.
	// Labels: endpoint (pokemon, type), status (ok, http_error, transport_error, decode_error)
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pokedex",
		Subsystem: "pokeapi",
		Name:      "requests_total",
		Help:      "Total PokeAPI requests by endpoint and outcome",
	}, []string{"endpoint", "status"})

	// requestDuration measures request latency including body decode.
	// Labels: endpoint
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pokedex",
		Subsystem: "pokeapi",
		Name:      "request_duration_seconds",
		Help:      "PokeAPI request latency",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"endpoint"})
)

// =============================================================================
// OpenTelemetry Metrics for the Session Cache
// =============================================================================

var (
	cacheMetricsOnce sync.Once
	cacheMeter       metric.Meter

	cacheHits    metric.Int64Counter
	cacheMisses  metric.Int64Counter
	cacheShared  metric.Int64Counter
	cacheEntries metric.Int64UpDownCounter
)

// initCacheMetrics creates the cache instruments against the global
// MeterProvider. Instruments are no-ops until telemetry.Init installs one.
func initCacheMetrics() {
	cacheMetricsOnce.Do(func() {
		cacheMeter = otel.Meter(tracerName)

		var err error
		cacheHits, err = cacheMeter.Int64Counter(
			"pokedex_record_cache_hits_total",
			metric.WithDescription("Record lookups served from the session cache"),
		)
		if err != nil {
			otel.Handle(err)
		}
		cacheMisses, err = cacheMeter.Int64Counter(
			"pokedex_record_cache_misses_total",
			metric.WithDescription("Record lookups that went to the upstream provider"),
		)
		if err != nil {
			otel.Handle(err)
		}
		cacheShared, err = cacheMeter.Int64Counter(
			"pokedex_record_cache_shared_total",
			metric.WithDescription("Record lookups that joined an in-flight request"),
		)
		if err != nil {
			otel.Handle(err)
		}
		cacheEntries, err = cacheMeter.Int64UpDownCounter(
			"pokedex_record_cache_entries",
			metric.WithDescription("Records held in the session cache"),
		)
		if err != nil {
			otel.Handle(err)
		}
	})
}

func recordCacheHit(ctx context.Context) {
	if cacheHits != nil {
		cacheHits.Add(ctx, 1)
	}
}

func recordCacheMiss(ctx context.Context, shared bool) {
	if cacheMisses != nil {
		cacheMisses.Add(ctx, 1)
	}
	if shared && cacheShared != nil {
		cacheShared.Add(ctx, 1)
	}
}

func recordCacheStore(ctx context.Context, endpoint string) {
	if cacheEntries != nil {
		cacheEntries.Add(ctx, 1, metric.WithAttributes(attribute.String("endpoint", endpoint)))
	}
}
