// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pokeapi implements catalog.Provider over the PokeAPI REST API.
//
// Client issues one GET per record and one for the category list.
// CachingProvider wraps any catalog.Provider with a session-scoped record
// cache so that switching back to a generation already seen does not
// refetch it.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nirzon47/pokedex/pkg/telemetry"
	"github.com/nirzon47/pokedex/services/catalog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public PokeAPI v2 endpoint.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// HTTPClient interface allows injecting mock HTTP clients for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}

// =============================================================================
// Client
// =============================================================================

// Client fetches records and categories from PokeAPI.
//
// # Thread Safety
//
// Safe for concurrent use.
type Client struct {
	baseURL string
	http    HTTPClient
	limiter *rate.Limiter
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root. A trailing slash is trimmed.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient injects the HTTP client.
func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables
// limiting. Burst equals the per-second rate, at least 1.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client with the public base URL, a 30s timeout and
// no rate limit unless overridden.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{},
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ catalog.Provider = (*Client)(nil)

// FetchRecord fetches a single record by ID.
//
// # Description
//
// GET {base}/pokemon/{id}. The response is converted with categories in
// slot order and abilities in response order.
//
// # Inputs
//
//   - ctx: Cancels the request and any wait on the rate limiter.
//   - id: Record ID, at least 1.
//
// # Outputs
//
//   - catalog.Record: The decoded record.
//   - error: *StatusError for non-200 answers; wrapped transport, decode or
//     validation errors otherwise.
func (c *Client) FetchRecord(ctx context.Context, id int) (catalog.Record, error) {
	if id < 1 {
		return catalog.Record{}, fmt.Errorf("invalid record id %d", id)
	}

	var body pokemonResponse
	if err := c.getJSON(ctx, "pokemon", "/pokemon/"+strconv.Itoa(id), &body); err != nil {
		return catalog.Record{}, fmt.Errorf("fetch record %d: %w", id, err)
	}
	rec, err := body.toRecord()
	if err != nil {
		return catalog.Record{}, fmt.Errorf("fetch record %d: %w", id, err)
	}
	return rec, nil
}

// FetchCategories lists every category tag in API order.
func (c *Client) FetchCategories(ctx context.Context) ([]string, error) {
	var body typeListResponse
	if err := c.getJSON(ctx, "type", "/type", &body); err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	names := make([]string, 0, len(body.Results))
	for _, r := range body.Results {
		if r.Name != "" {
			names = append(names, r.Name)
		}
	}
	return names, nil
}

// getJSON performs a GET under a span, the rate limiter and the timeout,
// and decodes a 200 body into out.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, out any) (err error) {
	url := c.baseURL + path

	ctx, span := telemetry.StartSpan(ctx, tracerName, "pokeapi.Client.get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", http.MethodGet),
			attribute.String("http.url", url),
			attribute.String("pokeapi.endpoint", endpoint),
		),
	)
	defer span.End()

	status := "ok"
	start := time.Now()
	defer func() {
		requestsTotal.WithLabelValues(endpoint, status).Inc()
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		if err != nil {
			telemetry.RecordError(span, err)
		}
	}()

	if c.limiter != nil {
		if err = c.limiter.Wait(ctx); err != nil {
			status = "transport_error"
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		status = "transport_error"
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "pokedex-cli")

	resp, err := c.http.Do(req)
	if err != nil {
		status = "transport_error"
		return fmt.Errorf("failed to call PokeAPI: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		status = "http_error"
		return &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		status = "decode_error"
		return fmt.Errorf("failed to decode PokeAPI JSON: %w", err)
	}
	telemetry.SetSpanOK(span)

	telemetry.LoggerWithTrace(ctx, c.logger).Debug("pokeapi request",
		slog.String("endpoint", endpoint),
		slog.String("url", url),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}
