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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRenderer keeps every view it is asked to draw.
type recordingRenderer struct {
	mu    sync.Mutex
	views []View
}

func (r *recordingRenderer) Render(v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, v)
}

func (r *recordingRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *recordingRenderer) last() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.views[len(r.views)-1]
}

func newTestController(t *testing.T, p *fakeProvider) (*Controller, *recordingRenderer) {
	t.Helper()
	r := &recordingRenderer{}
	return NewController(newTestCoordinator(t, p), WithRenderer(r)), r
}

func TestController_Initial(t *testing.T) {
	c, _ := newTestController(t, &fakeProvider{})
	assert.Equal(t, DefaultGeneration, c.ActiveGeneration())
	assert.False(t, c.Busy())
	assert.False(t, c.View().Loaded)
	assert.Empty(t, c.Categories())
}

func TestController_LoadGeneration(t *testing.T) {
	c, r := newTestController(t, &fakeProvider{jitter: time.Millisecond})

	v, err := c.LoadGeneration(context.Background(), "four")
	require.NoError(t, err)
	assert.Len(t, v.Records, 107)
	assert.Equal(t, GenerationID("four"), v.Generation)
	assert.False(t, v.Busy)
	assert.Equal(t, GenerationID("four"), c.ActiveGeneration())

	// Begin renders the busy state, Complete the result.
	require.Equal(t, 2, r.count())
	assert.True(t, r.views[0].Busy)
	assert.Equal(t, 107, len(r.last().Records))
}

func TestController_BeginInvalidGenerationChangesNothing(t *testing.T) {
	c, r := newTestController(t, &fakeProvider{})
	_, err := c.LoadGeneration(context.Background(), "one")
	require.NoError(t, err)
	c.SetCategory("normal")
	renders := r.count()

	_, err = c.Begin("tenth")
	require.ErrorIs(t, err, ErrInvalidGeneration)

	assert.Equal(t, GenerationID("one"), c.ActiveGeneration())
	assert.False(t, c.Busy())
	assert.Equal(t, FilterState{Category: "normal"}, c.Filters())
	assert.Equal(t, renders, r.count(), "invalid generation renders nothing")
}

func TestController_StaleBatchIsDiscarded(t *testing.T) {
	c, r := newTestController(t, &fakeProvider{})
	ctx := context.Background()

	first, err := c.Begin("one")
	require.NoError(t, err)
	second, err := c.Begin("two")
	require.NoError(t, err)

	// The second batch settles first.
	v, err := c.Complete(c.Fetch(ctx, second))
	require.NoError(t, err)
	assert.Equal(t, GenerationID("two"), v.Generation)
	renders := r.count()

	v, err = c.Complete(c.Fetch(ctx, first))
	require.ErrorIs(t, err, ErrStaleBatch)
	assert.Empty(t, v.Records)

	assert.Equal(t, renders, r.count(), "a stale batch never renders")
	assert.Equal(t, GenerationID("two"), c.View().Generation)
	assert.Equal(t, GenerationID("two"), c.ActiveGeneration())
	assert.Len(t, c.View().Records, 100)
}

func TestController_StaleBatchWhileLatestInFlight(t *testing.T) {
	c, _ := newTestController(t, &fakeProvider{})
	ctx := context.Background()

	first, _ := c.Begin("one")
	_, _ = c.Begin("two")

	_, err := c.Complete(c.Fetch(ctx, first))
	require.ErrorIs(t, err, ErrStaleBatch)
	assert.True(t, c.Busy(), "the latest load is still outstanding")
	assert.False(t, c.View().Loaded)
}

// Switching A, B, A: the first A batch must not be taken for the second.
func TestController_SameGenerationReselected(t *testing.T) {
	c, _ := newTestController(t, &fakeProvider{})
	ctx := context.Background()

	a1, _ := c.Begin("one")
	_, _ = c.Begin("two")
	a2, _ := c.Begin("one")
	require.NotEqual(t, a1, a2)

	_, err := c.Complete(c.Fetch(ctx, a1))
	require.ErrorIs(t, err, ErrStaleBatch)
	assert.True(t, c.Busy())

	v, err := c.Complete(c.Fetch(ctx, a2))
	require.NoError(t, err)
	assert.Equal(t, GenerationID("one"), v.Generation)
	assert.False(t, c.Busy())
}

func TestController_ConcurrentLoadsLastWins(t *testing.T) {
	c, _ := newTestController(t, &fakeProvider{jitter: 3 * time.Millisecond})
	ctx := context.Background()

	order := []GenerationID{"one", "five", "three", "nine", "two"}
	tickets := make([]Ticket, len(order))
	for i, g := range order {
		tk, err := c.Begin(g)
		require.NoError(t, err)
		tickets[i] = tk
	}

	var wg sync.WaitGroup
	errs := make([]error, len(tickets))
	for i, tk := range tickets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = c.Complete(c.Fetch(ctx, tk))
		}()
	}
	wg.Wait()

	for i, err := range errs[:len(errs)-1] {
		assert.ErrorIs(t, err, ErrStaleBatch, "ticket %d", i)
	}
	assert.NoError(t, errs[len(errs)-1])

	v := c.View()
	assert.Equal(t, GenerationID("two"), v.Generation)
	assert.Len(t, v.Records, 100)
}

func TestController_FailureKeepsPreviousDataset(t *testing.T) {
	p := &fakeProvider{fail: map[int]bool{300: true}}
	c, r := newTestController(t, p)
	ctx := context.Background()

	_, err := c.LoadGeneration(ctx, "one")
	require.NoError(t, err)
	c.SetCategory("normal")
	c.SetNameQuery("mon-1")
	before := c.View()

	v, err := c.LoadGeneration(ctx, "three")
	require.ErrorIs(t, err, ErrPartialFetchFailure)

	assert.Equal(t, GenerationID("one"), v.Generation)
	assert.Equal(t, ids(before.Records), ids(v.Records))
	assert.Equal(t, FilterState{Category: "normal", Query: "mon-1"}, c.Filters())
	assert.Equal(t, GenerationID("one"), c.ActiveGeneration(), "selection reverts to what is shown")
	assert.False(t, c.Busy())
	assert.False(t, r.last().Busy)
}

func TestController_FirstLoadFailure(t *testing.T) {
	c, _ := newTestController(t, &fakeProvider{fail: map[int]bool{152: true}})

	v, err := c.LoadGeneration(context.Background(), "two")
	require.Error(t, err)
	assert.False(t, v.Loaded)
	assert.False(t, v.NoResults)
	assert.Equal(t, GenerationID("two"), c.ActiveGeneration(), "nothing to revert to")
}

func TestController_NewDatasetClearsFilters(t *testing.T) {
	c, _ := newTestController(t, &fakeProvider{})
	ctx := context.Background()

	_, err := c.LoadGeneration(ctx, "one")
	require.NoError(t, err)
	c.SetCategory("fire")
	c.SetNameQuery("x")

	v, err := c.LoadGeneration(ctx, "seven")
	require.NoError(t, err)
	assert.Equal(t, FilterState{}, c.Filters())
	assert.Len(t, v.Records, 88)
}

func TestController_FiltersRender(t *testing.T) {
	c, r := newTestController(t, &fakeProvider{})
	_, err := c.LoadGeneration(context.Background(), "one")
	require.NoError(t, err)

	v := c.SetCategory("fire")
	assert.True(t, v.NoResults)
	assert.True(t, r.last().NoResults, "the empty state is rendered, not skipped")

	c.SetNameQuery("mon-15")
	assert.Equal(t, []int{15, 150, 151}, ids(r.last().Records))

	c.Reset()
	assert.Len(t, r.last().Records, 151)
	assert.Equal(t, FilterState{}, c.Filters())
}

func TestController_BeginReset(t *testing.T) {
	c, r := newTestController(t, &fakeProvider{})
	ctx := context.Background()

	_, err := c.LoadGeneration(ctx, "eight")
	require.NoError(t, err)
	c.SetCategory("normal")
	c.SetNameQuery("mon-81")

	tk, err := c.BeginReset()
	require.NoError(t, err)
	assert.Equal(t, DefaultGeneration, tk.Generation)
	assert.Equal(t, FilterState{}, c.Filters())
	assert.True(t, c.Busy())

	// The previous dataset stays visible, unfiltered, until the batch lands.
	busy := r.last()
	assert.True(t, busy.Busy)
	assert.Equal(t, GenerationID("eight"), busy.Generation)
	assert.Len(t, busy.Records, 96)

	v, err := c.Complete(c.Fetch(ctx, tk))
	require.NoError(t, err)
	assert.Equal(t, DefaultGeneration, v.Generation)
	assert.Len(t, v.Records, 151)
	assert.False(t, c.Busy())
}

func TestController_BeginResetSupersedesInFlightLoad(t *testing.T) {
	c, _ := newTestController(t, &fakeProvider{})
	ctx := context.Background()

	pending, err := c.Begin("nine")
	require.NoError(t, err)
	reset, err := c.BeginReset()
	require.NoError(t, err)

	_, err = c.Complete(c.Fetch(ctx, pending))
	require.ErrorIs(t, err, ErrStaleBatch)

	v, err := c.Complete(c.Fetch(ctx, reset))
	require.NoError(t, err)
	assert.Equal(t, DefaultGeneration, v.Generation)
}

func TestController_LoadCategories(t *testing.T) {
	p := &fakeProvider{categories: []string{"grass", "fire"}}
	c, _ := newTestController(t, p)
	ctx := context.Background()

	cats, err := c.LoadCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"grass", "fire"}, cats)

	p.catErr = errors.New("connection refused")
	cats, err = c.LoadCategories(ctx)
	require.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, []string{"grass", "fire"}, cats, "previous list is kept")
	assert.Equal(t, []string{"grass", "fire"}, c.Categories())
}

func TestController_LoadCategoriesNeverLoaded(t *testing.T) {
	c, _ := newTestController(t, &fakeProvider{catErr: errors.New("down")})

	cats, err := c.LoadCategories(context.Background())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Empty(t, cats)
}
