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
	"slices"
	"strconv"
	"sync"

	"github.com/nirzon47/pokedex/services/catalog"
	"golang.org/x/sync/singleflight"
)

// CachingProvider memoizes successful lookups of another provider for the
// lifetime of the process.
//
// # Description
//
// Concurrent requests for the same ID share one upstream call. Failures
// are never cached, so a retried generation load asks again for exactly
// the records that failed. The category list is cached the same way.
//
// There is no eviction: the whole catalog is a few thousand small
// records.
//
// # Thread Safety
//
// Safe for concurrent use.
type CachingProvider struct {
	upstream catalog.Provider

	mu         sync.RWMutex
	records    map[int]catalog.Record
	categories []string

	flight singleflight.Group
}

// NewCachingProvider wraps upstream.
func NewCachingProvider(upstream catalog.Provider) *CachingProvider {
	initCacheMetrics()
	return &CachingProvider{
		upstream: upstream,
		records:  make(map[int]catalog.Record),
	}
}

var _ catalog.Provider = (*CachingProvider)(nil)

// FetchRecord returns the cached record or fetches it once.
func (p *CachingProvider) FetchRecord(ctx context.Context, id int) (catalog.Record, error) {
	p.mu.RLock()
	rec, ok := p.records[id]
	p.mu.RUnlock()
	if ok {
		recordCacheHit(ctx)
		return rec, nil
	}

	v, err, shared := p.flight.Do("record:"+strconv.Itoa(id), func() (interface{}, error) {
		rec, err := p.upstream.FetchRecord(ctx, id)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.records[id] = rec
		p.mu.Unlock()
		recordCacheStore(ctx, "pokemon")
		return rec, nil
	})
	recordCacheMiss(ctx, shared)
	if err != nil {
		return catalog.Record{}, err
	}
	return v.(catalog.Record), nil
}

// FetchCategories returns the cached category list or fetches it once.
func (p *CachingProvider) FetchCategories(ctx context.Context) ([]string, error) {
	p.mu.RLock()
	cats := p.categories
	p.mu.RUnlock()
	if cats != nil {
		recordCacheHit(ctx)
		return slices.Clone(cats), nil
	}

	v, err, shared := p.flight.Do("categories", func() (interface{}, error) {
		cats, err := p.upstream.FetchCategories(ctx)
		if err != nil {
			return nil, err
		}
		if cats == nil {
			cats = []string{}
		}
		p.mu.Lock()
		p.categories = cats
		p.mu.Unlock()
		recordCacheStore(ctx, "type")
		return cats, nil
	})
	recordCacheMiss(ctx, shared)
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]string)), nil
}

// Len returns the number of cached records.
func (p *CachingProvider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.records)
}
