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
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors.
var (
	// ErrInvalidGeneration indicates a generation identifier not in the table.
	ErrInvalidGeneration = errors.New("invalid generation")

	// ErrPartialFetchFailure indicates at least one record of a batch failed.
	ErrPartialFetchFailure = errors.New("partial fetch failure")

	// ErrProviderUnavailable indicates the category list could not be fetched.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrStaleBatch indicates a completed batch whose ticket is no longer current.
	ErrStaleBatch = errors.New("stale batch")

	// ErrNilProvider indicates a Coordinator was built without a provider.
	ErrNilProvider = errors.New("provider must not be nil")
)

// InvalidGenerationError reports an unknown generation identifier.
type InvalidGenerationError struct {
	ID GenerationID

	// Suggestion is the closest valid identifier, or empty.
	Suggestion GenerationID
}

// Error implements error.
func (e *InvalidGenerationError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("invalid generation %q (did you mean %q?)", e.ID, e.Suggestion)
	}
	return fmt.Sprintf("invalid generation %q", e.ID)
}

// Is matches ErrInvalidGeneration.
func (e *InvalidGenerationError) Is(target error) bool {
	return target == ErrInvalidGeneration
}

// PartialFetchFailureError reports the IDs that failed in one batch.
//
// FailedIDs is sorted ascending. Errs holds the provider error for each
// failed ID.
type PartialFetchFailureError struct {
	Generation GenerationID
	FailedIDs  []int
	Errs       map[int]error
}

// Error implements error.
func (e *PartialFetchFailureError) Error() string {
	ids := make([]string, len(e.FailedIDs))
	for i, id := range e.FailedIDs {
		ids[i] = strconv.Itoa(id)
	}
	msg := fmt.Sprintf("partial fetch failure for generation %q: %d record(s) failed [%s]",
		e.Generation, len(e.FailedIDs), strings.Join(ids, ", "))
	if len(e.FailedIDs) > 0 {
		if first := e.Errs[e.FailedIDs[0]]; first != nil {
			msg += ": " + first.Error()
		}
	}
	return msg
}

// Is matches ErrPartialFetchFailure.
func (e *PartialFetchFailureError) Is(target error) bool {
	return target == ErrPartialFetchFailure
}

// Unwrap exposes the per-ID provider errors.
func (e *PartialFetchFailureError) Unwrap() []error {
	errs := make([]error, 0, len(e.FailedIDs))
	for _, id := range e.FailedIDs {
		if err := e.Errs[id]; err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
