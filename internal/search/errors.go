// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to caller-visible failure classes. Callers match
// with errors.Is; the wrapped message carries the detail.
var (
	// ErrInvalidQuery: the catalog rejected the request itself. Retrying
	// the same request cannot succeed.
	ErrInvalidQuery = errors.New("catalog rejected query")

	// ErrRateLimited: the catalog throttled us past the retry budget.
	ErrRateLimited = errors.New("catalog rate limit exceeded")

	// ErrUnavailable: the catalog could not be reached or kept failing.
	ErrUnavailable = errors.New("catalog unavailable")
)

// rateLimitExhausted is returned when throttling outlives the retry
// budget. It matches both ErrRateLimited (the cause) and ErrUnavailable
// (the effect: the catalog cannot be used right now), so callers may
// handle it under either class.
type rateLimitExhausted struct {
	status int
}

func (e *rateLimitExhausted) Error() string {
	return fmt.Sprintf("catalog rate limit exceeded after retries (HTTP %d)", e.status)
}

func (e *rateLimitExhausted) Is(target error) bool {
	return target == ErrRateLimited || target == ErrUnavailable
}
