// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm is the boundary to the language-model API. The dialog layer
// depends only on the Backend interface; the concrete implementation talks
// to the Claude Messages API.
package llm

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/muchan23/paper-research-agent/pkg/types"
)

// Backend sends an instruction plus conversation context to the language
// model and returns the raw text of its reply. Implementations must be
// safe for concurrent use.
type Backend interface {
	Complete(ctx context.Context, instructions string, turns []types.Turn) (string, error)
}

// backoffBase controls the base duration for exponential backoff between
// retry attempts. Tests override this to avoid real sleeps.
var backoffBase = time.Second

// retrying wraps a Backend with a bounded retry loop.
type retrying struct {
	backend    Backend
	maxRetries int
}

// WithRetry returns a Backend that retries failed calls with exponential
// backoff. When maxRetries is 0 the default (2) is used. After exhausting
// the budget the last error is returned wrapped.
func WithRetry(backend Backend, maxRetries int) Backend {
	if maxRetries <= 0 {
		maxRetries = 2
	}
	return &retrying{backend: backend, maxRetries: maxRetries}
}

func (r *retrying) Complete(ctx context.Context, instructions string, turns []types.Turn) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		reply, err := r.backend.Complete(ctx, instructions, turns)
		if err == nil {
			return reply, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", r.maxRetries, lastErr)
}
