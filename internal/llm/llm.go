// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the text-completion backends the planner and the
// synthesizer call. Every backend is optional: callers treat a nil Completer
// or any error as a signal to take their deterministic path.
package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// Completer turns a prompt into a completion. Implementations must be safe
// for concurrent use.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyCompletion is returned when a backend answers with no text.
var ErrEmptyCompletion = errors.New("empty completion")

// Func adapts a function to the Completer interface.
type Func func(ctx context.Context, prompt string) (string, error)

// Name returns "func".
func (f Func) Name() string { return "func" }

// Complete calls f.
func (f Func) Complete(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// Retrying wraps a Completer and retries failed calls with exponential
// backoff. Context errors are never retried.
type Retrying struct {
	Completer  Completer
	MaxRetries int
}

// Name returns the wrapped backend name.
func (r *Retrying) Name() string { return r.Completer.Name() }

// Complete calls the wrapped backend up to MaxRetries+1 times.
func (r *Retrying) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		out, err := r.Completer.Complete(ctx, prompt)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
	}
	return "", fmt.Errorf("%s: after %d retries: %w", r.Completer.Name(), r.MaxRetries, lastErr)
}
