// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the catalogue adapters.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ashr-exe/icarus-insight/internal/logging"
)

// RetryBaseDelay is the default base duration for exponential backoff.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 500 * time.Millisecond

// maxRetryAfter caps how long a server-supplied Retry-After can hold a request.
const maxRetryAfter = 10 * time.Second

const defaultMaxRetries = 3

// Policy controls retries of throttled or temporarily unavailable requests.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt (default 3).
	MaxRetries int

	// BaseDelay overrides RetryBaseDelay when positive.
	BaseDelay time.Duration

	Logger *log.Logger
}

// Retryable reports whether a response status is worth retrying:
// 429 Too Many Requests and 503 Service Unavailable.
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// Do executes req and retries on a retryable status with exponential
// backoff starting at the base delay. A Retry-After header given in seconds
// replaces the computed delay, capped at 10s.
//
// On each retry the response body is drained and closed before sleeping.
// If ctx is cancelled during a wait Do returns ctx.Err(). After exhausting
// retries the last response is returned so the caller can inspect it.
func (p Policy) Do(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	maxRetries := p.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	base := p.BaseDelay
	if base <= 0 {
		base = RetryBaseDelay
	}
	logger := logging.OrDiscard(p.Logger)

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * base
		if ra, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
			backoff = ra
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		logger.Debug("retrying request",
			"host", req.URL.Host, "status", resp.StatusCode,
			"attempt", attempt+1, "max", maxRetries, "backoff", backoff)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// DoWithRetry runs req under the default policy with the given retry count.
// When maxRetries is 0 the default (3) is used.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	return Policy{MaxRetries: maxRetries}.Do(ctx, client, req)
}

func retryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d, true
}
