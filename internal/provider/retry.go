// Package provider holds the transport pieces shared by every third-party
// data provider client: the HTTP round trip, the retry policy and the
// sanitized error type.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// RetryPolicy describes when and how long to wait before repeating a provider call.
type RetryPolicy struct {
	// MaxAttempts counts the first call; values below 1 mean a single attempt.
	MaxAttempts int
	// Backoff is the sleep before retry n (0-indexed). The last entry repeats.
	Backoff []time.Duration
	// Retryable decides whether an attempt outcome should be repeated.
	Retryable func(resp *Response, err error) bool
	// Sleep waits between attempts. Nil uses a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultBackoff is the 1s/2s/4s schedule used by all provider clients.
var DefaultBackoff = []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}

// RateLimitPolicy retries only on HTTP 429.
func RateLimitPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Backoff: DefaultBackoff, Retryable: RetryOnRateLimit}
}

// TransientPolicy retries on HTTP 429 and on timeouts or network failures.
func TransientPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Backoff: DefaultBackoff, Retryable: RetryOnTransient}
}

// RetryOnRateLimit matches 429 responses.
func RetryOnRateLimit(resp *Response, err error) bool {
	return err == nil && resp != nil && resp.StatusCode == http.StatusTooManyRequests
}

// RetryOnTransient matches 429 responses and transport-level failures.
func RetryOnTransient(resp *Response, err error) bool {
	if err != nil {
		return IsTransportError(err)
	}
	return RetryOnRateLimit(resp, nil)
}

// IsTransportError reports whether err is a timeout or network failure rather
// than a caller bug or a cancelled request.
func IsTransportError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}

// Outcome is the final state of a retried call.
type Outcome struct {
	Response *Response
	Err      error
	Attempts int
	// Exhausted is set when the last attempt was still retryable.
	Exhausted bool
}

// Result converts the outcome into the usual (response, error) pair.
// Non-2xx responses become *HTTPError; exhausted 429s also match ErrRateLimited.
func (o Outcome) Result(op string) (*Response, error) {
	if o.Err != nil {
		return nil, fmt.Errorf("%s: %w", op, o.Err)
	}
	if o.Response == nil {
		return nil, fmt.Errorf("%s: empty response", op)
	}
	if o.Response.OK() {
		return o.Response, nil
	}
	herr := NewHTTPError(op, o.Response)
	if o.Exhausted && o.Response.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: %w", ErrRateLimited, herr)
	}
	return nil, herr
}

// Do runs attempt until it succeeds, fails permanently or the policy runs out.
// It never sleeps before the first attempt nor after the last one.
func Do(ctx context.Context, policy RetryPolicy, attempt func(ctx context.Context) (*Response, error)) Outcome {
	maxAttempts := policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	sleep := policy.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var out Outcome
	for i := 0; i < maxAttempts; i++ {
		resp, err := attempt(ctx)
		out = Outcome{Response: resp, Err: err, Attempts: i + 1}

		if policy.Retryable == nil || !policy.Retryable(resp, err) {
			return out
		}
		if i == maxAttempts-1 {
			out.Exhausted = true
			return out
		}
		if serr := sleep(ctx, backoffFor(policy.Backoff, i)); serr != nil {
			out.Err = serr
			return out
		}
	}
	return out
}

func backoffFor(schedule []time.Duration, retry int) time.Duration {
	if len(schedule) == 0 {
		return 0
	}
	if retry >= len(schedule) {
		return schedule[len(schedule)-1]
	}
	return schedule[retry]
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
