// Package retry runs a fallible attempt a bounded number of times with a
// fixed delay between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"bondfeed/internal/clock"
	"bondfeed/internal/fault"
)

// quotaFactor stretches the standard delay when a provider signals a quota
// and no explicit QuotaDelay is configured.
const quotaFactor = 4

// ErrEmpty marks an attempt that returned no error and no value.
var ErrEmpty = errors.New("retry: attempt returned no result")

// Policy bounds a retry loop.
type Policy struct {
	MaxAttempts    int
	Delay          time.Duration
	QuotaDelay     time.Duration
	AttemptTimeout time.Duration
	Clock          clock.Clock
	// BeforeAttempt runs ahead of each attempt, outside the attempt timeout.
	// An error ends the loop and is returned as is.
	BeforeAttempt func(ctx context.Context) error
	// OnRetry is called after a failed attempt, before the wait.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// ExhaustedError reports that no attempt succeeded.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempt(s): %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Do invokes attempt until it yields a non-zero value, the policy is
// exhausted or the failure is not retryable. Both an error and a zero result
// count as failure. Configuration and shape failures stop immediately.
func Do[T any](ctx context.Context, p Policy, attempt func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	clk := clock.OrReal(p.Clock)

	var (
		last  error
		tries int
	)
	for tries < maxAttempts {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		if p.BeforeAttempt != nil {
			if err := p.BeforeAttempt(ctx); err != nil {
				return zero, err
			}
		}
		tries++

		value, err := runAttempt(ctx, p.AttemptTimeout, attempt)
		if err == nil && isEmpty(value) {
			err = ErrEmpty
		}
		if err == nil {
			return value, nil
		}
		last = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		kind := fault.KindOf(err)
		if !kind.Retryable() || tries == maxAttempts {
			break
		}

		wait := p.wait(err, kind)
		if p.OnRetry != nil {
			p.OnRetry(tries, err, wait)
		}
		if err := clock.Sleep(ctx, clk, wait); err != nil {
			return zero, err
		}
	}
	return zero, &ExhaustedError{Attempts: tries, Last: last}
}

func runAttempt[T any](ctx context.Context, timeout time.Duration, attempt func(ctx context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return attempt(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return attempt(attemptCtx)
}

func (p Policy) wait(err error, kind fault.Kind) time.Duration {
	if kind != fault.KindQuota {
		return p.Delay
	}
	wait := p.QuotaDelay
	if wait <= 0 {
		wait = p.Delay * quotaFactor
	}
	if hinted := fault.RetryAfter(err); hinted > wait {
		wait = hinted
	}
	return wait
}

func isEmpty(v any) bool {
	rv := reflect.ValueOf(v)
	return !rv.IsValid() || rv.IsZero()
}
