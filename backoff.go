package rdx

import (
	"time"

	"github.com/efritz/backoff"
)

// BackoffFunc maps a one-based retry attempt count to the delay to wait
// before the next connection attempt. Callers may inject an alternative
// policy in place of the default truncated exponential with jitter.
type BackoffFunc func(attempt int) time.Duration

const (
	defaultBackoffBase   = 50 * time.Millisecond
	defaultBackoffMax    = 5 * time.Second
	defaultBackoffFactor = 2.0
	defaultBackoffJitter = 0.2
)

// defaultBackoff implements "min(maxDelay, base * multiplier^n * (1 +/-
// jitter))" on top of github.com/efritz/backoff's exponential backoff
// primitive, matching the formula the spec prescribes.
func defaultBackoff() BackoffFunc {
	return NewExponentialBackoff(defaultBackoffBase, defaultBackoffMax, defaultBackoffFactor, defaultBackoffJitter)
}

// NewExponentialBackoff constructs a BackoffFunc following the same
// truncated-exponential-with-jitter shape as the package default, with
// caller-supplied parameters. A fresh backoff.Backoff is built per call so
// that each BackoffFunc invocation is a pure function of attempt -- the
// underlying generator's NextInterval is stateful and advances its own
// counter on every call, so reaching the n-th interval means stepping it
// forward n times rather than passing n directly. The loop exits as soon
// as NextInterval starts returning the flat maxInterval (its own signal
// that the generator has run out of attempts), so cost stays bounded by
// the fixed min/max/multiplier ratio instead of growing with attempt.
func NewExponentialBackoff(base, max time.Duration, factor, jitterPct float64) BackoffFunc {
	return func(attempt int) time.Duration {
		b := backoff.NewExponentialBackoff(
			base, max,
			backoff.WithMultiplier(factor),
			backoff.WithRandomFactor(jitterPct),
		)

		var delay time.Duration
		for i := 0; i < attempt; i++ {
			delay = b.NextInterval()
			if delay == max {
				break
			}
		}
		return delay
	}
}
