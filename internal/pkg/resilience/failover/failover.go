// Package failover provides an ordered-candidate execution combinator: try a
// list of endpoints in order, return the first successful result, and
// aggregate the failures when every candidate has been exhausted. The sweep
// order is fixed (candidates are never shuffled or load-balanced) so a
// healthy primary endpoint always answers.
package failover

import (
	"context"
	"errors"
	"time"

	"github.com/gabapcia/txlens/internal/pkg/resilience/retry"
)

// ErrAllCandidatesFailed is returned (joined with the per-candidate errors)
// when no candidate produced a successful result.
var ErrAllCandidatesFailed = errors.New("all candidates failed")

// permanentError marks a failure that must stop the sweep immediately, such
// as an upstream authoritatively reporting that the requested entity does not
// exist. Trying further candidates would only repeat the same answer.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so that Do stops sweeping and returns it as-is instead
// of moving on to the next candidate.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// config holds internal settings for a sweep.
type config struct {
	attemptTimeout time.Duration // per-candidate deadline; zero means none beyond ctx
	retrier        retry.Retry   // optional: re-run the whole sweep on failure
}

// Option defines a functional option for configuring a sweep.
type Option func(*config)

// WithAttemptTimeout bounds each candidate attempt with its own deadline,
// derived from the caller's context. Zero (the default) applies no extra
// per-attempt deadline.
func WithAttemptTimeout(d time.Duration) Option {
	return func(c *config) {
		c.attemptTimeout = d
	}
}

// WithRetry re-runs the entire candidate sweep through the given retrier when
// it fails. Off by default: a single fixed-order sweep is the base contract.
// Permanent failures are never retried.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retrier = r
	}
}

// Do runs fn against each candidate in order and returns the first successful
// result. A failure wrapped with Permanent aborts the sweep and is returned
// unwrapped. If every candidate fails, the zero value is returned together
// with ErrAllCandidatesFailed joined with each candidate's error.
func Do[E, T any](ctx context.Context, candidates []E, fn func(ctx context.Context, candidate E) (T, error), opts ...Option) (T, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		result  T
		permErr error
	)
	sweep := func() error {
		errs := make([]error, 0, len(candidates))
		for _, candidate := range candidates {
			attemptCtx, cancel := ctx, context.CancelFunc(func() {})
			if cfg.attemptTimeout > 0 {
				attemptCtx, cancel = context.WithTimeout(ctx, cfg.attemptTimeout)
			}

			v, err := fn(attemptCtx, candidate)
			cancel()

			if err == nil {
				result = v
				return nil
			}

			var perm *permanentError
			if errors.As(err, &perm) {
				// Returning nil stops any retry wrapper; the permanent
				// error is surfaced after the sweep.
				permErr = perm.err
				return nil
			}

			errs = append(errs, err)

			if ctx.Err() != nil {
				break
			}
		}

		return errors.Join(append([]error{ErrAllCandidatesFailed}, errs...)...)
	}

	var err error
	if cfg.retrier != nil {
		err = cfg.retrier.Execute(ctx, sweep)
	} else {
		err = sweep()
	}

	var zero T
	switch {
	case err != nil:
		return zero, err
	case permErr != nil:
		return zero, permErr
	default:
		return result, nil
	}
}
