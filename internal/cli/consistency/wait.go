// Package consistency re-reads backend state until a mutation becomes visible.
package consistency

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultInterval between fetches
	DefaultInterval = 300 * time.Millisecond
	// DefaultTimeout bounds the whole wait
	DefaultTimeout = 10 * time.Second
)

// ErrNotConsistent is returned when the deadline passes before the predicate holds
var ErrNotConsistent = errors.New("backend state did not converge")

// Options controls polling
type Options struct {
	Interval time.Duration
	Timeout  time.Duration
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// TimeoutError carries the last value observed before giving up
type TimeoutError[T any] struct {
	Last     T
	Attempts int
	Err      error
}

// Error implements error
func (e *TimeoutError[T]) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s after %d attempts: %v", ErrNotConsistent, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s after %d attempts", ErrNotConsistent, e.Attempts)
}

// Unwrap matches ErrNotConsistent and the last fetch error, if any
func (e *TimeoutError[T]) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrNotConsistent, e.Err}
	}
	return []error{ErrNotConsistent}
}

func (e *TimeoutError[T]) fetchErr() error {
	return e.Err
}

type timeoutError interface {
	fetchErr() error
}

// IsStale reports whether err is a timeout whose last fetch succeeded, so the
// value returned alongside it is usable but may not reflect the latest change
func IsStale(err error) bool {
	var te timeoutError
	return errors.As(err, &te) && te.fetchErr() == nil
}

// WaitFor calls fetch until done reports true, the timeout passes, or ctx ends.
// Fetch errors are remembered and retried until the deadline. A fetch cut
// short by the deadline itself does not count as a failure.
//
// On success the matching value is returned. On timeout the last successfully
// fetched value is returned together with a *TimeoutError.
func WaitFor[T any](ctx context.Context, fetch func(context.Context) (T, error), done func(T) bool, opts Options) (T, error) {
	opts = opts.withDefaults()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	var (
		last     T
		fetched  bool
		lastErr  error
		attempts int
	)
	expired := func() (T, error) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return last, ctx.Err()
		}
		err := lastErr
		if !fetched && err == nil {
			err = ctx.Err()
		}
		return last, &TimeoutError[T]{Last: last, Attempts: attempts, Err: err}
	}

	for {
		// the ticker and the deadline may fire together
		if ctx.Err() != nil {
			return expired()
		}

		attempts++
		v, err := fetch(ctx)
		switch {
		case err == nil:
			last, fetched, lastErr = v, true, nil
			if done(v) {
				return v, nil
			}
		case ctx.Err() != nil:
			// cut short by our own deadline, not a backend failure
			return expired()
		default:
			lastErr = err
		}

		select {
		case <-ctx.Done():
			return expired()
		case <-ticker.C:
		}
	}
}

// LastValue extracts the last observed value from an error returned by WaitFor
func LastValue[T any](err error) (T, bool) {
	var te *TimeoutError[T]
	if errors.As(err, &te) {
		return te.Last, true
	}
	var zero T
	return zero, false
}
