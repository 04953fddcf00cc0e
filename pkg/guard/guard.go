// Package guard provides the timeout and exception-absorption primitives
// every information provider call goes through. Platform providers are
// treated as adversarial: they may hang indefinitely, return garbage, or
// panic from a half-initialized state. Nothing in this package ever panics
// or returns an error; absence is the only failure signal.
package guard

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultCallTimeout bounds a single provider call.
	DefaultCallTimeout = 1000 * time.Millisecond

	// DefaultBatchTimeout bounds a concurrent batch of provider calls
	// sharing one timer.
	DefaultBatchTimeout = 2000 * time.Millisecond
)

// Maybe holds the result of a guarded operation. OK is false when the
// operation errored, panicked, or lost its timeout race.
type Maybe[T any] struct {
	Value T
	OK    bool
}

// WithTimeout runs op and races it against a timer. It returns the
// operation's value if it completes first, and (zero, false) if the
// operation errors, panics, or the timer fires. The losing operation is
// abandoned: its eventual completion is discarded and never observed.
// A timeout <= 0 selects DefaultCallTimeout.
func WithTimeout[T any](ctx context.Context, timeout time.Duration, op func(context.Context) (T, error)) (T, bool) {
	var zero T
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so the loser's send never blocks a leaked goroutine forever.
	ch := make(chan Maybe[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- Maybe[T]{}
			}
		}()
		v, err := op(ctx)
		if err != nil {
			ch <- Maybe[T]{}
			return
		}
		ch <- Maybe[T]{Value: v, OK: true}
	}()

	select {
	case res := <-ch:
		return res.Value, res.OK
	case <-ctx.Done():
		return zero, false
	}
}

// WithTimeoutAll runs ops concurrently, each independently recovered, and
// races the whole batch against one shared timer. The result preserves the
// input order and arity. If the batch as a whole times out, every slot is
// absent, even for operations that had already finished.
func WithTimeoutAll[T any](ctx context.Context, timeout time.Duration, ops ...func(context.Context) (T, error)) []Maybe[T] {
	if timeout <= 0 {
		timeout = DefaultBatchTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make([]Maybe[T], len(ops))
	var wg sync.WaitGroup
	for i, op := range ops {
		wg.Add(1)
		go func(i int, op func(context.Context) (T, error)) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = Maybe[T]{}
				}
			}()
			v, err := op(ctx)
			if err != nil {
				return
			}
			results[i] = Maybe[T]{Value: v, OK: true}
		}(i, op)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return results
	case <-ctx.Done():
		// The batch slice is abandoned along with its writers.
		return make([]Maybe[T], len(ops))
	}
}

// Safe runs a synchronous accessor and returns its result, substituting
// fallback if the accessor panics or returns an error.
func Safe[T any](fallback T, accessor func() (T, error)) (result T) {
	result = fallback
	defer func() {
		if r := recover(); r != nil {
			result = fallback
		}
	}()
	v, err := accessor()
	if err != nil {
		return fallback
	}
	return v
}

// SafePtr runs a synchronous accessor returning a pointer-shaped result and
// substitutes nil if the accessor panics. A nil result from the accessor
// itself passes through unchanged; callers treat nil as "unknown".
func SafePtr[T any](accessor func() *T) (result *T) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
		}
	}()
	return accessor()
}
