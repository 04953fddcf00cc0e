package guard

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestWithTimeout_Success tests that a fast operation's value passes through
func TestWithTimeout_Success(t *testing.T) {
	ctx := context.Background()

	v, ok := WithTimeout(ctx, 500*time.Millisecond, func(ctx context.Context) (int, error) {
		return 42, nil
	})

	if !ok {
		t.Fatal("WithTimeout() ok = false, want true")
	}
	if v != 42 {
		t.Errorf("WithTimeout() = %d, want 42", v)
	}
}

// TestWithTimeout_Error tests that an erroring operation yields an absent value
func TestWithTimeout_Error(t *testing.T) {
	ctx := context.Background()

	v, ok := WithTimeout(ctx, 500*time.Millisecond, func(ctx context.Context) (string, error) {
		return "partial", errors.New("provider not initialized")
	})

	if ok {
		t.Error("WithTimeout() ok = true, want false for erroring operation")
	}
	if v != "" {
		t.Errorf("WithTimeout() = %q, want zero value", v)
	}
}

// TestWithTimeout_Panic tests that a panicking operation yields an absent value
func TestWithTimeout_Panic(t *testing.T) {
	ctx := context.Background()

	_, ok := WithTimeout(ctx, 500*time.Millisecond, func(ctx context.Context) (int, error) {
		panic("provider exploded")
	})

	if ok {
		t.Error("WithTimeout() ok = true, want false for panicking operation")
	}
}

// TestWithTimeout_Timeout tests that a hanging operation is abandoned at the bound
func TestWithTimeout_Timeout(t *testing.T) {
	ctx := context.Background()

	start := time.Now()
	_, ok := WithTimeout(ctx, 50*time.Millisecond, func(ctx context.Context) (int, error) {
		time.Sleep(5 * time.Second)
		return 1, nil
	})
	elapsed := time.Since(start)

	if ok {
		t.Error("WithTimeout() ok = true, want false for hanging operation")
	}
	if elapsed > time.Second {
		t.Errorf("WithTimeout() took %v, should return near the 50ms bound", elapsed)
	}
}

// TestWithTimeout_DefaultTimeout tests that a non-positive timeout selects the default
func TestWithTimeout_DefaultTimeout(t *testing.T) {
	ctx := context.Background()

	v, ok := WithTimeout(ctx, 0, func(ctx context.Context) (bool, error) {
		return true, nil
	})

	if !ok || !v {
		t.Errorf("WithTimeout() = (%v, %v), want (true, true)", v, ok)
	}
}

// TestWithTimeoutAll_OrderAndArity tests that results preserve input order
func TestWithTimeoutAll_OrderAndArity(t *testing.T) {
	ctx := context.Background()

	results := WithTimeoutAll(ctx, time.Second,
		func(ctx context.Context) (int, error) { return 1, nil },
		func(ctx context.Context) (int, error) { return 0, errors.New("boom") },
		func(ctx context.Context) (int, error) { return 3, nil },
	)

	if len(results) != 3 {
		t.Fatalf("WithTimeoutAll() returned %d results, want 3", len(results))
	}
	if !results[0].OK || results[0].Value != 1 {
		t.Errorf("results[0] = %+v, want {1 true}", results[0])
	}
	if results[1].OK {
		t.Errorf("results[1] = %+v, want absent", results[1])
	}
	if !results[2].OK || results[2].Value != 3 {
		t.Errorf("results[2] = %+v, want {3 true}", results[2])
	}
}

// TestWithTimeoutAll_BatchTimeout tests that an overall timeout absents every slot
func TestWithTimeoutAll_BatchTimeout(t *testing.T) {
	ctx := context.Background()

	results := WithTimeoutAll(ctx, 50*time.Millisecond,
		func(ctx context.Context) (int, error) { return 1, nil },
		func(ctx context.Context) (int, error) {
			time.Sleep(5 * time.Second)
			return 2, nil
		},
	)

	if len(results) != 2 {
		t.Fatalf("WithTimeoutAll() returned %d results, want 2", len(results))
	}
	for i, r := range results {
		if r.OK {
			t.Errorf("results[%d] = %+v, want absent after batch timeout", i, r)
		}
	}
}

// TestWithTimeoutAll_Panic tests per-operation panic isolation
func TestWithTimeoutAll_Panic(t *testing.T) {
	ctx := context.Background()

	results := WithTimeoutAll(ctx, time.Second,
		func(ctx context.Context) (string, error) { panic("bad provider") },
		func(ctx context.Context) (string, error) { return "ok", nil },
	)

	if results[0].OK {
		t.Error("results[0] should be absent after panic")
	}
	if !results[1].OK || results[1].Value != "ok" {
		t.Errorf("results[1] = %+v, want {ok true}", results[1])
	}
}

// TestSafe tests fallback substitution for errors and panics
func TestSafe(t *testing.T) {
	if got := Safe("fallback", func() (string, error) { return "value", nil }); got != "value" {
		t.Errorf("Safe() = %q, want %q", got, "value")
	}
	if got := Safe("fallback", func() (string, error) { return "", errors.New("nope") }); got != "fallback" {
		t.Errorf("Safe() = %q, want fallback on error", got)
	}
	if got := Safe(7, func() (int, error) { panic("accessor threw") }); got != 7 {
		t.Errorf("Safe() = %d, want fallback on panic", got)
	}
}

// TestSafePtr tests nil substitution on panic and nil pass-through
func TestSafePtr(t *testing.T) {
	v := "model"
	if got := SafePtr(func() *string { return &v }); got == nil || *got != "model" {
		t.Errorf("SafePtr() = %v, want pointer to %q", got, v)
	}
	if got := SafePtr(func() *string { return nil }); got != nil {
		t.Errorf("SafePtr() = %v, want nil pass-through", got)
	}
	if got := SafePtr(func() *int { panic("not ready") }); got != nil {
		t.Errorf("SafePtr() = %v, want nil on panic", got)
	}
}
