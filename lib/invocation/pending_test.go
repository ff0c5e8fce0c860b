package invocation

import (
	"context"
	"sync"
	"testing"
	"time"
)

// TestPendingCompleteOnce tests that only the first completion takes effect
func TestPendingCompleteOnce(t *testing.T) {
	p := NewPending()

	p.Complete(Result{Value: 1}, nil)
	p.Complete(Result{Value: 2}, nil)

	res, err := p.Await(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value != 1 {
		t.Errorf("expected value from first completion (1), got %d", res.Value)
	}
}

// TestPendingCallbackExactlyOnce tests that callbacks fire exactly once,
// no matter if they are registered before or after completion
func TestPendingCallbackExactlyOnce(t *testing.T) {
	tests := []struct {
		name           string
		registerBefore bool
	}{
		{name: "registered before completion", registerBefore: true},
		{name: "registered after completion", registerBefore: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPending()

			var mu sync.Mutex
			fired := 0
			cb := func(res Result, err error) {
				mu.Lock()
				fired++
				mu.Unlock()
			}

			if tt.registerBefore {
				p.OnComplete(cb)
				p.Complete(Result{Value: 42}, nil)
			} else {
				p.Complete(Result{Value: 42}, nil)
				p.OnComplete(cb)
			}

			// A second completion must not re-fire the callback
			p.Complete(Result{Value: 43}, nil)

			mu.Lock()
			defer mu.Unlock()
			if fired != 1 {
				t.Errorf("callback fired %d times, want 1", fired)
			}
		})
	}
}

// TestPendingAwaitContext tests that Await honors context cancellation
// without resolving the pending itself
func TestPendingAwaitContext(t *testing.T) {
	p := NewPending()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := p.Await(ctx); err == nil {
		t.Fatal("expected context error, got nil")
	}

	// The pending is still usable and completes normally afterwards
	p.Complete(Result{Value: 7}, nil)
	res, err := p.Await(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value != 7 {
		t.Errorf("expected value 7, got %d", res.Value)
	}
}

// TestPendingConcurrentCompletion tests that concurrent completions resolve
// to exactly one result
func TestPendingConcurrentCompletion(t *testing.T) {
	p := NewPending()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			p.Complete(Result{Value: v}, nil)
		}(uint64(i))
	}
	wg.Wait()

	res1, _ := p.Await(context.Background())
	res2, _ := p.Await(context.Background())
	if res1.Value != res2.Value {
		t.Errorf("await returned different results: %d vs %d", res1.Value, res2.Value)
	}
}
