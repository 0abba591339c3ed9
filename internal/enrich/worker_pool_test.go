package enrich

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolRunsAllTasks(t *testing.T) {
	pool := NewWorkerPool(2, 4)
	done := pool.Run(context.Background())

	var ran int32
	for i := 0; i < 4; i++ {
		pool.Submit(func(ctx context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		})
	}
	pool.Close()

	results := 0
	for range done {
		results++
	}
	if results != 4 || atomic.LoadInt32(&ran) != 4 {
		t.Fatalf("results = %d, ran = %d, want 4", results, ran)
	}
}

func TestWorkerPoolRateLimitedCloseDrains(t *testing.T) {
	pool := NewWorkerPool(2, 4)
	pool.SetRateLimit(2)
	done := pool.Run(context.Background())

	for i := 0; i < 3; i++ {
		pool.Submit(func(ctx context.Context) error { return nil })
	}
	// Close while workers are still waiting on the rate ticker; the
	// ticker must keep firing until every submitted task has run.
	time.Sleep(100 * time.Millisecond)
	pool.Close()

	results := 0
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-done:
			if !ok {
				if results != 3 {
					t.Fatalf("results = %d, want 3", results)
				}
				return
			}
			results++
		case <-deadline:
			t.Fatalf("pool did not drain after Close, got %d of 3 results", results)
		}
	}
}

func TestWorkerPoolCancelStopsWorkers(t *testing.T) {
	pool := NewWorkerPool(1, 1)
	pool.SetRateLimit(1)
	ctx, cancel := context.WithCancel(context.Background())
	done := pool.Run(ctx)

	pool.Submit(func(ctx context.Context) error { return nil })
	cancel()

	select {
	case <-waitClosed(done):
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not stop after context cancel")
	}
}

func waitClosed(done <-chan Result) <-chan struct{} {
	closed := make(chan struct{})
	go func() {
		for range done {
		}
		close(closed)
	}()
	return closed
}
