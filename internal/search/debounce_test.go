package search_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/akwaba-labs/djobi/internal/job"
	"github.com/akwaba-labs/djobi/internal/search"
)

// collector gathers delivered results for assertions.
type collector struct {
	mu      sync.Mutex
	results []search.Result
	done    chan struct{}
}

func newCollector() *collector {
	return &collector{done: make(chan struct{}, 16)}
}

func (c *collector) deliver(res search.Result, err error) {
	c.mu.Lock()
	c.results = append(c.results, res)
	c.mu.Unlock()
	c.done <- struct{}{}
}

func (c *collector) snapshot() []search.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]search.Result, len(c.results))
	copy(out, c.results)
	return out
}

func TestDebouncerDeliversAfterDelay(t *testing.T) {
	t.Parallel()

	d := search.NewDebouncer(5 * time.Millisecond)
	c := newCollector()

	d.Run(context.Background(), func(ctx context.Context) (search.Result, error) {
		return search.Result{Mode: search.ModeSubstring}, nil
	}, c.deliver)

	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run: result never delivered")
	}
	got := c.snapshot()
	if len(got) != 1 || got[0].Mode != search.ModeSubstring {
		t.Fatalf("Run: unexpected deliveries: %+v", got)
	}
}

func TestDebouncerSupersededRevisionDropped(t *testing.T) {
	t.Parallel()

	d := search.NewDebouncer(20 * time.Millisecond)
	c := newCollector()
	ctx := context.Background()

	// First revision waits in its debounce window when the second arrives.
	d.Run(ctx, func(ctx context.Context) (search.Result, error) {
		return search.Result{Offers: []job.Offer{{ID: "stale"}}}, nil
	}, c.deliver)
	d.Run(ctx, func(ctx context.Context) (search.Result, error) {
		return search.Result{Offers: []job.Offer{{ID: "current"}}}, nil
	}, c.deliver)

	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run: result never delivered")
	}
	// Give a dropped first revision a chance to misbehave.
	time.Sleep(50 * time.Millisecond)

	got := c.snapshot()
	if len(got) != 1 {
		t.Fatalf("Run: expected exactly 1 delivery, got %d", len(got))
	}
	if len(got[0].Offers) != 1 || got[0].Offers[0].ID != "current" {
		t.Fatalf("Run: expected the current revision, got %+v", got[0].Offers)
	}
}

func TestDebouncerCancelsInFlightRun(t *testing.T) {
	t.Parallel()

	d := search.NewDebouncer(0)
	c := newCollector()
	ctx := context.Background()

	started := make(chan struct{})
	cancelled := make(chan struct{})

	d.Run(ctx, func(runCtx context.Context) (search.Result, error) {
		close(started)
		<-runCtx.Done()
		close(cancelled)
		return search.Result{}, runCtx.Err()
	}, c.deliver)

	<-started
	d.Run(ctx, func(ctx context.Context) (search.Result, error) {
		return search.Result{Mode: search.ModeSubstring}, nil
	}, c.deliver)

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("Run: first revision context never cancelled")
	}
	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run: second revision never delivered")
	}
	if got := c.snapshot(); len(got) != 1 {
		t.Fatalf("Run: expected 1 delivery, got %d", len(got))
	}
}

func TestDebouncerStop(t *testing.T) {
	t.Parallel()

	d := search.NewDebouncer(10 * time.Millisecond)
	c := newCollector()

	d.Run(context.Background(), func(ctx context.Context) (search.Result, error) {
		return search.Result{}, nil
	}, c.deliver)
	d.Stop()

	time.Sleep(50 * time.Millisecond)
	if got := c.snapshot(); len(got) != 0 {
		t.Fatalf("Stop: expected no deliveries, got %d", len(got))
	}
}
