package search

import (
	"context"
	"sync"
	"time"
)

// Debouncer serializes rapid query revisions: each call supersedes the
// previous one, cancelling its context so an in-flight analysis stops doing
// work, and a superseded result is dropped rather than delivered.
//
// One Debouncer belongs to one result consumer (a websocket connection, a
// live-search session). Safe for concurrent use.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	rev    uint64
	cancel context.CancelFunc
}

// NewDebouncer creates a Debouncer that waits delay before running a query.
// A non-positive delay runs queries immediately (still with supersession).
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Run schedules run after the debounce delay and hands its outcome to
// deliver. If Run is called again before delivery, the earlier revision's
// context is cancelled and its result, if any, is discarded. deliver is never
// called for a superseded or cancelled revision.
func (d *Debouncer) Run(ctx context.Context, run func(context.Context) (Result, error), deliver func(Result, error)) {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	d.rev++
	rev := d.rev
	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.mu.Unlock()

	go func() {
		defer cancel()

		if d.delay > 0 {
			t := time.NewTimer(d.delay)
			select {
			case <-runCtx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}

		res, err := run(runCtx)
		if runCtx.Err() != nil {
			return
		}
		if !d.current(rev) {
			return
		}
		deliver(res, err)
	}()
}

// Stop cancels the pending revision, if any. After Stop the Debouncer can be
// reused.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Debouncer) current(rev uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rev == rev
}
