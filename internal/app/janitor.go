package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/akwaba-labs/djobi/internal/job"
)

// janitorSpec runs the expiry sweep at the top of every hour. Listings are
// dated at day granularity, so a finer schedule would not change behaviour.
const janitorSpec = "0 * * * *"

// Janitor periodically removes listings older than the configured TTL.
type Janitor struct {
	store job.Store
	ttl   time.Duration
	cron  *cron.Cron
}

// NewJanitor creates a janitor that prunes listings posted more than ttl ago.
func NewJanitor(store job.Store, ttl time.Duration) *Janitor {
	return &Janitor{
		store: store,
		ttl:   ttl,
		cron:  cron.New(cron.WithLogger(cron.DefaultLogger)),
	}
}

// Start schedules the hourly sweep and runs one immediately so a restart does
// not leave expired listings live for up to an hour.
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc(janitorSpec, j.sweep); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	j.cron.Start()
	go j.sweep()
	return nil
}

// Stop halts the schedule. A sweep already in flight finishes on its own.
func (j *Janitor) Stop() {
	j.cron.Stop()
}

func (j *Janitor) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-j.ttl)
	removed, err := j.store.Prune(ctx, cutoff)
	if err != nil {
		slog.Error("listing expiry sweep failed", "error", err)
		return
	}
	if removed > 0 {
		slog.Info("expired listings removed", "count", removed, "cutoff", cutoff.Format(time.RFC3339))
	}
}
