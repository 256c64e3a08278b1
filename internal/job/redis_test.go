package job_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/akwaba-labs/djobi/internal/job"
)

// newTestRedisStore connects to the Redis instance named by
// DJOBI_TEST_REDIS_ADDR, or skips the test when it is not set. The store is
// reset so each test starts from an empty collection.
func newTestRedisStore(t *testing.T) *job.RedisStore {
	t.Helper()
	addr := os.Getenv("DJOBI_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("DJOBI_TEST_REDIS_ADDR not set — skipping Redis integration tests")
	}
	ctx := context.Background()

	store, err := job.NewRedisStore(ctx, addr, os.Getenv("DJOBI_TEST_REDIS_PASSWORD"))
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	return store
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, job.Offer{
		Title:        "Serveuse dans maquis",
		Location:     "Abidjan, Yopougon",
		StoreName:    "Maquis Chez Fatou",
		Translations: &job.Translations{Bambara: "dumunikɛla", Baoule: "dumunikɛla"},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := store.Get(ctx, added.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.StoreName != "Maquis Chez Fatou" {
		t.Fatalf("Get: unexpected offer: %+v", got)
	}
}

func TestRedisStoreListAndPrune(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	cutoff := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	offers := []job.Offer{
		{ID: "stale", Title: "Chauffeur", PostedAt: cutoff.AddDate(0, -2, 0)},
		{ID: "fresh", Title: "Gérant de magasin", PostedAt: cutoff.AddDate(0, 2, 0)},
	}
	for _, o := range offers {
		if _, err := store.Add(ctx, o); err != nil {
			t.Fatalf("Add %q: %v", o.ID, err)
		}
	}

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "fresh" {
		t.Fatalf("List: expected newest first, got %+v", got)
	}

	pruned, err := store.Prune(ctx, cutoff)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("Prune: expected 1 removed, got %d", pruned)
	}
	if _, err := store.Get(ctx, "stale"); !errors.Is(err, job.ErrNotFound) {
		t.Fatalf("Get stale: expected ErrNotFound, got %v", err)
	}
}
