package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Compile-time assertion that RedisStore satisfies the Store interface.
var _ Store = (*RedisStore)(nil)

// redisKey is the single key holding the whole listing collection as one JSON
// document. The dataset is small (tens of postings) so a blob read-modify-write
// beats per-listing keys in simplicity and keeps List a single round trip.
const redisKey = "informaljobs"

// RedisStore is a Redis-backed implementation of [Store]. The entire
// collection is serialized under one fixed key; writes are serialized by an
// in-process mutex, so run a single Djobi instance per Redis database.
type RedisStore struct {
	rdb *redis.Client

	// mu guards the read-modify-write cycle on the collection blob.
	mu sync.Mutex
}

// NewRedisStore connects to the Redis instance at addr and verifies
// connectivity. password may be empty.
func NewRedisStore(ctx context.Context, addr, password string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("job: redis store: ping: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

// Ping reports whether the Redis connection is alive. Satisfies the health
// package's Pinger.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// Add implements [Store.Add].
func (s *RedisStore) Add(ctx context.Context, offer Offer) (Offer, error) {
	if offer.ID == "" {
		id, err := generateID()
		if err != nil {
			return Offer{}, fmt.Errorf("job: generate id: %w", err)
		}
		offer.ID = id
	}
	if offer.PostedAt.IsZero() {
		offer.PostedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	offers, err := s.load(ctx)
	if err != nil {
		return Offer{}, err
	}
	for _, o := range offers {
		if o.ID == offer.ID {
			return Offer{}, ErrDuplicateID
		}
	}
	offers = append(offers, offer)
	if err := s.save(ctx, offers); err != nil {
		return Offer{}, err
	}
	return offer, nil
}

// Get implements [Store.Get].
func (s *RedisStore) Get(ctx context.Context, id string) (Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	offers, err := s.load(ctx)
	if err != nil {
		return Offer{}, err
	}
	for _, o := range offers {
		if o.ID == id {
			return o, nil
		}
	}
	return Offer{}, ErrNotFound
}

// List implements [Store.List].
func (s *RedisStore) List(ctx context.Context) ([]Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	offers, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	sortByPostedAtDesc(offers)
	return offers, nil
}

// Prune implements [Store.Prune].
func (s *RedisStore) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	offers, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	kept := offers[:0]
	pruned := 0
	for _, o := range offers {
		if o.PostedAt.Before(cutoff) {
			pruned++
			continue
		}
		kept = append(kept, o)
	}
	if pruned == 0 {
		return 0, nil
	}
	if err := s.save(ctx, kept); err != nil {
		return 0, err
	}
	return pruned, nil
}

// Reset implements [Store.Reset].
func (s *RedisStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.rdb.Del(ctx, redisKey).Err(); err != nil {
		return fmt.Errorf("job: redis reset: %w", err)
	}
	return nil
}

// load reads and decodes the collection blob. A missing key is an empty store.
func (s *RedisStore) load(ctx context.Context) ([]Offer, error) {
	data, err := s.rdb.Get(ctx, redisKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return []Offer{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("job: redis get %q: %w", redisKey, err)
	}

	var offers []Offer
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, fmt.Errorf("job: redis decode %q: %w", redisKey, err)
	}
	if offers == nil {
		offers = []Offer{}
	}
	return offers, nil
}

// save encodes and writes the collection blob.
func (s *RedisStore) save(ctx context.Context, offers []Offer) error {
	data, err := json.Marshal(offers)
	if err != nil {
		return fmt.Errorf("job: redis encode: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKey, data, 0).Err(); err != nil {
		return fmt.Errorf("job: redis set %q: %w", redisKey, err)
	}
	return nil
}
