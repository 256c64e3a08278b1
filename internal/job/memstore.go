package job

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Compile-time assertion that MemStore satisfies the Store interface.
var _ Store = (*MemStore)(nil)

// MemStore is a thread-safe, in-memory implementation of [Store].
// Listings are lost on restart; it backs dev/demo configs and tests.
type MemStore struct {
	mu     sync.RWMutex
	offers map[string]Offer
}

// NewMemStore returns an initialised [MemStore].
func NewMemStore() *MemStore {
	return &MemStore{
		offers: make(map[string]Offer),
	}
}

// Add implements [Store.Add].
func (s *MemStore) Add(ctx context.Context, offer Offer) (Offer, error) {
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

	if s.offers == nil {
		s.offers = make(map[string]Offer)
	}

	if _, exists := s.offers[offer.ID]; exists {
		return Offer{}, ErrDuplicateID
	}

	s.offers[offer.ID] = offer
	return offer, nil
}

// Get implements [Store.Get].
func (s *MemStore) Get(ctx context.Context, id string) (Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.offers[id]
	if !ok {
		return Offer{}, ErrNotFound
	}
	return o, nil
}

// List implements [Store.List].
func (s *MemStore) List(ctx context.Context) ([]Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Offer, 0, len(s.offers))
	for _, o := range s.offers {
		result = append(result, o)
	}
	sortByPostedAtDesc(result)
	return result, nil
}

// Prune implements [Store.Prune].
func (s *MemStore) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, o := range s.offers {
		if o.PostedAt.Before(cutoff) {
			delete(s.offers, id)
			n++
		}
	}
	return n, nil
}

// Reset implements [Store.Reset].
func (s *MemStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offers = make(map[string]Offer)
	return nil
}
