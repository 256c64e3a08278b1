package job

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sort"
	"time"
)

// ErrNotFound is returned by Get when the requested listing does not exist.
var ErrNotFound = errors.New("job: listing not found")

// ErrDuplicateID is returned by Add when a listing with the same ID already exists.
var ErrDuplicateID = errors.New("job: listing with that ID already exists")

// Store manages job listings.
//
// All implementations must be safe for concurrent use.
type Store interface {
	// Add creates a new listing. Returns the listing with a generated ID if
	// the provided offer's ID is empty.
	// Returns [ErrDuplicateID] if a listing with the same non-empty ID exists.
	Add(ctx context.Context, offer Offer) (Offer, error)

	// Get retrieves a listing by ID.
	// Returns [ErrNotFound] when no listing with that ID exists.
	Get(ctx context.Context, id string) (Offer, error)

	// List returns all listings ordered by PostedAt descending (newest first).
	// Returns an empty (non-nil) slice when the store is empty.
	List(ctx context.Context) ([]Offer, error)

	// Prune removes listings posted before the cutoff and returns how many
	// were removed. Used by the expiry janitor.
	Prune(ctx context.Context, cutoff time.Time) (int, error)

	// Reset removes all listings.
	Reset(ctx context.Context) error
}

// sortByPostedAtDesc orders offers newest first, in place.
func sortByPostedAtDesc(offers []Offer) {
	sort.Slice(offers, func(i, j int) bool {
		return offers[i].PostedAt.After(offers[j].PostedAt)
	})
}

// generateID produces a random 16-byte hex string using crypto/rand.
// The resulting string is 32 hex characters and is statistically unique.
func generateID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
