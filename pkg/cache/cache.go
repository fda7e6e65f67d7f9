// Package cache stores solved family assignments between runs.
//
// Solving a family graph is the only expensive step of world setup. The
// result depends only on the node count, the density bounds, the seed and
// the solver, so it can be cached under a key derived from those
// ([Keyer.FamilyKey]) and reused by any process sharing the backend.
//
// # Backends
//
//   - [NullCache]: never stores anything
//   - [FileCache]: JSON files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the API server
//
// Cached values are opaque bytes. Callers must verify them before use.
package cache

import (
	"context"
	"fmt"
	"time"
)

// TTLFamily is how long a solved family assignment stays cached.
const TTLFamily = 30 * 24 * time.Hour

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired key returns
	// (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// FamilyKeyOpts are the inputs that determine a solved family graph.
type FamilyKeyOpts struct {
	Nodes      int     `json:"nodes"`
	MinDensity float64 `json:"min_density"`
	MaxDensity float64 `json:"max_density"`
	Seed       uint64  `json:"seed"`
	Solver     string  `json:"solver"`
}

// Keyer derives cache keys.
type Keyer interface {
	FamilyKey(opts FamilyKeyOpts) string
}

// DefaultKeyer hashes key inputs under a type prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FamilyKey returns "family:<n>:<hash>".
func (DefaultKeyer) FamilyKey(opts FamilyKeyOpts) string {
	return hashKey(fmt.Sprintf("family:%d", opts.Nodes), opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}
