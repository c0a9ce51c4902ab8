package memory

import (
	"context"
	"errors"
	"time"
)

// Creation is the unit of memory: one generated artwork. Records are
// write-once; nothing in this package updates or deletes them.
type Creation struct {
	// ID uniquely identifies one creation event. The same ID is written
	// to both tiers.
	ID string

	// UserPrompt is the original user-supplied text.
	UserPrompt string

	// ExpandedPrompt is the enriched description that was embedded and
	// semantically indexed.
	ExpandedPrompt string

	// Timestamp is the creation time, set once at write.
	Timestamp time.Time
}

// SearchResult wraps a recalled Creation with its distance to the query.
// Smaller distance means more similar. Results are ephemeral query output
// and are never persisted.
type SearchResult struct {
	Creation

	Distance float32
}

// Tier is a semantically queryable, append-only store of creations.
// The short-term and long-term tiers implement the same contract and
// differ only in persistence.
type Tier interface {
	// Add stores one creation, embedding its ExpandedPrompt via the
	// tier's embedding provider. Either the record is fully queryable
	// afterwards or not present at all.
	Add(ctx context.Context, c Creation) error

	// Query returns the nResults records closest to text, ranked by
	// ascending distance. An empty store yields an empty slice, not an
	// error; errors are reserved for hard backend faults.
	Query(ctx context.Context, text string, nResults int) ([]SearchResult, error)

	// Name identifies the tier in logs and events.
	Name() string

	Close() error
}

// Embedder converts text to a fixed-length vector. The memory core is
// agnostic to dimensionality and distance metric; both belong to the
// backend.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

var (
	// ErrProviderUnavailable means the embedding backend was unreachable
	// at construction time. Memory features have no degraded mode, so
	// construction aborts.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrStoreWrite means a tier failed to persist a record.
	ErrStoreWrite = errors.New("store write failed")

	// ErrStoreQuery means a tier failed to search.
	ErrStoreQuery = errors.New("store query failed")
)
