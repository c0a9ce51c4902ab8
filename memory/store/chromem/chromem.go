// Package chromem implements a memory tier on top of chromem-go, a pure
// Go embedded vector database. The same type backs both tiers: New gives
// a process-lifetime store and NewPersistent a disk-backed one.
package chromem

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/openmuse/muse/memory"
)

// Tier wraps one chromem-go collection as a memory.Tier.
type Tier struct {
	name string
	col  *chromem.Collection
	log  *slog.Logger

	// Guards the add path. chromem serializes internally, but the tier
	// contract does not assume the backend is safe for concurrent
	// writers. Reads proceed unlocked.
	mu sync.Mutex
}

var _ memory.Tier = (*Tier)(nil)

// New creates an in-memory tier. Its contents live for the process
// lifetime only.
func New(name string, embedder memory.Embedder, log *slog.Logger) (*Tier, error) {
	return newTier(chromem.NewDB(), name, embedder, log)
}

// NewPersistent creates a disk-backed tier at path. Existing records are
// loaded, so the tier survives restarts.
func NewPersistent(path, name string, embedder memory.Embedder, log *slog.Logger) (*Tier, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("open persistent store at %s: %w", path, err)
	}
	return newTier(db, name, embedder, log)
}

func newTier(db *chromem.DB, name string, embedder memory.Embedder, log *slog.Logger) (*Tier, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: tier %s has no embedder", memory.ErrProviderUnavailable, name)
	}
	if log == nil {
		log = slog.Default()
	}

	// The collection owns the embedding function; both Add and Query
	// delegate vectorization to it.
	embed := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.Embed(ctx, text)
	}
	col, err := db.GetOrCreateCollection(name, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("collection %s: %w", name, err)
	}

	return &Tier{name: name, col: col, log: log}, nil
}

// Name returns the tier's collection name.
func (t *Tier) Name() string {
	return t.name
}

// Add stores one creation, embedding its expanded prompt. chromem adds a
// document atomically, so a failed embed leaves nothing behind.
func (t *Tier) Add(ctx context.Context, c memory.Creation) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	doc := chromem.Document{
		ID:      c.ID,
		Content: c.ExpandedPrompt,
		Metadata: map[string]string{
			"user_prompt": c.UserPrompt,
			"timestamp":   c.Timestamp.Format(time.RFC3339),
		},
	}
	if err := t.col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("tier %s: %w: %v", t.name, memory.ErrStoreWrite, err)
	}
	return nil
}

// Query embeds text and returns the nResults nearest creations by
// ascending distance. nResults is clamped to at least 1 and to the
// collection size; chromem rejects asking for more hits than documents.
func (t *Tier) Query(ctx context.Context, text string, nResults int) ([]memory.SearchResult, error) {
	if nResults < 1 {
		nResults = 1
	}
	count := t.col.Count()
	if count == 0 {
		return []memory.SearchResult{}, nil
	}
	if nResults > count {
		nResults = count
	}

	hits, err := t.col.Query(ctx, text, nResults, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("tier %s: %w: %v", t.name, memory.ErrStoreQuery, err)
	}
	return t.formatResults(hits), nil
}

// formatResults projects raw chromem hits into SearchResults. chromem
// reports cosine similarity (higher is closer); callers rank by distance,
// so hits are converted with distance = 1 - similarity and clamped at
// zero. Hits missing an id or document text are dropped and logged rather
// than surfaced with empty fields.
func (t *Tier) formatResults(hits []chromem.Result) []memory.SearchResult {
	results := make([]memory.SearchResult, 0, len(hits))
	for _, hit := range hits {
		if hit.ID == "" || hit.Content == "" {
			t.log.Warn("dropping malformed hit", "tier", t.name, "id", hit.ID)
			continue
		}
		distance := 1 - hit.Similarity
		if distance < 0 {
			distance = 0
		}
		ts, _ := time.Parse(time.RFC3339, hit.Metadata["timestamp"])
		results = append(results, memory.SearchResult{
			Creation: memory.Creation{
				ID:             hit.ID,
				UserPrompt:     hit.Metadata["user_prompt"],
				ExpandedPrompt: hit.Content,
				Timestamp:      ts,
			},
			Distance: distance,
		})
	}
	return results
}

// Count reports the number of stored creations.
func (t *Tier) Count() int {
	return t.col.Count()
}

// Close is a no-op; chromem persists incrementally and holds no handles
// that need releasing.
func (t *Tier) Close() error {
	return nil
}
