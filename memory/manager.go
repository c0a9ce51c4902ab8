package memory

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Config holds Manager configuration.
type Config struct {
	// ShortTermResults is the default result count for short-term
	// queries when the caller passes n <= 0.
	ShortTermResults int

	// LongTermResults is the default result count for long-term queries
	// when the caller passes n <= 0.
	LongTermResults int

	// Events receives structured outcome events. Defaults to a no-op
	// sink.
	Events EventSink
}

// DefaultConfig holds the recall defaults: the short-term tier answers
// with its single closest hit, the long-term tier with five.
var DefaultConfig = &Config{
	ShortTermResults: 1,
	LongTermResults:  5,
}

// Manager coordinates the two memory tiers for write and recall, and owns
// the cross-tier best-match selection. It is safe for concurrent callers;
// per-tier write serialization is the tier's own concern.
type Manager struct {
	shortTerm Tier
	longTerm  Tier
	cfg       Config
	events    EventSink
}

// NewManager creates a Manager over an already-constructed long-term and
// short-term tier. Tier construction is where provider reachability is
// established; a missing tier here means that failed, so creation aborts.
func NewManager(longTerm, shortTerm Tier, cfg *Config) (*Manager, error) {
	if longTerm == nil || shortTerm == nil {
		return nil, fmt.Errorf("%w: both memory tiers are required", ErrProviderUnavailable)
	}
	if cfg == nil {
		cfg = DefaultConfig
	}
	c := *cfg
	if c.ShortTermResults <= 0 {
		c.ShortTermResults = DefaultConfig.ShortTermResults
	}
	if c.LongTermResults <= 0 {
		c.LongTermResults = DefaultConfig.LongTermResults
	}
	events := c.Events
	if events == nil {
		events = nopSink{}
	}
	return &Manager{
		shortTerm: shortTerm,
		longTerm:  longTerm,
		cfg:       c,
		events:    events,
	}, nil
}

// SaveCreation persists a new creation to both tiers under a fresh id.
//
// The long-term tier is written first: it is the authoritative record, and
// a short-term-only entry with no durable backing is worse than no entry.
// If the long-term write fails the save is aborted. If only the short-term
// write fails the id is still returned; recall for this creation within
// the session is degraded, not fatal.
func (m *Manager) SaveCreation(ctx context.Context, userPrompt, expandedPrompt string) (string, error) {
	c := Creation{
		ID:             uuid.New().String(),
		UserPrompt:     userPrompt,
		ExpandedPrompt: expandedPrompt,
		Timestamp:      time.Now(),
	}

	if err := m.longTerm.Add(ctx, c); err != nil {
		m.events.Emit(Event{Kind: EventSaveFailed, Tier: m.longTerm.Name(), CreationID: c.ID, Err: err})
		return "", fmt.Errorf("save creation to %s tier: %w", m.longTerm.Name(), err)
	}

	if err := m.shortTerm.Add(ctx, c); err != nil {
		m.events.Emit(Event{Kind: EventPartialSave, Tier: m.shortTerm.Name(), CreationID: c.ID, Err: err})
		return c.ID, nil
	}

	m.events.Emit(Event{Kind: EventSaved, CreationID: c.ID})
	return c.ID, nil
}

// SearchShortTermMemory queries the short-term tier. Recall is a
// best-effort enhancement: tier failures surface as an empty result set,
// never as an error. Pass n <= 0 for the configured default.
func (m *Manager) SearchShortTermMemory(ctx context.Context, query string, n int) []SearchResult {
	return m.search(ctx, m.shortTerm, query, n, m.cfg.ShortTermResults)
}

// SearchLongTermMemory queries the long-term tier with the same
// best-effort contract as SearchShortTermMemory.
func (m *Manager) SearchLongTermMemory(ctx context.Context, query string, n int) []SearchResult {
	return m.search(ctx, m.longTerm, query, n, m.cfg.LongTermResults)
}

func (m *Manager) search(ctx context.Context, t Tier, query string, n, fallback int) []SearchResult {
	if n <= 0 {
		n = fallback
	}
	results, err := t.Query(ctx, query, n)
	if err != nil {
		m.events.Emit(Event{Kind: EventQueryFailed, Tier: t.Name(), Query: query, Err: err})
		return nil
	}
	m.events.Emit(Event{Kind: EventRecall, Tier: t.Name(), Query: query, Results: len(results)})
	return results
}

// SelectBestMatch picks the single closest candidate across both result
// pools. Candidates are visited short-term first; only a strictly smaller
// distance replaces the running best, so a tie keeps the earlier hit and
// the short-term tier wins equal distances. Candidates without a usable
// distance are skipped. Returns ok=false when the combined pool holds no
// usable candidate.
//
// This is a single O(n) pass over both pools, not a merge or sort, and the
// inputs are never mutated.
func (m *Manager) SelectBestMatch(shortTerm, longTerm []SearchResult) (*SearchResult, float32, bool) {
	var best *SearchResult
	var bestScore float32

	for _, pool := range [2][]SearchResult{shortTerm, longTerm} {
		for i := range pool {
			d := pool[i].Distance
			if math.IsNaN(float64(d)) || d < 0 {
				continue
			}
			if best == nil || d < bestScore {
				candidate := pool[i]
				best = &candidate
				bestScore = d
			}
		}
	}

	if best == nil {
		m.events.Emit(Event{Kind: EventNoMatch})
		return nil, 0, false
	}
	m.events.Emit(Event{Kind: EventMatchSelected, CreationID: best.ID, Distance: bestScore})
	return best, bestScore, true
}

// Close releases both tiers.
func (m *Manager) Close() error {
	if err := m.shortTerm.Close(); err != nil {
		return err
	}
	return m.longTerm.Close()
}
