package chromem_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/openmuse/muse/memory"
	"github.com/openmuse/muse/memory/embedder/mock"
	"github.com/openmuse/muse/memory/store/chromem"
)

// flakyEmbedder wraps the mock embedder and starts failing after a set
// number of calls, to simulate the provider going away mid-session.
type flakyEmbedder struct {
	inner     memory.Embedder
	callsLeft int
}

func (f *flakyEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.callsLeft <= 0 {
		return nil, errors.New("embedding service unreachable")
	}
	f.callsLeft--
	return f.inner.Embed(ctx, text)
}

func (f *flakyEmbedder) Dimensions() int { return f.inner.Dimensions() }

func creation(id, userPrompt, expandedPrompt string) memory.Creation {
	return memory.Creation{
		ID:             id,
		UserPrompt:     userPrompt,
		ExpandedPrompt: expandedPrompt,
		Timestamp:      time.Now().UTC().Truncate(time.Second),
	}
}

func TestTier_RequiresEmbedder(t *testing.T) {
	_, err := chromem.New("creations", nil, nil)
	if !errors.Is(err, memory.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestTier_AddAndQuery(t *testing.T) {
	ctx := context.Background()
	tier, err := chromem.New("creations", mock.New(), nil)
	if err != nil {
		t.Fatalf("create tier: %v", err)
	}

	first := creation("id-1", "a cat", "a fluffy orange cat lounging in sunlight")
	second := creation("id-2", "a city", "a rain-soaked neon city street at night")
	if err := tier.Add(ctx, first); err != nil {
		t.Fatalf("add first: %v", err)
	}
	if err := tier.Add(ctx, second); err != nil {
		t.Fatalf("add second: %v", err)
	}
	if tier.Count() != 2 {
		t.Fatalf("expected 2 stored creations, got %d", tier.Count())
	}

	results, err := tier.Query(ctx, "a fluffy orange cat lounging in sunlight", 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// Exact text match must rank first; ordering is ascending distance.
	if results[0].ID != "id-1" {
		t.Errorf("expected id-1 closest, got %s", results[0].ID)
	}
	if results[0].Distance > results[1].Distance {
		t.Errorf("results not ordered by ascending distance: %v > %v", results[0].Distance, results[1].Distance)
	}
	for _, r := range results {
		if r.Distance < 0 {
			t.Errorf("distance must be non-negative, got %v", r.Distance)
		}
	}

	// Record fields round-trip through the index metadata.
	got := results[0]
	if got.UserPrompt != first.UserPrompt {
		t.Errorf("user prompt: got %q, want %q", got.UserPrompt, first.UserPrompt)
	}
	if got.ExpandedPrompt != first.ExpandedPrompt {
		t.Errorf("expanded prompt: got %q, want %q", got.ExpandedPrompt, first.ExpandedPrompt)
	}
	if !got.Timestamp.Equal(first.Timestamp) {
		t.Errorf("timestamp: got %v, want %v", got.Timestamp, first.Timestamp)
	}
}

func TestTier_QueryEmptyStore(t *testing.T) {
	tier, err := chromem.New("creations", mock.New(), nil)
	if err != nil {
		t.Fatal(err)
	}

	results, err := tier.Query(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("empty store must not error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestTier_QueryClampsResultCount(t *testing.T) {
	ctx := context.Background()
	tier, err := chromem.New("creations", mock.New(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := tier.Add(ctx, creation("only", "p", "the only creation")); err != nil {
		t.Fatal(err)
	}

	// Asking for more hits than documents must not fail.
	results, err := tier.Query(ctx, "the only creation", 5)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	// n below 1 is clamped up, not rejected.
	results, err = tier.Query(ctx, "the only creation", 0)
	if err != nil || len(results) != 1 {
		t.Fatalf("expected clamped query to succeed with 1 result, got %d, %v", len(results), err)
	}
}

func TestTier_AddFailureIsStoreWrite(t *testing.T) {
	tier, err := chromem.New("creations", &flakyEmbedder{inner: mock.New()}, nil)
	if err != nil {
		t.Fatal(err)
	}

	err = tier.Add(context.Background(), creation("id-1", "p", "e"))
	if !errors.Is(err, memory.ErrStoreWrite) {
		t.Fatalf("expected ErrStoreWrite, got %v", err)
	}
	if tier.Count() != 0 {
		t.Errorf("failed add must not leave a record behind, count=%d", tier.Count())
	}
}

func TestTier_QueryFailureIsStoreQuery(t *testing.T) {
	ctx := context.Background()
	// One successful embed for the add, then the provider goes away.
	embedder := &flakyEmbedder{inner: mock.New(), callsLeft: 1}
	tier, err := chromem.New("creations", embedder, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := tier.Add(ctx, creation("id-1", "p", "a stored creation")); err != nil {
		t.Fatal(err)
	}

	_, err = tier.Query(ctx, "a stored creation", 1)
	if !errors.Is(err, memory.ErrStoreQuery) {
		t.Fatalf("expected ErrStoreQuery, got %v", err)
	}
}

func TestTier_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	embedder := mock.New()

	tier, err := chromem.NewPersistent(dir, "creations_long_term", embedder, nil)
	if err != nil {
		t.Fatalf("create persistent tier: %v", err)
	}
	saved := creation("id-1", "a cat", "a fluffy orange cat lounging in sunlight")
	if err := tier.Add(ctx, saved); err != nil {
		t.Fatalf("add: %v", err)
	}

	// A fresh tier over the same path must see the record.
	reopened, err := chromem.NewPersistent(dir, "creations_long_term", embedder, nil)
	if err != nil {
		t.Fatalf("reopen persistent tier: %v", err)
	}
	if reopened.Count() != 1 {
		t.Fatalf("expected 1 record after reopen, got %d", reopened.Count())
	}

	results, err := reopened.Query(ctx, "orange cat", 1)
	if err != nil {
		t.Fatalf("query after reopen: %v", err)
	}
	if len(results) != 1 || results[0].ID != saved.ID {
		t.Fatalf("expected %s after reopen, got %v", saved.ID, results)
	}
}

func TestTier_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	tier, err := chromem.New("creations", mock.New(), nil)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func(i int) {
			done <- tier.Add(ctx, creation(
				fmt.Sprintf("id-%d", i),
				fmt.Sprintf("prompt %d", i),
				fmt.Sprintf("expanded prompt number %d", i),
			))
		}(i)
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent add: %v", err)
		}
	}
	if tier.Count() != 8 {
		t.Fatalf("expected 8 records, got %d", tier.Count())
	}
}
