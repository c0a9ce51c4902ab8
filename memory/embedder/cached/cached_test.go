package cached

import (
	"context"
	"errors"
	"testing"

	"github.com/openmuse/muse/memory"
)

type countingEmbedder struct {
	calls int
	err   error
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

func (c *countingEmbedder) Dimensions() int { return 3 }

var _ memory.Embedder = (*countingEmbedder)(nil)

func TestEmbed_CachesByText(t *testing.T) {
	inner := &countingEmbedder{}
	e, err := New(inner, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	ctx := context.Background()
	if _, err := e.Embed(ctx, "a fluffy orange cat"); err != nil {
		t.Fatal(err)
	}
	// ristretto admits entries asynchronously.
	e.cache.Wait()

	if _, err := e.Embed(ctx, "a fluffy orange cat"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 1 {
		t.Errorf("expected one provider call, got %d", inner.calls)
	}

	if _, err := e.Embed(ctx, "something else entirely"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("distinct text must reach the provider, got %d calls", inner.calls)
	}
}

func TestEmbed_DoesNotCacheErrors(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("unreachable")}
	e, err := New(inner, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	ctx := context.Background()
	if _, err := e.Embed(ctx, "text"); err == nil {
		t.Fatal("expected provider error to propagate")
	}
	e.cache.Wait()

	inner.err = nil
	if _, err := e.Embed(ctx, "text"); err != nil {
		t.Fatalf("recovered provider must serve the request: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("error responses must not be cached, got %d calls", inner.calls)
	}
}

func TestDimensions_Delegates(t *testing.T) {
	e, err := New(&countingEmbedder{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	if e.Dimensions() != 3 {
		t.Errorf("expected inner dimensions, got %d", e.Dimensions())
	}
}
