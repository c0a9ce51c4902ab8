package chromem

import (
	"testing"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/openmuse/muse/memory/embedder/mock"
)

// Malformed hits cannot be produced through Add, which refuses empty
// content, but a persistent collection written by something else can
// carry them. Projection must drop them instead of surfacing records
// with empty fields.
func TestFormatResults_DropsMalformedHits(t *testing.T) {
	tier, err := New("creations", mock.New(), nil)
	if err != nil {
		t.Fatal(err)
	}

	hits := []chromemgo.Result{
		{ID: "", Content: "orphaned content", Similarity: 0.9},
		{ID: "no-content", Content: "", Similarity: 0.8},
		{ID: "good", Content: "a fluffy orange cat", Similarity: 0.7},
	}

	results := tier.formatResults(hits)
	if len(results) != 1 {
		t.Fatalf("expected only the well-formed hit, got %d results", len(results))
	}
	if results[0].ID != "good" || results[0].ExpandedPrompt != "a fluffy orange cat" {
		t.Errorf("wrong survivor: %+v", results[0])
	}
}

func TestFormatResults_ClampsNegativeDistance(t *testing.T) {
	tier, err := New("creations", mock.New(), nil)
	if err != nil {
		t.Fatal(err)
	}

	// Similarity above 1 would yield a negative distance.
	hits := []chromemgo.Result{
		{ID: "good", Content: "a fluffy orange cat", Similarity: 1.0001},
	}

	results := tier.formatResults(hits)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Distance != 0 {
		t.Errorf("distance must be clamped at zero, got %v", results[0].Distance)
	}
}
