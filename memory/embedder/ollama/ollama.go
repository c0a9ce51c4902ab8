// Package ollama embeds text through a local Ollama server, the same
// provider the generation side of the pipeline uses.
package ollama

import (
	"context"
	"fmt"

	"github.com/ollama/ollama/api"

	"github.com/openmuse/muse/memory"
)

const (
	// DefaultModel produces 384-dimensional vectors.
	DefaultModel = "all-minilm:l6-v2"

	// DefaultDimensions is the output size of DefaultModel.
	DefaultDimensions = 384
)

// Embedder implements memory.Embedder against an Ollama server.
type Embedder struct {
	client     *api.Client
	model      string
	dimensions int
}

var _ memory.Embedder = (*Embedder)(nil)

// New dials the Ollama server from the environment (OLLAMA_HOST, default
// http://localhost:11434) and verifies it is reachable. An unreachable
// server is fatal here: the memory subsystem has no degraded mode without
// its embedding provider.
func New(ctx context.Context, model string, dimensions int) (*Embedder, error) {
	if model == "" {
		model = DefaultModel
	}
	if dimensions == 0 {
		dimensions = DefaultDimensions
	}

	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("%w: create ollama client: %v", memory.ErrProviderUnavailable, err)
	}
	if err := client.Heartbeat(ctx); err != nil {
		return nil, fmt.Errorf("%w: ollama heartbeat: %v", memory.ErrProviderUnavailable, err)
	}

	return &Embedder{client: client, model: model, dimensions: dimensions}, nil
}

// Embed generates an embedding vector for the given text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embed(ctx, &api.EmbedRequest{
		Model: e.model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("embed: no embeddings returned")
	}

	embedding := resp.Embeddings[0]
	if len(embedding) != e.dimensions {
		return nil, fmt.Errorf("embed: dimension mismatch: got %d, want %d (model %s)",
			len(embedding), e.dimensions, e.model)
	}
	return embedding, nil
}

// Dimensions returns the expected embedding dimension.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// Model returns the configured embedding model name.
func (e *Embedder) Model() string {
	return e.model
}
