package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openmuse/muse/config"
	"github.com/openmuse/muse/engine"
	"github.com/openmuse/muse/llm"
	llmanthropic "github.com/openmuse/muse/llm/anthropic"
	llmollama "github.com/openmuse/muse/llm/ollama"
	"github.com/openmuse/muse/memory"
	"github.com/openmuse/muse/memory/embedder/cached"
	embollama "github.com/openmuse/muse/memory/embedder/ollama"
	chromemstore "github.com/openmuse/muse/memory/store/chromem"
	"github.com/openmuse/muse/textimage"
)

const (
	longTermCollection  = "creations_long_term"
	shortTermCollection = "creations_short_term"
)

// buildMemory constructs the embedding provider and both memory tiers.
// Provider construction pings the Ollama server; failure here is fatal,
// memory has no degraded mode.
func buildMemory(ctx context.Context, cfg config.Config, log *slog.Logger) (*memory.Manager, error) {
	embedder, err := embollama.New(ctx, cfg.EmbedModel, cfg.EmbedDimensions)
	if err != nil {
		return nil, err
	}
	cachedEmbedder, err := cached.New(embedder, 0)
	if err != nil {
		return nil, fmt.Errorf("embedding cache: %w", err)
	}

	longTerm, err := chromemstore.NewPersistent(cfg.DataDir, longTermCollection, cachedEmbedder, log)
	if err != nil {
		return nil, err
	}
	shortTerm, err := chromemstore.New(shortTermCollection, cachedEmbedder, log)
	if err != nil {
		return nil, err
	}

	return memory.NewManager(longTerm, shortTerm, &memory.Config{
		Events: memory.SlogSink(log),
	})
}

// buildEngine assembles the full pipeline.
func buildEngine(ctx context.Context, cfg config.Config, log *slog.Logger) (*engine.Engine, *memory.Manager, error) {
	mem, err := buildMemory(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	var client llm.Client
	switch cfg.LLMProvider {
	case "anthropic":
		client = llmanthropic.New(func(o *llmanthropic.Options) {
			o.APIKey = cfg.AnthropicKey
		})
	case "ollama":
		client, err = llmollama.New(cfg.OllamaHost, cfg.LLMModel)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}

	gen := textimage.NewClient(cfg.BackendURL)
	eng := engine.New(client, mem, gen, engine.WithLogger(log))
	return eng, mem, nil
}
