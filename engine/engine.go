// Package engine wires the creative pipeline: intent detection, memory
// recall, prompt expansion, image generation and persistence.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openmuse/muse/llm"
	"github.com/openmuse/muse/memory"
	"github.com/openmuse/muse/textimage"
)

// Engine runs one generation request end to end.
type Engine struct {
	llm llm.Client
	mem *memory.Manager
	gen textimage.Generator
	log *slog.Logger
}

// Option configures the engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Defaults to slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// New creates an engine over its three collaborators.
func New(client llm.Client, mem *memory.Manager, gen textimage.Generator, opts ...Option) *Engine {
	e := &Engine{
		llm: client,
		mem: mem,
		gen: gen,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one pipeline run.
type Result struct {
	// Intent is the effective intent, after any demotion.
	Intent llm.Intent

	// Demoted is true when a remix request found nothing to build on and
	// was handled as a new generation instead.
	Demoted bool

	// Recalled is the past creation fused into the prompt, when remixing.
	Recalled *memory.SearchResult

	// RecallDistance is the similarity distance of the recalled match.
	RecallDistance float32

	// Expanded is the description the image was generated from.
	Expanded string

	// Image holds the raw image bytes.
	Image []byte

	// CreationID identifies the saved creation; empty if the save failed.
	CreationID string
}

// Run executes the pipeline for one user prompt.
//
// Intent classification failures and unknown tags fall back to a new
// generation. A remix with no usable recall is demoted to a new
// generation; the demotion is visible on the Result. Expansion failures
// fall back to the unexpanded prompt. Only a generation failure aborts
// the request.
func (e *Engine) Run(ctx context.Context, userPrompt string) (*Result, error) {
	res := &Result{}

	intent, err := e.llm.DetectIntent(ctx, userPrompt)
	if err != nil {
		e.log.Warn("intent detection failed, treating as new generation", "error", err)
		intent = llm.IntentNewGeneration
	}
	res.Intent = intent

	working := userPrompt
	if intent == llm.IntentRemix {
		shortTerm := e.mem.SearchShortTermMemory(ctx, userPrompt, 1)
		longTerm := e.mem.SearchLongTermMemory(ctx, userPrompt, 1)

		if match, distance, ok := e.mem.SelectBestMatch(shortTerm, longTerm); ok {
			res.Recalled = match
			res.RecallDistance = distance
			working = FusionPrompt(match, userPrompt)
			e.log.Info("remixing past creation", "id", match.ID, "distance", distance)
		} else {
			res.Intent = llm.IntentNewGeneration
			res.Demoted = true
			e.log.Info("no past creation to remix, generating fresh")
		}
	}

	expanded, err := e.llm.ExpandPrompt(ctx, working)
	if err != nil || expanded == "" {
		// Expansion is an enhancement, not a requirement.
		e.log.Warn("prompt expansion failed, using prompt as-is", "error", err)
		expanded = working
	}
	res.Expanded = expanded

	image, err := e.gen.Generate(ctx, expanded)
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}
	res.Image = image

	id, err := e.mem.SaveCreation(ctx, userPrompt, expanded)
	if err != nil {
		// The image was produced; a failed save only degrades future
		// recall.
		e.log.Error("failed to save creation", "error", err)
	}
	res.CreationID = id

	return res, nil
}

// FusionPrompt combines a recalled creation with the new request into a
// single expansion instruction. The recalled expanded prompt is
// preferred; records that predate expansion carry only the user prompt.
func FusionPrompt(match *memory.SearchResult, userPrompt string) string {
	recalled := match.ExpandedPrompt
	if recalled == "" {
		recalled = match.UserPrompt
	}
	return fmt.Sprintf("User wants to remix. Here's a detailed description of a past creation: %q. "+
		"Now, based on the user's new request: %q, creatively combine these elements into a single, "+
		"vivid, and detailed artistic description suitable for image generation. Ensure the new "+
		"description incorporates the modifications or references from the user's latest input.",
		recalled, userPrompt)
}
