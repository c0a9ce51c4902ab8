// Package llm defines the language-model collaborators the pipeline
// consumes: intent classification and prompt expansion. Adapters live in
// subpackages; the memory core never touches this package.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Intent classifies a generation request.
type Intent string

const (
	// IntentNewGeneration is a fresh request with no reference to past
	// creations.
	IntentNewGeneration Intent = "new_generation"

	// IntentRemix builds on a previously generated creation.
	IntentRemix Intent = "remix"
)

// Client is the language-model surface the pipeline depends on.
type Client interface {
	// DetectIntent classifies the user prompt. Callers treat any error
	// as IntentNewGeneration; misreading a remix only costs a recall,
	// misreading a fresh request would corrupt the prompt.
	DetectIntent(ctx context.Context, userPrompt string) (Intent, error)

	// ExpandPrompt enriches a prompt into a detailed visual description
	// suitable for image generation.
	ExpandPrompt(ctx context.Context, prompt string) (string, error)
}

// ParseIntent maps a raw model reply onto a known intent. Anything that
// is not exactly "remix" falls back to a new generation.
func ParseIntent(raw string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(raw))) {
	case IntentRemix:
		return IntentRemix
	default:
		return IntentNewGeneration
	}
}

// ExpandSystemPrompt instructs the model to act as a visual designer.
const ExpandSystemPrompt = "You are a visual designer assistant. Expand the user's prompt into a detailed, " +
	"vivid visual description with rich textures, moods, lighting, and composition that can guide image generation."

// IntentPrompt builds the single-word classification prompt for a user
// request.
func IntentPrompt(userInput string) string {
	return fmt.Sprintf(`You are an assistant that classifies user requests about image generation into exactly one of two categories:

- "new_generation": The user wants a completely new and original image prompt, with no reference or relation to previous images.

- "remix": The user wants a variation, modification, or remix based on a previous or existing image prompt. This includes explicit or implicit references to past images, such as mentioning "previous," "earlier," "another version," "like before," or any hint that connects the request to prior creations.

Based ONLY on the user's input below, reply with exactly one word: "new_generation" or "remix".
Do NOT provide any explanations or additional text.

User input: %q`, userInput)
}
