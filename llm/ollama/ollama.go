// Package ollama implements llm.Client against a local Ollama server via
// langchaingo.
package ollama

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	lcollama "github.com/tmc/langchaingo/llms/ollama"

	"github.com/openmuse/muse/llm"
)

// DefaultModel is the chat model used for intent detection and prompt
// expansion.
const DefaultModel = "llama3"

// Client wraps a langchaingo Ollama model.
type Client struct {
	model     *lcollama.LLM
	modelName string
}

var _ llm.Client = (*Client)(nil)

// New creates a client for the given server URL and model. Empty values
// fall back to the Ollama defaults.
func New(serverURL, model string) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}
	opts := []lcollama.Option{lcollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, lcollama.WithServerURL(serverURL))
	}
	m, err := lcollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama model: %w", err)
	}
	return &Client{model: m, modelName: model}, nil
}

// DetectIntent classifies the user prompt at temperature zero so the
// single-word reply stays stable.
func (c *Client) DetectIntent(ctx context.Context, userPrompt string) (llm.Intent, error) {
	reply, err := llms.GenerateFromSinglePrompt(ctx, c.model, llm.IntentPrompt(userPrompt),
		llms.WithTemperature(0))
	if err != nil {
		return llm.IntentNewGeneration, fmt.Errorf("detect intent: %w", err)
	}
	return llm.ParseIntent(reply), nil
}

// ExpandPrompt enriches the prompt into a detailed visual description.
func (c *Client) ExpandPrompt(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, llm.ExpandSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	resp, err := c.model.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("expand prompt: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("expand prompt: no response choices")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

// Model returns the chat model name.
func (c *Client) Model() string {
	return c.modelName
}
