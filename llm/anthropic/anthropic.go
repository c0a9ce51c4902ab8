// Package anthropic implements llm.Client on the Anthropic Messages API,
// for deployments that prefer a hosted model over local Ollama.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/openmuse/muse/llm"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = anthropic.Model("claude-3-5-sonnet-20241022")

// Options configures the Anthropic adapter.
type Options struct {
	Model     anthropic.Model
	MaxTokens int64
	APIKey    string
}

// Client wraps the Anthropic Messages API behind llm.Client.
type Client struct {
	client *anthropic.Client
	opts   Options
}

var _ llm.Client = (*Client)(nil)

// New creates an Anthropic-backed client. Without an explicit APIKey the
// SDK reads ANTHROPIC_API_KEY from the environment.
func New(optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:     DefaultModel,
		MaxTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Client{client: &client, opts: opts}
}

// DetectIntent classifies the user prompt at temperature zero.
func (c *Client) DetectIntent(ctx context.Context, userPrompt string) (llm.Intent, error) {
	reply, err := c.complete(ctx, "", llm.IntentPrompt(userPrompt), 0)
	if err != nil {
		return llm.IntentNewGeneration, fmt.Errorf("detect intent: %w", err)
	}
	return llm.ParseIntent(reply), nil
}

// ExpandPrompt enriches the prompt into a detailed visual description.
func (c *Client) ExpandPrompt(ctx context.Context, prompt string) (string, error) {
	expanded, err := c.complete(ctx, llm.ExpandSystemPrompt, prompt, 0.7)
	if err != nil {
		return "", fmt.Errorf("expand prompt: %w", err)
	}
	return expanded, nil
}

func (c *Client) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     c.opts.Model,
		MaxTokens: c.opts.MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
		Temperature: anthropic.Float(temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
