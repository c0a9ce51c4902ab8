// Package textimage calls the text-to-image generation backend. The
// backend is opaque to the rest of the system: an expanded prompt goes
// in, raw image bytes come out.
package textimage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Generator produces image bytes from an expanded prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Client is the HTTP Generator implementation.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ Generator = (*Client)(nil)

// NewClient creates a client for the backend at baseURL. Image synthesis
// is slow; the default timeout is generous.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

// Generate posts the prompt and returns the response body verbatim.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call generation backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generation backend returned %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image bytes: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("generation backend returned an empty body")
	}
	return data, nil
}
