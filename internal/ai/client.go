// Package ai wraps the Gemini API for the product and task assistant
// features. Everything degrades cleanly when no API key is configured.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	defaultModel   = "gemini-2.0-flash"
	requestTimeout = 10 * time.Second
)

// ErrUnavailable means no API key is configured or the model returned
// nothing usable.
var ErrUnavailable = errors.New("ai unavailable")

// Client is a thin wrapper over the Gemini SDK. The zero value is an
// unconfigured client whose Generate always fails with ErrUnavailable.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient builds a Gemini client. An empty API key yields a disabled
// client, not an error, so the rest of the app can run without AI.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return &Client{}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{client: client, model: defaultModel}, nil
}

// Configured reports whether requests will actually reach the API.
func (c *Client) Configured() bool {
	return c != nil && c.client != nil
}

// Generate runs a single prompt and returns the raw text response. Each call
// is bounded by a 10 second timeout.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrUnavailable
	}
	return text, nil
}
