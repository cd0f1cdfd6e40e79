// Package openrouter is a minimal chat-completions client for the OpenRouter
// API. It keeps the raw usage envelope (cost and token counts) and reports
// every call as an Outcome instead of an error.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultEndpoint is the OpenRouter chat completions URL.
const DefaultEndpoint = "https://openrouter.ai/api/v1/chat/completions"

// Request describes a single-message chat completion.
type Request struct {
	Model       string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Client sends chat completion requests.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// New creates a Client. A zero timeout leaves the HTTP client unbounded and
// relies on the caller's context.
func New(endpoint, apiKey string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type usageOption struct {
	Include bool `json:"include"`
}

type requestBody struct {
	Model       string      `json:"model"`
	Temperature float64     `json:"temperature"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
	Messages    []message   `json:"messages"`
	Usage       usageOption `json:"usage"`
}

// Complete performs the request. Transport and decoding failures become
// TransportError; non-2xx responses become HTTPError.
func (c *Client) Complete(ctx context.Context, req Request) Outcome {
	body, err := json.Marshal(requestBody{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages:    []message{{Role: "user", Content: req.Prompt}},
		Usage:       usageOption{Include: true},
	})
	if err != nil {
		return TransportError{Cause: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return TransportError{Cause: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return TransportError{Cause: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return TransportError{Cause: fmt.Errorf("read response: %w", err)}
	}

	var payload map[string]any
	decodeErr := json.Unmarshal(raw, &payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return HTTPError{Status: resp.StatusCode, Usage: DeriveUsage(payload)}
	}

	if decodeErr != nil {
		return TransportError{Cause: fmt.Errorf("decode response: %w", decodeErr)}
	}

	return Success{
		Usage:   DeriveUsage(payload),
		Content: extractContent(payload),
	}
}

// extractContent reads choices[0].message.content, accepting either a string
// or an array of {text} parts.
func extractContent(payload map[string]any) string {
	choices, _ := payload["choices"].([]any)
	if len(choices) == 0 {
		return ""
	}
	choice, _ := choices[0].(map[string]any)
	msg, _ := choice["message"].(map[string]any)

	switch content := msg["content"].(type) {
	case string:
		return content
	case []any:
		var b bytes.Buffer
		for _, part := range content {
			if p, ok := part.(map[string]any); ok {
				if text, ok := p["text"].(string); ok {
					b.WriteString(text)
				}
			}
		}
		return b.String()
	}
	return ""
}
