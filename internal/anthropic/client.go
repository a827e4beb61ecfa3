// Package anthropic is a minimal client for the Anthropic Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tonghaoch/storefront-relay-go/internal/api"
	"github.com/tonghaoch/storefront-relay-go/internal/metrics"
)

// MessageRequest is the payload posted to /v1/messages. Fields are kept raw so
// caller-supplied values reach the upstream unchanged.
type MessageRequest struct {
	Model       json.RawMessage `json:"model"`
	MaxTokens   json.RawMessage `json:"max_tokens"`
	Temperature json.RawMessage `json:"temperature"`
	System      json.RawMessage `json:"system"`
	Messages    json.RawMessage `json:"messages"`
}

// Client sends requests to the Messages API.
type Client struct {
	BaseURL    string
	APIKey     string
	Version    string
	HTTPClient *http.Client
}

// NewClient creates a client. An empty baseURL or version falls back to the defaults.
func NewClient(baseURL, apiKey, version string) *Client {
	if baseURL == "" {
		baseURL = api.DefaultAnthropicBaseURL
	}
	if version == "" {
		version = api.DefaultAnthropicVersion
	}
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Version:    version,
		HTTPClient: http.DefaultClient,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.APIKey != ""
}

// SendMessage posts req and returns the upstream JSON body. A non-2xx
// response is returned as *api.HTTPError carrying the raw body.
func (c *Client) SendMessage(ctx context.Context, req MessageRequest) (json.RawMessage, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding messages request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating messages request: %w", err)
	}
	httpReq.Header = api.BuildAnthropicHeaders(c.APIKey, c.Version)

	start := time.Now()
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		metrics.ObserveUpstream("anthropic", 0, time.Since(start))
		return nil, fmt.Errorf("sending messages request: %w", err)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream("anthropic", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, api.NewHTTPError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading messages response: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("decoding messages response: invalid JSON (%d bytes)", len(data))
	}
	return data, nil
}
