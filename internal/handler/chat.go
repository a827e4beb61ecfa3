package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/tonghaoch/storefront-relay-go/internal/anthropic"
	"github.com/tonghaoch/storefront-relay-go/internal/api"
	"github.com/tonghaoch/storefront-relay-go/internal/origin"
)

// Defaults applied to chat requests that omit the optional fields.
const (
	DefaultSystemPrompt = "You are a helpful assistant."
	DefaultModel        = "claude-3-5-sonnet-20241022"
	DefaultMaxTokens    = 800
	DefaultTemperature  = 0.7
)

type messageSender interface {
	Configured() bool
	SendMessage(ctx context.Context, req anthropic.MessageRequest) (json.RawMessage, error)
}

// Chat relays a conversation to the Anthropic Messages API.
type Chat struct {
	origins origin.AllowList
	client  messageSender
}

// NewChat creates the chat relay handler.
func NewChat(origins origin.AllowList, client messageSender) *Chat {
	return &Chat{origins: origins, client: client}
}

// chatRequest is the inbound body. Optional fields stay raw so they are
// forwarded exactly as sent.
type chatRequest struct {
	Messages    json.RawMessage `json:"messages"`
	System      json.RawMessage `json:"system"`
	Model       json.RawMessage `json:"model"`
	MaxTokens   json.RawMessage `json:"max_tokens"`
	Temperature json.RawMessage `json:"temperature"`
}

func (c *Chat) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	o := origin.FromRequest(r)
	allowed := c.origins.Allows(o)

	if r.Method == http.MethodOptions {
		if allowed {
			origin.SetCORS(w.Header(), o)
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	if !allowed {
		slog.Warn("chat request from disallowed origin", "origin", o)
		api.WriteError(w, api.Forbidden("Forbidden: bad origin", o))
		return
	}

	origin.SetCORS(w.Header(), o)

	if r.Method != http.MethodPost {
		api.WriteError(w, api.MethodNotAllowed())
		return
	}

	if !c.client.Configured() {
		api.WriteError(w, api.Misconfigured("Missing ANTHROPIC_API_KEY"))
		return
	}

	payload, err := buildMessageRequest(r.Body)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	slog.Info("chat relay", "model", string(payload.Model), "origin", o)

	data, err := c.client.SendMessage(r.Context(), payload)
	if err != nil {
		var httpErr *api.HTTPError
		if errors.As(err, &httpErr) {
			slog.Warn("anthropic returned error", "status", httpErr.StatusCode)
			api.WriteError(w, api.Upstream("Anthropic error", httpErr.StatusCode, httpErr.Body))
			return
		}
		slog.Error("chat relay failed", "error", err)
		api.WriteError(w, api.Internal(nil))
		return
	}

	api.WriteRawJSON(w, http.StatusOK, data)
}

// buildMessageRequest decodes the inbound body and fills in defaults. A body
// that is not a JSON object is treated as empty.
func buildMessageRequest(body io.Reader) (anthropic.MessageRequest, error) {
	var in chatRequest
	if raw, err := io.ReadAll(body); err == nil {
		if err := json.Unmarshal(raw, &in); err != nil {
			slog.Debug("chat body is not a JSON object", "error", err)
			in = chatRequest{}
		}
	}

	if !isNonEmptyArray(in.Messages) {
		return anthropic.MessageRequest{}, api.BadRequest("messages array is required")
	}

	return anthropic.MessageRequest{
		Model:       orDefault(in.Model, DefaultModel),
		MaxTokens:   orDefault(in.MaxTokens, DefaultMaxTokens),
		Temperature: orDefault(in.Temperature, DefaultTemperature),
		System:      orDefault(in.System, DefaultSystemPrompt),
		Messages:    in.Messages,
	}, nil
}

func isNonEmptyArray(raw json.RawMessage) bool {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return false
	}
	return len(items) > 0
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func orDefault(raw json.RawMessage, def any) json.RawMessage {
	if !isAbsent(raw) {
		return raw
	}
	b, _ := json.Marshal(def)
	return b
}
