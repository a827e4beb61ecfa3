package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonghaoch/storefront-relay-go/internal/api"
)

func testRequest() MessageRequest {
	return MessageRequest{
		Model:       json.RawMessage(`"claude-3-5-sonnet-20241022"`),
		MaxTokens:   json.RawMessage(`800`),
		Temperature: json.RawMessage(`0.7`),
		System:      json.RawMessage(`"You are a helpful assistant."`),
		Messages:    json.RawMessage(`[{"role":"user","content":"hi"}]`),
	}
}

func TestSendMessage(t *testing.T) {
	var gotBody string
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		gotHeaders = r.Header.Clone()
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","content":[{"type":"text","text":"hello"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test", "")
	out, err := c.SendMessage(context.Background(), testRequest())
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":"msg_1","content":[{"type":"text","text":"hello"}]}`, string(out))
	assert.Equal(t, "sk-test", gotHeaders.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", gotHeaders.Get("anthropic-version"))
	assert.Equal(t, "application/json", gotHeaders.Get("content-type"))
	assert.Equal(t,
		`{"model":"claude-3-5-sonnet-20241022","max_tokens":800,"temperature":0.7,"system":"You are a helpful assistant.","messages":[{"role":"user","content":"hi"}]}`,
		gotBody)
}

func TestSendMessageUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "sk-test", "").SendMessage(context.Background(), testRequest())

	var httpErr *api.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
	assert.Equal(t, `{"type":"error","error":{"type":"rate_limit_error"}}`, httpErr.Body)
}

func TestSendMessageInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway</html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "sk-test", "").SendMessage(context.Background(), testRequest())
	require.Error(t, err)

	var httpErr *api.HTTPError
	assert.False(t, errors.As(err, &httpErr))
}

func TestConfigured(t *testing.T) {
	assert.True(t, NewClient("", "sk", "").Configured())
	assert.False(t, NewClient("", "", "").Configured())

	var c *Client
	assert.False(t, c.Configured())
}
