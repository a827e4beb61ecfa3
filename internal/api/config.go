package api

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	DefaultAnthropicBaseURL = "https://api.anthropic.com"
	DefaultAnthropicVersion = "2023-06-01"
	DefaultShopifyVersion   = "2024-10"
)

// BuildAnthropicHeaders builds the headers for Anthropic Messages API requests.
func BuildAnthropicHeaders(apiKey, version string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("X-Api-Key", apiKey)
	h.Set("Anthropic-Version", version)
	h.Set("X-Request-Id", uuid.New().String())
	return h
}

// BuildShopifyHeaders builds the headers for Shopify Admin REST API requests.
func BuildShopifyHeaders(accessToken string) http.Header {
	h := http.Header{}
	h.Set("X-Shopify-Access-Token", accessToken)
	h.Set("Accept", "application/json")
	h.Set("Content-Type", "application/json")
	h.Set("X-Request-Id", uuid.New().String())
	return h
}
