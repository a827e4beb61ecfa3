// Package shopify reads orders from the Shopify Admin REST API.
package shopify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tonghaoch/storefront-relay-go/internal/api"
	"github.com/tonghaoch/storefront-relay-go/internal/metrics"
)

// Client calls the orders endpoint of one store.
type Client struct {
	StoreDomain string
	BaseURL     string
	AccessToken string
	APIVersion  string
	HTTPClient  *http.Client
}

// NewClient creates a client for storeDomain. baseURL overrides the
// https://<storeDomain> origin when set but does not stand in for the domain.
func NewClient(storeDomain, accessToken, apiVersion, baseURL string) *Client {
	if baseURL == "" && storeDomain != "" {
		baseURL = "https://" + storeDomain
	}
	if apiVersion == "" {
		apiVersion = api.DefaultShopifyVersion
	}
	return &Client{
		StoreDomain: storeDomain,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		AccessToken: accessToken,
		APIVersion:  apiVersion,
		HTTPClient:  http.DefaultClient,
	}
}

// Configured reports whether both the store domain and the token are set.
func (c *Client) Configured() bool {
	return c != nil && c.StoreDomain != "" && c.AccessToken != ""
}

// OrderFilter selects orders. Empty fields are left out of the query.
type OrderFilter struct {
	Name   string
	Email  string
	Status string
}

// query encodes the filter, keeping name, email, status order.
func (f OrderFilter) query() string {
	var parts []string
	if f.Name != "" {
		parts = append(parts, "name="+url.QueryEscape(f.Name))
	}
	if f.Email != "" {
		parts = append(parts, "email="+url.QueryEscape(f.Email))
	}
	if f.Status != "" {
		parts = append(parts, "status="+url.QueryEscape(f.Status))
	}
	return strings.Join(parts, "&")
}

// ListOrders fetches orders.json for filter. Only transport failures are
// returned as errors; upstream status and undecodable bodies are reported
// through the OrderList.
func (c *Client) ListOrders(ctx context.Context, filter OrderFilter) (OrderList, error) {
	u := fmt.Sprintf("%s/admin/api/%s/orders.json?%s", c.BaseURL, c.APIVersion, filter.query())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return OrderList{}, fmt.Errorf("creating orders request: %w", err)
	}
	req.Header = api.BuildShopifyHeaders(c.AccessToken)

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream("shopify", 0, time.Since(start))
		return OrderList{}, fmt.Errorf("fetching orders: %w", err)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream("shopify", resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return OrderList{}, fmt.Errorf("reading orders response: %w", err)
	}

	list := parseOrders(resp.StatusCode, body)
	if !list.Parsed {
		slog.Warn("orders response is not JSON", "status", resp.StatusCode, "bytes", len(body))
	} else if !list.OK() {
		slog.Warn("orders request failed", "status", resp.StatusCode)
	}
	return list, nil
}
