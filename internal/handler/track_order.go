package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/tonghaoch/storefront-relay-go/internal/api"
	"github.com/tonghaoch/storefront-relay-go/internal/origin"
	"github.com/tonghaoch/storefront-relay-go/internal/shopify"
)

type orderFinder interface {
	Configured() bool
	FindOrder(ctx context.Context, name, email string) (*shopify.Order, error)
}

// TrackOrder looks up a single order by order number and email.
type TrackOrder struct {
	origins origin.AllowList
	store   orderFinder
}

// NewTrackOrder creates the order lookup handler.
func NewTrackOrder(origins origin.AllowList, store orderFinder) *TrackOrder {
	return &TrackOrder{origins: origins, store: store}
}

type trackOrderRequest struct {
	OrderNumber json.RawMessage `json:"orderNumber"`
	Email       json.RawMessage `json:"email"`
}

// OrderResult is the projection of an order returned to the storefront.
type OrderResult struct {
	OrderID           *int64           `json:"order_id"`
	OrderName         string           `json:"order_name"`
	OrderNameWithHash *string          `json:"order_name_with_hash"`
	FulfillmentStatus *string          `json:"fulfillment_status"`
	OrderStatusURL    *string          `json:"order_status_url"`
	TrackingURL       *string          `json:"tracking_url"`
	FinancialStatus   *string          `json:"financial_status"`
	ProcessedAt       *string          `json:"processed_at"`
	Email             *string          `json:"email"`
	ShippingAddress   json.RawMessage  `json:"shipping_address"`
	LineItems         []LineItemResult `json:"line_items"`
}

// LineItemResult is the simplified line item in an OrderResult. Title,
// Quantity and SKU carry the upstream values unchanged and are left out when
// the upstream omits them.
type LineItemResult struct {
	Title             json.RawMessage `json:"title,omitempty"`
	Quantity          json.RawMessage `json:"quantity,omitempty"`
	SKU               json.RawMessage `json:"sku,omitempty"`
	FulfillmentStatus *string         `json:"fulfillment_status"`
}

func (t *TrackOrder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	o := origin.FromRequest(r)
	allowed := t.origins.Allows(o)

	if r.Method == http.MethodOptions {
		if allowed {
			origin.SetCORS(w.Header(), o)
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if !allowed {
		slog.Warn("order lookup from disallowed origin", "origin", o)
		api.WriteError(w, api.Forbidden("Forbidden origin", o))
		return
	}

	origin.SetCORS(w.Header(), o)

	if r.Method != http.MethodPost {
		api.WriteError(w, api.MethodNotAllowed())
		return
	}

	if !t.store.Configured() {
		api.WriteError(w, api.Misconfigured("Missing Shopify env vars"))
		return
	}

	name, email, ok := parseTrackOrderRequest(r.Body)
	if !ok {
		api.WriteError(w, api.BadRequest("Missing order number or email"))
		return
	}

	order, err := t.store.FindOrder(r.Context(), name, email)
	if err != nil {
		slog.Error("order lookup failed", "error", err)
		api.WriteError(w, api.Internal(err))
		return
	}
	if order == nil {
		slog.Info("order not found", "order", name)
		api.WriteError(w, api.NotFound("Order not found"))
		return
	}

	api.WriteJSON(w, http.StatusOK, projectOrder(order))
}

// parseTrackOrderRequest returns the normalized order name and trimmed email.
func parseTrackOrderRequest(body io.Reader) (name, email string, ok bool) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", "", false
	}
	var in trackOrderRequest
	if err := json.Unmarshal(raw, &in); err != nil {
		return "", "", false
	}

	number, ok := orderNumberString(in.OrderNumber)
	if !ok {
		return "", "", false
	}
	var e string
	if err := json.Unmarshal(in.Email, &e); err != nil {
		return "", "", false
	}
	e = strings.TrimSpace(e)
	if e == "" {
		return "", "", false
	}
	return shopify.NormalizeOrderName(number), e, true
}

// orderNumberString accepts a non-empty string or a non-zero number.
func orderNumberString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", false
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), i != 0
	}
	f, err := n.Float64()
	if err != nil || f == 0 {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}

func projectOrder(order *shopify.Order) OrderResult {
	res := OrderResult{
		OrderName:         strings.TrimPrefix(order.Name, "#"),
		OrderNameWithHash: nonEmpty(order.Name),
		FulfillmentStatus: nonEmpty(order.FulfillmentStatus),
		OrderStatusURL:    nonEmpty(order.OrderStatusURL),
		TrackingURL:       trackingURL(order.Fulfillments),
		FinancialStatus:   nonEmpty(order.FinancialStatus),
		ProcessedAt:       nonEmpty(order.ProcessedAt),
		Email:             nonEmpty(order.Email),
		ShippingAddress:   json.RawMessage("null"),
		LineItems:         make([]LineItemResult, 0, len(order.LineItems)),
	}
	if order.ID != 0 {
		id := order.ID
		res.OrderID = &id
	}
	if res.ProcessedAt == nil {
		res.ProcessedAt = nonEmpty(order.CreatedAt)
	}
	if present(order.ShippingAddress) {
		res.ShippingAddress = order.ShippingAddress
	}
	for _, li := range order.LineItems {
		res.LineItems = append(res.LineItems, LineItemResult{
			Title:             li.Title,
			Quantity:          li.Quantity,
			SKU:               li.SKU,
			FulfillmentStatus: nonEmpty(li.FulfillmentStatus),
		})
	}
	return res
}

// trackingURL prefers the first fulfillment's tracking_url, then the first
// entry of its tracking_urls.
func trackingURL(fulfillments []shopify.Fulfillment) *string {
	if len(fulfillments) == 0 {
		return nil
	}
	f := fulfillments[0]
	if f.TrackingURL != "" {
		return &f.TrackingURL
	}
	if len(f.TrackingURLs) > 0 {
		return nonEmpty(f.TrackingURLs[0])
	}
	return nil
}

// present reports whether raw holds a value other than null, false, 0 or "".
func present(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
