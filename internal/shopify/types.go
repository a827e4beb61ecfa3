package shopify

import "encoding/json"

// Order is the subset of the Admin REST order resource the lookup reads.
// Decoding never fails on a single record: fields with an unexpected type
// decode as their zero value.
type Order struct {
	ID                int64
	Name              string
	Email             string
	FulfillmentStatus string
	FinancialStatus   string
	OrderStatusURL    string
	ProcessedAt       string
	CreatedAt         string
	ShippingAddress   json.RawMessage
	Fulfillments      []Fulfillment
	LineItems         []LineItem
}

// Fulfillment is a shipment of some or all of an order's line items.
type Fulfillment struct {
	TrackingURL  string
	TrackingURLs []string
}

// LineItem is one product line on an order. Title, Quantity and SKU keep the
// upstream JSON value as is and are nil when the field is absent.
type LineItem struct {
	Title             json.RawMessage
	Quantity          json.RawMessage
	SKU               json.RawMessage
	FulfillmentStatus string
}

type fields map[string]json.RawMessage

// objectFields returns the members of a JSON object, or nil for anything else.
func objectFields(data []byte) fields {
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}
	return f
}

func (f fields) str(key string) string {
	var s string
	if err := json.Unmarshal(f[key], &s); err != nil {
		return ""
	}
	return s
}

func (f fields) integer(key string) int64 {
	var n int64
	if err := json.Unmarshal(f[key], &n); err != nil {
		return 0
	}
	return n
}

// eachElement decodes every element of a JSON array with decode. Anything
// other than an array yields nil.
func eachElement[T any](raw json.RawMessage, decode func(fields) T) []T {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	out := make([]T, 0, len(elems))
	for _, e := range elems {
		out = append(out, decode(objectFields(e)))
	}
	return out
}

// stringElements returns the elements of a JSON array, with non-string
// entries as "".
func stringElements(raw json.RawMessage) []string {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	out := make([]string, len(elems))
	for i, e := range elems {
		json.Unmarshal(e, &out[i])
	}
	return out
}

func (o *Order) UnmarshalJSON(data []byte) error {
	f := objectFields(data)
	*o = Order{
		ID:                f.integer("id"),
		Name:              f.str("name"),
		Email:             f.str("email"),
		FulfillmentStatus: f.str("fulfillment_status"),
		FinancialStatus:   f.str("financial_status"),
		OrderStatusURL:    f.str("order_status_url"),
		ProcessedAt:       f.str("processed_at"),
		CreatedAt:         f.str("created_at"),
		ShippingAddress:   f["shipping_address"],
		Fulfillments:      eachElement(f["fulfillments"], decodeFulfillment),
		LineItems:         eachElement(f["line_items"], decodeLineItem),
	}
	return nil
}

func decodeFulfillment(f fields) Fulfillment {
	return Fulfillment{
		TrackingURL:  f.str("tracking_url"),
		TrackingURLs: stringElements(f["tracking_urls"]),
	}
}

func decodeLineItem(f fields) LineItem {
	return LineItem{
		Title:             f["title"],
		Quantity:          f["quantity"],
		SKU:               f["sku"],
		FulfillmentStatus: f.str("fulfillment_status"),
	}
}

// OrderList is the result of one orders.json call. When the body could not be
// decoded, Parsed is false, Orders is empty and Raw keeps the body text.
type OrderList struct {
	StatusCode int
	Orders     []Order
	Parsed     bool
	Raw        string
}

// OK reports whether the upstream answered with a 2xx status.
func (l OrderList) OK() bool {
	return l.StatusCode >= 200 && l.StatusCode <= 299
}

// Empty reports whether the result holds no orders.
func (l OrderList) Empty() bool {
	return len(l.Orders) == 0
}

type ordersEnvelope struct {
	Orders json.RawMessage `json:"orders"`
}

// parseOrders decodes an orders.json body without failing. An empty body
// parses as a result with no orders, as does an "orders" member that is not
// an array.
func parseOrders(status int, body []byte) OrderList {
	list := OrderList{StatusCode: status}
	if len(body) == 0 {
		list.Parsed = true
		return list
	}

	var env ordersEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		list.Raw = string(body)
		return list
	}
	list.Parsed = true
	if err := json.Unmarshal(env.Orders, &list.Orders); err != nil {
		list.Orders = nil
	}
	return list
}
