package shopify

import (
	"context"
	"log/slog"
	"strings"
)

// NormalizeOrderName prefixes number with '#' unless it already has one.
func NormalizeOrderName(number string) string {
	if strings.HasPrefix(number, "#") {
		return number
	}
	return "#" + number
}

func stripHash(name string) string {
	return strings.TrimPrefix(name, "#")
}

// FindOrder looks up an order by its normalized name and email.
//
// The exact name+email query runs first. If it succeeds with no orders, all
// orders for the email are listed and scanned for a name equal to the
// requested one once the leading '#' is dropped from both. It returns nil
// when neither step finds an order.
func (c *Client) FindOrder(ctx context.Context, name, email string) (*Order, error) {
	list, err := c.ListOrders(ctx, OrderFilter{Name: name, Email: email, Status: "any"})
	if err != nil {
		return nil, err
	}

	if list.OK() && list.Empty() {
		slog.Debug("exact order query empty, scanning orders by email")
		fallback, err := c.ListOrders(ctx, OrderFilter{Email: email, Status: "any"})
		if err != nil {
			return nil, err
		}
		if fallback.OK() && !fallback.Empty() {
			if match := matchOrderName(fallback.Orders, name); match != nil {
				list = OrderList{StatusCode: fallback.StatusCode, Parsed: true, Orders: []Order{*match}}
			}
		}
	}

	if list.Empty() {
		return nil, nil
	}
	return &list.Orders[0], nil
}

// matchOrderName returns the first order whose name equals name, ignoring a
// leading '#' on either side.
func matchOrderName(orders []Order, name string) *Order {
	want := stripHash(name)
	for i := range orders {
		if stripHash(orders[i].Name) == want {
			return &orders[i]
		}
	}
	return nil
}
