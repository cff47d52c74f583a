package remote

import (
	"context"
	"net/http"
	"net/url"

	"storefront/domain/order"
	"storefront/domain/shared"
)

// SubmitOrder places an order. Any non-2xx answer becomes an
// OrderSubmissionError carrying the server's message; transport failures are
// NetworkErrors. Submissions are never retried.
func (c *Client) SubmitOrder(ctx context.Context, userID string, req order.Request) (order.Receipt, error) {
	if err := req.Validate(); err != nil {
		return order.Receipt{}, err
	}
	body := struct {
		UserID string `json:"userId"`
		order.Request
	}{UserID: userID, Request: req}

	p, err := c.send(ctx, call{op: "submit order", method: http.MethodPost, path: "/orders", body: body, auth: true})
	if err != nil {
		if se, ok := asStatus(err); ok {
			return order.Receipt{}, shared.NewOrderSubmissionError(se.Message, se)
		}
		return order.Receipt{}, err
	}
	rec, ok := p.object("order")
	if !ok {
		return order.Receipt{}, shared.NewOrderSubmissionError("unexpected order response", nil)
	}
	receipt, err := order.ReceiptFromRecord(rec)
	if err != nil {
		return order.Receipt{}, shared.NewOrderSubmissionError("unexpected order response", err)
	}
	if !rec.Has("total", "totalAmount", "total_amount") {
		receipt.Total = req.Total
	}
	return receipt, nil
}

// GetOrderHistory returns the user's orders, most recent first as the backend
// sends them. Flat rows are folded into orders by order number.
func (c *Client) GetOrderHistory(ctx context.Context, userID string) ([]order.Order, error) {
	p, err := c.send(ctx, call{
		op:         "order history",
		method:     http.MethodGet,
		path:       "/users/" + url.PathEscape(userID) + "/orders",
		auth:       true,
		idempotent: true,
	})
	if err != nil {
		return nil, err
	}
	orders, dropped := order.FromRecords(p.records("orders", "rows"))
	c.logDropped("order history", dropped)
	return orders, nil
}

// GetOrder fetches one order, aggregated or as rows.
func (c *Client) GetOrder(ctx context.Context, id string) (order.Order, error) {
	p, err := c.send(ctx, call{op: "get order", method: http.MethodGet, path: "/orders/" + url.PathEscape(id), auth: true, idempotent: true})
	if err != nil {
		return order.Order{}, err
	}
	var orders []order.Order
	if p.data().kind == shapeArray {
		orders, _ = order.FromRecords(p.records())
	} else if rec, ok := p.object("order"); ok {
		orders, _ = order.FromRecords([]shared.Record{rec})
	}
	if len(orders) == 0 {
		return order.Order{}, shared.NewNotFoundError("order")
	}
	return orders[0], nil
}
