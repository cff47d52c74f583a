package remote

import (
	"context"
	"net/http"
	"net/url"

	"storefront/domain/cart"
)

// GetCart returns the authoritative cart. Malformed lines are dropped and logged.
func (c *Client) GetCart(ctx context.Context) ([]cart.Line, error) {
	p, err := c.send(ctx, call{op: "get cart", method: http.MethodGet, path: "/cart", auth: true, idempotent: true})
	if err != nil {
		return nil, err
	}
	lines, dropped := cart.LinesFromRecords(p.records("items", "cart", "lines"))
	c.logDropped("get cart", dropped)
	return lines, nil
}

// Cart mutations never merge locally: after the write succeeds the cart is
// fetched again and that answer is returned.

func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) ([]cart.Line, error) {
	body := map[string]any{"productId": productID, "quantity": quantity}
	if _, err := c.send(ctx, call{op: "add to cart", method: http.MethodPost, path: "/cart/items", body: body, auth: true}); err != nil {
		return nil, err
	}
	return c.GetCart(ctx)
}

// UpdateCartItem sets a quantity; the backend removes the line when quantity <= 0.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) ([]cart.Line, error) {
	body := map[string]any{"quantity": quantity}
	if _, err := c.send(ctx, call{op: "update cart item", method: http.MethodPut, path: "/cart/items/" + url.PathEscape(productID), body: body, auth: true}); err != nil {
		return nil, err
	}
	return c.GetCart(ctx)
}

func (c *Client) RemoveFromCart(ctx context.Context, productID string) ([]cart.Line, error) {
	if _, err := c.send(ctx, call{op: "remove from cart", method: http.MethodDelete, path: "/cart/items/" + url.PathEscape(productID), auth: true}); err != nil {
		return nil, err
	}
	return c.GetCart(ctx)
}

func (c *Client) ClearCart(ctx context.Context) ([]cart.Line, error) {
	if _, err := c.send(ctx, call{op: "clear cart", method: http.MethodDelete, path: "/cart", auth: true}); err != nil {
		return nil, err
	}
	return c.GetCart(ctx)
}
