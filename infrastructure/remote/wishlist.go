package remote

import (
	"context"
	"net/http"

	"storefront/domain/user"
)

func (c *Client) GetWishlist(ctx context.Context) ([]user.WishlistEntry, error) {
	p, err := c.send(ctx, call{op: "get wishlist", method: http.MethodGet, path: "/wishlist", auth: true, idempotent: true})
	if err != nil {
		return nil, err
	}
	w, dropped := user.WishlistFromRecords(p.records("items", "wishlist"))
	c.logDropped("get wishlist", dropped)
	return w.Entries(), nil
}

// ToggleWishlistItem flips productID and returns what happened plus the
// re-fetched wishlist.
func (c *Client) ToggleWishlistItem(ctx context.Context, productID string) (user.WishlistAction, []user.WishlistEntry, error) {
	body := map[string]any{"productId": productID}
	p, err := c.send(ctx, call{op: "toggle wishlist", method: http.MethodPost, path: "/wishlist/toggle", body: body, auth: true})
	if err != nil {
		return "", nil, err
	}
	entries, err := c.GetWishlist(ctx)
	if err != nil {
		return "", nil, err
	}

	action := user.WishlistRemoved
	if rec, ok := p.object(); ok && rec.String("action") != "" {
		action = user.WishlistAction(rec.String("action"))
	} else {
		for _, e := range entries {
			if e.ProductID == productID {
				action = user.WishlistAdded
			}
		}
	}
	return action, entries, nil
}
