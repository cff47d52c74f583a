package storefront

import (
	"context"

	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/shared"
	"storefront/domain/user"
)

// AddToCart adds quantity of productID. The authoritative cart returned by
// the store replaces the session cart in full.
func (c *Controller) AddToCart(ctx context.Context, productID string, quantity int) error {
	return c.mutateCart(ctx, "add items to your cart", func(id identity) ([]cart.Line, error) {
		if id.offline {
			p, err := c.requireProduct(productID)
			if err != nil {
				return nil, err
			}
			return c.local.AddItem(id.user.ID, p, quantity)
		}
		if quantity <= 0 {
			return nil, shared.NewValidationError("cart", "quantity", "quantity must be at least 1")
		}
		return c.backend.AddToCart(ctx, productID, quantity)
	})
}

func (c *Controller) RemoveFromCart(ctx context.Context, productID string) error {
	return c.mutateCart(ctx, "change your cart", func(id identity) ([]cart.Line, error) {
		if id.offline {
			return c.local.RemoveItem(id.user.ID, productID)
		}
		return c.backend.RemoveFromCart(ctx, productID)
	})
}

// ChangeQuantity sets a line's quantity; zero or less removes the line.
func (c *Controller) ChangeQuantity(ctx context.Context, productID string, quantity int) error {
	return c.mutateCart(ctx, "change your cart", func(id identity) ([]cart.Line, error) {
		switch {
		case id.offline:
			return c.local.UpdateItem(id.user.ID, productID, quantity)
		case quantity <= 0:
			return c.backend.RemoveFromCart(ctx, productID)
		default:
			return c.backend.UpdateCartItem(ctx, productID, quantity)
		}
	})
}

func (c *Controller) ClearCart(ctx context.Context) error {
	return c.mutateCart(ctx, "change your cart", func(id identity) ([]cart.Line, error) {
		if id.offline {
			if err := c.local.Clear(id.user.ID); err != nil {
				return nil, err
			}
			return []cart.Line{}, nil
		}
		return c.backend.ClearCart(ctx)
	})
}

// mutateCart runs one cart mutation under cartMu. On failure nothing is applied.
func (c *Controller) mutateCart(ctx context.Context, action string, fn func(id identity) ([]cart.Line, error)) error {
	id, err := c.requireUser(action)
	if err != nil {
		return err
	}

	c.cartMu.Lock()
	defer c.cartMu.Unlock()

	lines, err := fn(id)
	if err != nil {
		return err
	}
	lines = nonNilLines(lines)
	if c.apply(id.generation, resourceCart, func(s *Session) { s.Cart = lines }) {
		c.publish(newCartChangedEvent(id.user.ID, lines))
	}
	return nil
}

func nonNilLines(lines []cart.Line) []cart.Line {
	if lines == nil {
		return []cart.Line{}
	}
	return lines
}

// ToggleWishlist adds productID to the wishlist or removes it.
func (c *Controller) ToggleWishlist(ctx context.Context, productID string) (user.WishlistAction, error) {
	id, err := c.requireUser("save items to your wishlist")
	if err != nil {
		return "", err
	}

	var (
		action  user.WishlistAction
		entries []user.WishlistEntry
	)
	if id.offline {
		p, perr := c.requireProduct(productID)
		if perr != nil {
			return "", perr
		}
		action, entries, err = c.local.ToggleWishlist(id.user.ID, p)
	} else {
		action, entries, err = c.backend.ToggleWishlistItem(ctx, productID)
	}
	if err != nil {
		return "", err
	}

	if c.apply(id.generation, resourceWishlist, func(s *Session) { s.Wishlist = entries }) {
		c.publish(WishlistChangedEvent{
			BaseEvent: shared.NewBaseEvent(EventWishlistChanged, id.user.ID),
			ProductID: productID,
			Action:    action,
			Size:      len(entries),
		})
	}
	return action, nil
}

func (c *Controller) requireProduct(id string) (catalog.Product, error) {
	p, ok := c.product(id)
	if !ok {
		return catalog.Product{}, shared.NewNotFoundError("product")
	}
	return p, nil
}
