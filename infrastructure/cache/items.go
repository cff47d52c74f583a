package cache

import (
	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/domain/user"

	"go.uber.org/zap"
)

// records reads a JSON array as loose records so each element can be
// validated on its own. A key that does not decode as an array is reset to
// an empty list.
func (s *Store) records(key string) []shared.Record {
	var raw []map[string]any
	found, err := s.kv.Get(key, &raw)
	if err != nil {
		s.log.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		_ = s.save(key, []shared.Record{})
		return nil
	}
	if !found {
		return nil
	}
	out := make([]shared.Record, 0, len(raw))
	for _, m := range raw {
		out = append(out, shared.Record(m))
	}
	return out
}

func (s *Store) logDropped(key string, dropped []error) {
	for _, err := range dropped {
		s.log.Warn("dropping malformed cache entry", zap.String("key", key), zap.Error(err))
	}
}

// cart loads and validates; invalid entries are removed from storage.
func (s *Store) cart(userID string) *cart.Cart {
	key := cartKey(userID)
	lines, dropped := cart.LinesFromRecords(s.records(key))
	if len(dropped) > 0 {
		s.logDropped(key, dropped)
		_ = s.save(key, lines)
	}
	return cart.FromLines(lines)
}

// GetCart returns the cached cart of userID.
func (s *Store) GetCart(userID string) []cart.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart(userID).Lines()
}

func (s *Store) mutateCart(userID string, fn func(c *cart.Cart) error) ([]cart.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cart(userID)
	if err := fn(c); err != nil {
		return nil, err
	}
	lines := c.Lines()
	if err := s.save(cartKey(userID), lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Store) AddItem(userID string, p catalog.Product, quantity int) ([]cart.Line, error) {
	return s.mutateCart(userID, func(c *cart.Cart) error { return c.Add(p, quantity) })
}

// UpdateItem sets the quantity; quantity <= 0 removes the line.
func (s *Store) UpdateItem(userID, productID string, quantity int) ([]cart.Line, error) {
	return s.mutateCart(userID, func(c *cart.Cart) error { return c.SetQuantity(productID, quantity) })
}

func (s *Store) RemoveItem(userID, productID string) ([]cart.Line, error) {
	return s.mutateCart(userID, func(c *cart.Cart) error { c.Remove(productID); return nil })
}

// Clear empties the cart. Clearing an empty cart is a no-op.
func (s *Store) Clear(userID string) error {
	_, err := s.mutateCart(userID, func(c *cart.Cart) error { c.Clear(); return nil })
	return err
}

func (s *Store) wishlist(userID string) *user.Wishlist {
	key := wishlistKey(userID)
	w, dropped := user.WishlistFromRecords(s.records(key))
	if len(dropped) > 0 {
		s.logDropped(key, dropped)
		_ = s.save(key, w.Entries())
	}
	return w
}

func (s *Store) GetWishlist(userID string) []user.WishlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlist(userID).Entries()
}

// ToggleWishlist adds p when absent and removes it when present.
func (s *Store) ToggleWishlist(userID string, p catalog.Product) (user.WishlistAction, []user.WishlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.wishlist(userID)
	action := w.Toggle(p, s.now())
	entries := w.Entries()
	if err := s.save(wishlistKey(userID), entries); err != nil {
		return "", nil, err
	}
	return action, entries, nil
}

// Orders returns the cached history, most recent first.
func (s *Store) Orders(userID string) []order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ordersKey(userID)
	orders, dropped := order.FromRecords(s.records(key))
	s.logDropped(key, dropped)
	return orders
}

// AppendOrder prepends o to the history.
func (s *Store) AppendOrder(userID string, o order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ordersKey(userID)
	existing, _ := order.FromRecords(s.records(key))
	return s.save(key, append([]order.Order{o.Clone()}, existing...))
}

// ReplaceOrders mirrors the backend history into the cache.
func (s *Store) ReplaceOrders(userID string, orders []order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if orders == nil {
		orders = []order.Order{}
	}
	return s.save(ordersKey(userID), orders)
}
