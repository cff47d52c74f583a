package memory

import (
	"context"
	"sync"

	"storefront/domain/cart"
	"storefront/domain/user"
)

// CartRepository holds one cart per user.
type CartRepository struct {
	mu    sync.RWMutex
	carts map[string][]cart.Line
}

func NewCartRepository() *CartRepository {
	return &CartRepository{carts: make(map[string][]cart.Line)}
}

func (r *CartRepository) Load(ctx context.Context, userID string) (*cart.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cart.FromLines(r.carts[userID]), nil
}

func (r *CartRepository) Save(ctx context.Context, userID string, c *cart.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.IsEmpty() {
		delete(r.carts, userID)
		return nil
	}
	r.carts[userID] = c.Lines()
	return nil
}

// WishlistRepository holds one wishlist per user.
type WishlistRepository struct {
	mu    sync.RWMutex
	lists map[string][]user.WishlistEntry
}

func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{lists: make(map[string][]user.WishlistEntry)}
}

func (r *WishlistRepository) Load(ctx context.Context, userID string) (*user.Wishlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return user.NewWishlist(r.lists[userID]), nil
}

func (r *WishlistRepository) Save(ctx context.Context, userID string, w *user.Wishlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists[userID] = w.Entries()
	return nil
}

var (
	_ cart.Repository         = (*CartRepository)(nil)
	_ user.WishlistRepository = (*WishlistRepository)(nil)
)
