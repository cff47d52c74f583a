package user

import (
	"context"
)

// Repository Account repository interface
type Repository interface {
	// Save Create or update the account
	Save(ctx context.Context, account *Account) error

	// FindByID Find account by ID
	FindByID(ctx context.Context, id string) (*Account, error)

	// FindByUsername Find account by username or email
	FindByUsername(ctx context.Context, username string) (*Account, error)

	// FindByEmail Find account by email (uniqueness constraint)
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

// WishlistRepository stores one wishlist per user.
type WishlistRepository interface {
	Load(ctx context.Context, userID string) (*Wishlist, error)
	Save(ctx context.Context, userID string, w *Wishlist) error
}
