package cart

import "context"

// Repository stores one cart per user. Load of an unknown user yields an
// empty cart.
type Repository interface {
	Load(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, userID string, c *Cart) error
}
