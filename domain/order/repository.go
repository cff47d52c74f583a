package order

import (
	"context"

	"storefront/domain/checkout"
)

// Placement is an order as the commerce service stores it: the snapshot plus
// who placed it and how it was priced.
type Placement struct {
	Order          Order
	UserID         string
	Summary        checkout.Summary
	DiscountCode   string
	ShippingMethod string
	PaymentMethod  string
	Address        *Address
}

// Repository Order repository interface
type Repository interface {
	// NextIdentity Generate new order number
	NextIdentity(ctx context.Context) (string, error)

	// Save Persist a new placement
	Save(ctx context.Context, p Placement) error

	// FindByID Find placement by order number
	FindByID(ctx context.Context, id string) (Placement, error)

	// FindByUserID Most recent first
	FindByUserID(ctx context.Context, userID string) ([]Placement, error)
}
