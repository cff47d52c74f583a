package catalog

import "context"

// Repository Product repository interface
type Repository interface {
	// List all products in catalogue order
	List(ctx context.Context) ([]Product, error)

	// Search returns the products matching f, in f.Sort order
	Search(ctx context.Context, f Filter) ([]Product, error)

	// FindByID Find product by ID
	FindByID(ctx context.Context, id string) (Product, error)

	// Save Create or replace a product
	Save(ctx context.Context, p Product) error
}
