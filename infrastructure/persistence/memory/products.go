package memory

import (
	"context"
	"sync"

	"storefront/domain/catalog"
	"storefront/domain/shared"
)

// ProductRepository keeps the catalogue in insertion order.
type ProductRepository struct {
	mu       sync.RWMutex
	order    []string
	products map[string]catalog.Product
}

// NewProductRepository seeds the repository with products.
func NewProductRepository(products []catalog.Product) *ProductRepository {
	r := &ProductRepository{products: make(map[string]catalog.Product, len(products))}
	for _, p := range products {
		r.put(p)
	}
	return r
}

func (r *ProductRepository) put(p catalog.Product) {
	if _, ok := r.products[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.products[p.ID] = p
}

func (r *ProductRepository) List(ctx context.Context) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]catalog.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.products[id])
	}
	return out, nil
}

func (r *ProductRepository) Search(ctx context.Context, f catalog.Filter) ([]catalog.Product, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(all), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return catalog.Product{}, shared.NewNotFoundError("product")
	}
	return p, nil
}

func (r *ProductRepository) Save(ctx context.Context, p catalog.Product) error {
	if p.ID == "" {
		return shared.NewValidationError("product", "id", "product id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(p)
	return nil
}

var _ catalog.Repository = (*ProductRepository)(nil)
