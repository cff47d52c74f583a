package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"storefront/domain/order"
	"storefront/domain/shared"
)

// firstOrderNumber is the first number NextIdentity hands out.
const firstOrderNumber = 1001

// OrderRepository In-memory order store with sequential order numbers.
type OrderRepository struct {
	placements map[string]order.Placement
	next       int
	mu         sync.RWMutex
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		placements: make(map[string]order.Placement),
		next:       firstOrderNumber,
	}
}

func (r *OrderRepository) NextIdentity(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := strconv.Itoa(r.next)
	r.next++
	return id, nil
}

func (r *OrderRepository) Save(ctx context.Context, p order.Placement) error {
	if p.Order.ID == "" {
		return shared.NewValidationError("order", "id", "order id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.placements[p.Order.ID]; exists {
		return shared.NewConflictError("order", "order "+p.Order.ID+" already exists")
	}
	p.Order = p.Order.Clone()
	r.placements[p.Order.ID] = p
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (order.Placement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.placements[id]
	if !ok {
		return order.Placement{}, shared.NewNotFoundError("order")
	}
	p.Order = p.Order.Clone()
	return p, nil
}

func (r *OrderRepository) FindByUserID(ctx context.Context, userID string) ([]order.Placement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []order.Placement
	for _, p := range r.placements {
		if p.UserID == userID {
			p.Order = p.Order.Clone()
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Order.Date.Equal(out[j].Order.Date) {
			return out[i].Order.Date.After(out[j].Order.Date)
		}
		return out[i].Order.ID > out[j].Order.ID
	})
	return out, nil
}

var _ order.Repository = (*OrderRepository)(nil)
