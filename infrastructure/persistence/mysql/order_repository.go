package mysql

import (
	"context"
	"errors"

	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence/mysql/po"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository MySQL/GORM implementation of order repository
// DDD principle: Repository is only responsible for persistence of aggregate roots, not event publishing
// GORM usage specification: Association features are prohibited to maintain DDD aggregate boundaries
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository Create order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// NextIdentity Generate new order number. UUIDv7 keeps the primary key
// roughly time ordered.
func (r *OrderRepository) NextIdentity(ctx context.Context) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Save inserts a new placement with its items. Orders are immutable, so an
// existing number is a conflict.
func (r *OrderRepository) Save(ctx context.Context, p order.Placement) error {
	orderPO, itemPOs := po.FromPlacement(p)
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(orderPO).Error; err != nil {
			if isDuplicateKeyError(err) {
				return shared.NewConflictError("order", "order "+p.Order.ID+" already exists")
			}
			return err
		}
		if len(itemPOs) > 0 {
			if err := tx.Create(&itemPOs).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (order.Placement, error) {
	db := getDB(ctx, r.db)
	var orderPO po.OrderPO
	err := db.First(&orderPO, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return order.Placement{}, shared.NewNotFoundError("order")
	}
	if err != nil {
		return order.Placement{}, err
	}
	items, err := r.loadItems(db, []string{id})
	if err != nil {
		return order.Placement{}, err
	}
	return orderPO.ToDomain(items[id]), nil
}

// FindByUserID Most recent first
func (r *OrderRepository) FindByUserID(ctx context.Context, userID string) ([]order.Placement, error) {
	db := getDB(ctx, r.db)
	var orderPOs []po.OrderPO
	if err := db.Where("user_id = ?", userID).Order("placed_at DESC").Order("id DESC").Find(&orderPOs).Error; err != nil {
		return nil, err
	}
	if len(orderPOs) == 0 {
		return []order.Placement{}, nil
	}

	ids := make([]string, len(orderPOs))
	for i, o := range orderPOs {
		ids[i] = o.ID
	}
	items, err := r.loadItems(db, ids)
	if err != nil {
		return nil, err
	}

	out := make([]order.Placement, len(orderPOs))
	for i := range orderPOs {
		out[i] = orderPOs[i].ToDomain(items[orderPOs[i].ID])
	}
	return out, nil
}

// loadItems fetches the items of several orders in one query, grouped by order.
func (r *OrderRepository) loadItems(db *gorm.DB, orderIDs []string) (map[string][]po.OrderItemPO, error) {
	var rows []po.OrderItemPO
	if err := db.Where("order_id IN ?", orderIDs).Order("order_id").Order("position").Find(&rows).Error; err != nil {
		return nil, err
	}
	grouped := make(map[string][]po.OrderItemPO, len(orderIDs))
	for _, row := range rows {
		grouped[row.OrderID] = append(grouped[row.OrderID], row)
	}
	return grouped, nil
}

var _ order.Repository = (*OrderRepository)(nil)
