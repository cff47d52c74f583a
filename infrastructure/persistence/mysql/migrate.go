package mysql

import (
	"fmt"

	"storefront/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// Models lists every table of the development store.
func Models() []interface{} {
	return []interface{}{
		&po.ProductPO{},
		&po.AccountPO{},
		&po.CartItemPO{},
		&po.WishlistItemPO{},
		&po.OrderPO{},
		&po.OrderItemPO{},
		&po.OutboxEventPO{},
	}
}

// AutoMigrate creates or updates the schema. Development only; production
// schemas are managed outside the service.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
