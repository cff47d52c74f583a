package mysql

import (
	"context"

	"storefront/domain/cart"
	"storefront/domain/user"
	"storefront/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// CartRepository stores cart lines, one row per product.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) Load(ctx context.Context, userID string) (*cart.Cart, error) {
	var rows []po.CartItemPO
	err := getDB(ctx, r.db).Where("user_id = ?", userID).Order("position").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	lines := make([]cart.Line, len(rows))
	for i, row := range rows {
		lines[i] = row.ToDomain()
	}
	return cart.FromLines(lines), nil
}

// Save replaces the user's lines (simple strategy: delete then insert).
func (r *CartRepository) Save(ctx context.Context, userID string, c *cart.Cart) error {
	rows := po.FromCartLines(userID, c.Lines())
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&po.CartItemPO{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// WishlistRepository stores wishlist entries, oldest first.
type WishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

func (r *WishlistRepository) Load(ctx context.Context, userID string) (*user.Wishlist, error) {
	var rows []po.WishlistItemPO
	err := getDB(ctx, r.db).Where("user_id = ?", userID).Order("added_at").Order("product_id").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	entries := make([]user.WishlistEntry, len(rows))
	for i, row := range rows {
		entries[i] = row.ToDomain()
	}
	return user.NewWishlist(entries), nil
}

func (r *WishlistRepository) Save(ctx context.Context, userID string, w *user.Wishlist) error {
	rows := po.FromWishlistEntries(userID, w.Entries())
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&po.WishlistItemPO{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

var (
	_ cart.Repository         = (*CartRepository)(nil)
	_ user.WishlistRepository = (*WishlistRepository)(nil)
)
