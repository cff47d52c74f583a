package po

import (
	"time"

	"storefront/domain/cart"
	"storefront/domain/user"

	"github.com/shopspring/decimal"
)

// CartItemPO one cart line; the cart itself has no row.
type CartItemPO struct {
	UserID    string          `gorm:"primaryKey;size:64"`
	ProductID string          `gorm:"primaryKey;size:64"`
	Name      string          `gorm:"size:255;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity  int             `gorm:"not null"`
	Image     string          `gorm:"size:512"`
	Category  string          `gorm:"size:64"`
	Position  int             `gorm:"not null;default:0"`
}

func (CartItemPO) TableName() string {
	return "cart_items"
}

func FromCartLines(userID string, lines []cart.Line) []CartItemPO {
	items := make([]CartItemPO, len(lines))
	for i, l := range lines {
		items[i] = CartItemPO{
			UserID:    userID,
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     decimal.NewFromFloat(l.Price),
			Quantity:  l.Quantity,
			Image:     l.Image,
			Category:  l.Category,
			Position:  i,
		}
	}
	return items
}

func (po CartItemPO) ToDomain() cart.Line {
	return cart.Line{
		ProductID: po.ProductID,
		Name:      po.Name,
		Price:     po.Price.InexactFloat64(),
		Quantity:  po.Quantity,
		Image:     po.Image,
		Category:  po.Category,
	}
}

// WishlistItemPO one wishlist entry.
type WishlistItemPO struct {
	UserID    string          `gorm:"primaryKey;size:64"`
	ProductID string          `gorm:"primaryKey;size:64"`
	Name      string          `gorm:"size:255;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Image     string          `gorm:"size:512"`
	Category  string          `gorm:"size:64"`
	Notes     string          `gorm:"size:512"`
	AddedAt   time.Time       `gorm:"not null;index"`
}

func (WishlistItemPO) TableName() string {
	return "wishlist_items"
}

func FromWishlistEntries(userID string, entries []user.WishlistEntry) []WishlistItemPO {
	items := make([]WishlistItemPO, len(entries))
	for i, e := range entries {
		items[i] = WishlistItemPO{
			UserID:    userID,
			ProductID: e.ProductID,
			Name:      e.Name,
			Price:     decimal.NewFromFloat(e.Price),
			Image:     e.Image,
			Category:  e.Category,
			Notes:     e.Notes,
			AddedAt:   e.AddedDate,
		}
	}
	return items
}

func (po WishlistItemPO) ToDomain() user.WishlistEntry {
	return user.WishlistEntry{
		ProductID: po.ProductID,
		Name:      po.Name,
		Price:     po.Price.InexactFloat64(),
		Image:     po.Image,
		Category:  po.Category,
		Notes:     po.Notes,
		AddedDate: po.AddedAt,
	}
}
