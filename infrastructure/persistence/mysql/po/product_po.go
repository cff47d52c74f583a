package po

import (
	"time"

	"storefront/domain/catalog"

	"github.com/shopspring/decimal"
)

// ProductPO Product persistence object
type ProductPO struct {
	ID            string          `gorm:"primaryKey;size:64"`
	Name          string          `gorm:"size:255;not null;index"`
	Category      string          `gorm:"size:64;not null;index"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StockQuantity int             `gorm:"not null;default:0"`
	Image         string          `gorm:"size:512"`
	Description   string          `gorm:"type:text"`
	Position      int             `gorm:"not null;default:0;index"` // catalogue order
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime"`
}

func (ProductPO) TableName() string {
	return "products"
}

func FromProductDomain(p catalog.Product, position int) *ProductPO {
	return &ProductPO{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Price:         decimal.NewFromFloat(p.Price),
		StockQuantity: p.StockQuantity,
		Image:         p.Image,
		Description:   p.Description,
		Position:      position,
	}
}

func (po *ProductPO) ToDomain() catalog.Product {
	return catalog.Product{
		ID:            po.ID,
		Name:          po.Name,
		Category:      po.Category,
		Price:         po.Price.InexactFloat64(),
		StockQuantity: po.StockQuantity,
		Image:         po.Image,
		Description:   po.Description,
	}
}
