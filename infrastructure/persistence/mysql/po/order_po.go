package po

import (
	"time"

	"storefront/domain/cart"
	"storefront/domain/checkout"
	"storefront/domain/order"

	"github.com/shopspring/decimal"
)

// OrderPO Order persistence object
// Note: Only used for database mapping, does not contain any business logic
// Defining GORM associations is prohibited here
type OrderPO struct {
	ID             string          `gorm:"primaryKey;size:64"`
	UserID         string          `gorm:"size:64;index;not null"` // Only store ID, no association with Account
	Status         string          `gorm:"size:20;not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tax            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Shipping       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ItemCount      int             `gorm:"not null"`
	DiscountCode   string          `gorm:"size:32"`
	ShippingMethod string          `gorm:"size:32;not null"`
	PaymentMethod  string          `gorm:"size:32;not null"`
	ShipName       string          `gorm:"size:255"`
	ShipStreet     string          `gorm:"size:255"`
	ShipCity       string          `gorm:"size:100"`
	ShipPostalCode string          `gorm:"size:20"`
	ShipCountry    string          `gorm:"size:100"`
	PlacedAt       time.Time       `gorm:"not null;index"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO Order item persistence object
type OrderItemPO struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	OrderID   string          `gorm:"size:64;index;not null"` // Only store ID, no GORM association
	Position  int             `gorm:"not null"`
	ProductID string          `gorm:"size:64;not null"`
	Name      string          `gorm:"size:255;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity  int             `gorm:"not null"`
	Image     string          `gorm:"size:512"`
	Category  string          `gorm:"size:64"`
}

// TableName Specify table name
func (OrderItemPO) TableName() string {
	return "order_items"
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// FromPlacement Convert domain placement to persistence objects
func FromPlacement(p order.Placement) (*OrderPO, []OrderItemPO) {
	o := p.Order
	orderPO := &OrderPO{
		ID:             o.ID,
		UserID:         p.UserID,
		Status:         string(o.Status),
		Subtotal:       money(p.Summary.Subtotal),
		DiscountAmount: money(p.Summary.DiscountAmount),
		Tax:            money(p.Summary.Tax),
		Shipping:       money(p.Summary.Shipping),
		Total:          money(o.Total),
		ItemCount:      o.ItemCount(),
		DiscountCode:   p.DiscountCode,
		ShippingMethod: p.ShippingMethod,
		PaymentMethod:  p.PaymentMethod,
		PlacedAt:       o.Date,
	}
	if a := p.Address; a != nil {
		orderPO.ShipName = a.Name
		orderPO.ShipStreet = a.Street
		orderPO.ShipCity = a.City
		orderPO.ShipPostalCode = a.PostalCode
		orderPO.ShipCountry = a.Country
	}

	itemPOs := make([]OrderItemPO, len(o.Items))
	for i, l := range o.Items {
		itemPOs[i] = OrderItemPO{
			OrderID:   o.ID,
			Position:  i,
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     decimal.NewFromFloat(l.Price),
			Quantity:  l.Quantity,
			Image:     l.Image,
			Category:  l.Category,
		}
	}
	return orderPO, itemPOs
}

// ToDomain Convert persistence objects to a placement. itemPOs must be in
// Position order.
func (po *OrderPO) ToDomain(itemPOs []OrderItemPO) order.Placement {
	lines := make([]cart.Line, len(itemPOs))
	for i, item := range itemPOs {
		lines[i] = cart.Line{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price.InexactFloat64(),
			Quantity:  item.Quantity,
			Image:     item.Image,
			Category:  item.Category,
		}
	}

	p := order.Placement{
		Order: order.Order{
			ID:     po.ID,
			Date:   po.PlacedAt.UTC(),
			Items:  lines,
			Total:  po.Total.InexactFloat64(),
			Status: order.Status(po.Status),
		},
		UserID: po.UserID,
		Summary: checkout.Summary{
			Subtotal:       po.Subtotal.InexactFloat64(),
			DiscountAmount: po.DiscountAmount.InexactFloat64(),
			Tax:            po.Tax.InexactFloat64(),
			Shipping:       po.Shipping.InexactFloat64(),
			Total:          po.Total.InexactFloat64(),
			ItemCount:      po.ItemCount,
		},
		DiscountCode:   po.DiscountCode,
		ShippingMethod: po.ShippingMethod,
		PaymentMethod:  po.PaymentMethod,
	}
	if po.ShipStreet != "" {
		p.Address = &order.Address{
			Name:       po.ShipName,
			Street:     po.ShipStreet,
			City:       po.ShipCity,
			PostalCode: po.ShipPostalCode,
			Country:    po.ShipCountry,
		}
	}
	return p
}
