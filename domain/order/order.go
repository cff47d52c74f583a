/*
Package order models placed orders and the history the backend returns.

The backend reports history as flat rows, one per ordered product, repeating
the order header on every row. GroupRows folds them back into Order values.
*/
package order

import (
	"time"

	"storefront/domain/cart"
	"storefront/domain/shared"
)

// Status Order status
type Status string

const (
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Order is an immutable snapshot of a placed order.
type Order struct {
	ID     string      `json:"id"`
	Date   time.Time   `json:"date"`
	Items  []cart.Line `json:"items"`
	Total  float64     `json:"total"`
	Status Status      `json:"status"`
}

// New copies items so later cart edits cannot reach the snapshot.
func New(id string, date time.Time, items []cart.Line, total float64, status Status) (Order, error) {
	if id == "" {
		return Order{}, shared.NewValidationError("order", "id", "order id is required")
	}
	if total < 0 {
		return Order{}, shared.NewValidationError("order", "total", "total cannot be negative")
	}
	if status == "" {
		status = StatusProcessing
	}
	copied := make([]cart.Line, len(items))
	copy(copied, items)
	return Order{ID: id, Date: date, Items: copied, Total: total, Status: status}, nil
}

// ItemCount is the sum of quantities.
func (o Order) ItemCount() int {
	return cart.ItemCount(o.Items)
}

// Clone returns a deep copy.
func (o Order) Clone() Order {
	c := o
	c.Items = make([]cart.Line, len(o.Items))
	copy(c.Items, o.Items)
	return c
}

// Rows flattens the order into one history row per line.
func (o Order) Rows() []Row {
	rows := make([]Row, 0, len(o.Items))
	for _, l := range o.Items {
		rows = append(rows, Row{
			OrderNumber: o.ID,
			Date:        o.Date,
			Total:       o.Total,
			Status:      o.Status,
			ProductID:   l.ProductID,
			Name:        l.Name,
			Price:       l.Price,
			Quantity:    l.Quantity,
			Image:       l.Image,
			Category:    l.Category,
		})
	}
	return rows
}

// FromRecord reads an already aggregated order: {id, date, total, status, items:[...]}.
// Invalid items are dropped and returned alongside.
func FromRecord(rec shared.Record) (Order, []error, error) {
	id := rec.String("id", "orderNumber", "order_number", "orderId", "order_id")
	total, _, err := rec.Float("total", "totalAmount", "total_amount")
	if err != nil {
		return Order{}, nil, shared.NewMalformedDataError("order", err.Error())
	}
	date, _ := rec.Time("date", "orderDate", "order_date", "createdAt", "created_at")
	itemRecs, _ := rec.Records("items", "lines")
	lines, dropped := cart.LinesFromRecords(itemRecs)
	o, err := New(id, date, lines, total, Status(rec.String("status")))
	if err != nil {
		return Order{}, dropped, shared.NewMalformedDataError("order", err.Error())
	}
	return o, dropped, nil
}
