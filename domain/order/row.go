package order

import (
	"time"

	"storefront/domain/cart"
	"storefront/domain/shared"
)

// Row is one flat order-history row: the order header repeated for every item.
type Row struct {
	OrderNumber string    `json:"orderNumber"`
	Date        time.Time `json:"date"`
	Total       float64   `json:"total"`
	Status      Status    `json:"status"`
	ProductID   string    `json:"productId"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Image       string    `json:"image,omitempty"`
	Category    string    `json:"category,omitempty"`
}

func (r Row) line() cart.Line {
	return cart.Line{
		ProductID: r.ProductID,
		Name:      r.Name,
		Price:     r.Price,
		Quantity:  r.Quantity,
		Image:     r.Image,
		Category:  r.Category,
	}
}

// RowFromRecord validates one flat row. The item part goes through the same
// checks as a cart line.
func RowFromRecord(rec shared.Record) (Row, error) {
	number := rec.String("orderNumber", "order_number", "orderId", "order_id")
	if number == "" {
		return Row{}, shared.NewMalformedDataError("order row", "missing order number")
	}
	total, _, err := rec.Float("total", "totalAmount", "total_amount")
	if err != nil {
		return Row{}, shared.NewMalformedDataError("order row", err.Error())
	}
	l, err := cart.LineFromRecord(rec)
	if err != nil {
		return Row{}, err
	}
	date, _ := rec.Time("date", "orderDate", "order_date", "createdAt", "created_at")
	return Row{
		OrderNumber: number,
		Date:        date,
		Total:       total,
		Status:      Status(rec.String("status")),
		ProductID:   l.ProductID,
		Name:        l.Name,
		Price:       l.Price,
		Quantity:    l.Quantity,
		Image:       l.Image,
		Category:    l.Category,
	}, nil
}

// GroupRows folds rows into orders keyed by order number. Orders keep the
// position of their first row; the header is taken from that row.
func GroupRows(rows []Row) []Order {
	index := make(map[string]int)
	var orders []Order
	for _, r := range rows {
		i, ok := index[r.OrderNumber]
		if !ok {
			status := r.Status
			if status == "" {
				status = StatusProcessing
			}
			index[r.OrderNumber] = len(orders)
			orders = append(orders, Order{ID: r.OrderNumber, Date: r.Date, Total: r.Total, Status: status})
			i = len(orders) - 1
		}
		orders[i].Items = append(orders[i].Items, r.line())
	}
	return orders
}

// FromRecords accepts a mixed history list: flat rows and aggregated orders
// (records carrying an items list). Output order follows first appearance.
// Records that fail validation are dropped and reported.
func FromRecords(recs []shared.Record) ([]Order, []error) {
	var (
		dropped []error
		orders  []Order
		pending []Row
		// position of each flat-row order number among orders
		slot = make(map[string]int)
	)
	flush := func() {
		for _, o := range GroupRows(pending) {
			if i, ok := slot[o.ID]; ok {
				orders[i].Items = append(orders[i].Items, o.Items...)
				continue
			}
			slot[o.ID] = len(orders)
			orders = append(orders, o)
		}
		pending = nil
	}
	for _, rec := range recs {
		if rec.Has("items", "lines") {
			flush()
			o, bad, err := FromRecord(rec)
			dropped = append(dropped, bad...)
			if err != nil {
				dropped = append(dropped, err)
				continue
			}
			orders = append(orders, o)
			continue
		}
		r, err := RowFromRecord(rec)
		if err != nil {
			dropped = append(dropped, err)
			continue
		}
		pending = append(pending, r)
	}
	flush()
	return orders, dropped
}
