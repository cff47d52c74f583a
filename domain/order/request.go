package order

import (
	"strings"
	"time"

	"storefront/domain/cart"
	"storefront/domain/checkout"
	"storefront/domain/shared"
)

// Address is the optional shipping destination.
type Address struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (a Address) Validate() error {
	required := []struct{ field, value string }{
		{"name", a.Name},
		{"street", a.Street},
		{"city", a.City},
		{"postalCode", a.PostalCode},
		{"country", a.Country},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return shared.NewValidationError("address", r.field, r.field+" is required")
		}
	}
	return nil
}

// Request is the order submission payload.
type Request struct {
	Items []cart.Line `json:"items"`
	checkout.Summary
	DiscountCode    string   `json:"discountCode,omitempty"`
	ShippingMethod  string   `json:"shippingMethod"`
	PaymentMethod   string   `json:"paymentMethod"`
	ShippingAddress *Address `json:"shippingAddress,omitempty"`
}

// NewRequest snapshots lines and validates the submission.
func NewRequest(lines []cart.Line, summary checkout.Summary, discountCode, shipping, payment string, addr *Address) (Request, error) {
	req := Request{
		Items:           append([]cart.Line(nil), lines...),
		Summary:         summary,
		DiscountCode:    discountCode,
		ShippingMethod:  shipping,
		PaymentMethod:   payment,
		ShippingAddress: addr,
	}
	return req, req.Validate()
}

func (r Request) Validate() error {
	if len(r.Items) == 0 {
		return shared.NewValidationError("order", "items", "cart is empty")
	}
	for _, l := range r.Items {
		if err := l.Validate(); err != nil {
			return shared.NewValidationError("order", "items", err.Error())
		}
	}
	if r.ShippingMethod == "" {
		return shared.NewValidationError("order", "shippingMethod", "select a shipping method")
	}
	if r.PaymentMethod == "" {
		return shared.NewValidationError("order", "paymentMethod", "select a payment method")
	}
	if r.ShippingAddress != nil {
		return r.ShippingAddress.Validate()
	}
	return nil
}

// Receipt is the backend's answer to a successful submission.
type Receipt struct {
	OrderID string    `json:"orderId"`
	Status  Status    `json:"status"`
	Total   float64   `json:"total"`
	Date    time.Time `json:"date"`
}

// ReceiptFromRecord accepts {orderId|id|orderNumber, status, total, date}.
func ReceiptFromRecord(rec shared.Record) (Receipt, error) {
	id := rec.String("orderId", "order_id", "orderNumber", "order_number", "id")
	if id == "" {
		return Receipt{}, shared.NewMalformedDataError("order receipt", "missing order id")
	}
	total, _, err := rec.Float("total", "totalAmount", "total_amount")
	if err != nil {
		return Receipt{}, shared.NewMalformedDataError("order receipt", err.Error())
	}
	date, ok := rec.Time("date", "createdAt", "created_at")
	if !ok {
		date = time.Now()
	}
	status := Status(rec.String("status"))
	if status == "" {
		status = StatusProcessing
	}
	return Receipt{OrderID: id, Status: status, Total: total, Date: date}, nil
}

// Snapshot turns a receipt into the history entry for the submitted lines.
func (r Receipt) Snapshot(items []cart.Line) Order {
	o, _ := New(r.OrderID, r.Date, items, r.Total, r.Status)
	return o
}
