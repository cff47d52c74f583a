package checkout

import (
	"storefront/domain/shared"
)

const (
	ShippingStandard = "standard"
	ShippingExpress  = "express"

	PaymentCard   = "card"
	PaymentPayPal = "paypal"
)

// ShippingMethod is one delivery option offered at checkout.
type ShippingMethod struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Cost          float64 `json:"cost"`
	EstimatedDays string  `json:"estimatedDays,omitempty"`
}

// PaymentMethod is one way to pay.
type PaymentMethod struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultShippingMethods builds the built-in options from policy costs.
func DefaultShippingMethods(p Policy) []ShippingMethod {
	return []ShippingMethod{
		{ID: ShippingStandard, Name: "Standard Shipping", Cost: p.StandardShipping, EstimatedDays: "5-7"},
		{ID: ShippingExpress, Name: "Express Shipping", Cost: p.ExpressShipping, EstimatedDays: "1-2"},
	}
}

func DefaultPaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{ID: PaymentCard, Name: "Credit Card"},
		{ID: PaymentPayPal, Name: "PayPal"},
	}
}

// ShippingMethodsFromRecords drops entries without an id or with a bad cost.
func ShippingMethodsFromRecords(recs []shared.Record) []ShippingMethod {
	out := make([]ShippingMethod, 0, len(recs))
	for _, rec := range recs {
		m := ShippingMethod{
			ID:            rec.String("id", "code"),
			Name:          rec.String("name", "label"),
			EstimatedDays: rec.String("estimatedDays", "estimated_days"),
		}
		cost, _, err := rec.Float("cost", "price")
		if m.ID == "" || err != nil || cost < 0 {
			continue
		}
		m.Cost = cost
		if m.Name == "" {
			m.Name = m.ID
		}
		out = append(out, m)
	}
	return out
}

func PaymentMethodsFromRecords(recs []shared.Record) []PaymentMethod {
	out := make([]PaymentMethod, 0, len(recs))
	for _, rec := range recs {
		m := PaymentMethod{ID: rec.String("id", "code"), Name: rec.String("name", "label")}
		if m.ID == "" {
			continue
		}
		if m.Name == "" {
			m.Name = m.ID
		}
		out = append(out, m)
	}
	return out
}
