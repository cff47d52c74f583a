package checkout

import (
	"storefront/domain/cart"

	"github.com/shopspring/decimal"
)

// Policy holds the pricing constants.
type Policy struct {
	TaxRate               float64
	FreeShippingThreshold float64
	StandardShipping      float64
	ExpressShipping       float64
}

func DefaultPolicy() Policy {
	return Policy{
		TaxRate:               0.08,
		FreeShippingThreshold: 50,
		StandardShipping:      9.99,
		ExpressShipping:       19.99,
	}
}

// ShippingCost returns the cost of method before the free-shipping waiver.
// Unknown methods are charged as standard.
func (p Policy) ShippingCost(method string) float64 {
	if method == ShippingExpress {
		return p.ExpressShipping
	}
	return p.StandardShipping
}

// Summary is the priced checkout. Values are unrounded; round for display.
type Summary struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	Tax            float64 `json:"tax"`
	Shipping       float64 `json:"shipping"`
	Total          float64 `json:"total"`
	ItemCount      int     `json:"itemCount"`
}

// Compute prices lines under p with one of the built-in shipping methods.
// discount may be nil.
func (p Policy) Compute(lines []cart.Line, discount *Discount, shippingMethod string) Summary {
	return p.ComputeWithShipping(lines, discount, p.ShippingCost(shippingMethod))
}

// ComputeWithShipping prices lines with an explicit shipping cost.
//
//	total = subtotal - discount + tax + shipping
//	tax = rate * (subtotal - discount)
//	shipping = 0 when subtotal > threshold, for every method
func (p Policy) ComputeWithShipping(lines []cart.Line, discount *Discount, shippingCost float64) Summary {
	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		subtotal = subtotal.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
		count += l.Quantity
	}

	off := decimal.Zero
	if discount != nil {
		off = discount.amountOff(subtotal)
	}
	taxable := subtotal.Sub(off)
	tax := taxable.Mul(decimal.NewFromFloat(p.TaxRate))

	shipping := decimal.Zero
	if count > 0 && !subtotal.GreaterThan(decimal.NewFromFloat(p.FreeShippingThreshold)) {
		shipping = decimal.NewFromFloat(shippingCost)
	}
	total := taxable.Add(tax).Add(shipping)

	return Summary{
		Subtotal:       subtotal.InexactFloat64(),
		DiscountAmount: off.InexactFloat64(),
		Tax:            tax.InexactFloat64(),
		Shipping:       shipping.InexactFloat64(),
		Total:          total.InexactFloat64(),
		ItemCount:      count,
	}
}

// Round2 rounds a currency value half away from zero to cents.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
