/*
Package checkout prices a cart: discount codes, shipping and payment methods,
tax and the order summary.

Money is computed with shopspring/decimal and converted back to float64 only
when a Summary is produced, so chained additions do not drift.
*/
package checkout

import (
	"errors"
	"fmt"
	"strings"

	"storefront/domain/shared"

	"github.com/shopspring/decimal"
)

// ErrInvalidDiscount the code is unknown or expired
var ErrInvalidDiscount = errors.New("invalid discount code")

// Discount is a validated code. Exactly one of Percent or Amount is set.
type Discount struct {
	Code        string  `json:"code"`
	Percent     float64 `json:"percent,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	Description string  `json:"description"`
}

var knownDiscounts = map[string]Discount{
	"SAVE10":    {Code: "SAVE10", Percent: 10, Description: "10% off your order"},
	"WELCOME20": {Code: "WELCOME20", Percent: 20, Description: "20% off for new customers"},
	"TECH15":    {Code: "TECH15", Percent: 15, Description: "15% off tech items"},
}

// NormalizeCode trims and upper-cases a user supplied code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// LookupDiscount resolves code against the built-in table.
func LookupDiscount(code string) (Discount, error) {
	d, ok := knownDiscounts[NormalizeCode(code)]
	if !ok {
		return Discount{}, fmt.Errorf("%w: %q", ErrInvalidDiscount, code)
	}
	return d, nil
}

// KnownDiscounts returns the built-in table, used to seed the development API.
func KnownDiscounts() []Discount {
	out := make([]Discount, 0, len(knownDiscounts))
	for _, code := range []string{"SAVE10", "WELCOME20", "TECH15"} {
		out = append(out, knownDiscounts[code])
	}
	return out
}

// Validate checks the percent/amount exclusivity and ranges.
func (d Discount) Validate() error {
	switch {
	case d.Code == "":
		return shared.NewMalformedDataError("discount", "missing code")
	case d.Percent < 0 || d.Percent > 100:
		return shared.NewMalformedDataError("discount", fmt.Sprintf("percent %v out of range", d.Percent))
	case d.Amount < 0:
		return shared.NewMalformedDataError("discount", "negative amount")
	case d.Percent > 0 && d.Amount > 0:
		return shared.NewMalformedDataError("discount", "both percent and amount set")
	case d.Percent == 0 && d.Amount == 0:
		return shared.NewMalformedDataError("discount", "neither percent nor amount set")
	}
	return nil
}

// Label is the line shown next to the discount amount.
func (d Discount) Label() string {
	if d.Percent > 0 {
		return fmt.Sprintf("Discount (%s%% off)", decimal.NewFromFloat(d.Percent).String())
	}
	return fmt.Sprintf("Discount (%s off)", decimal.NewFromFloat(d.Amount).StringFixed(2))
}

// amountOff is the reduction for subtotal; amount discounts never exceed it.
func (d Discount) amountOff(subtotal decimal.Decimal) decimal.Decimal {
	if d.Percent > 0 {
		return subtotal.Mul(decimal.NewFromFloat(d.Percent)).Div(decimal.NewFromInt(100))
	}
	return decimal.Min(decimal.NewFromFloat(d.Amount), subtotal)
}

// DiscountFromRecord reads a backend validation response.
func DiscountFromRecord(rec shared.Record) (Discount, error) {
	d := Discount{
		Code:        NormalizeCode(rec.String("code", "discountCode", "discount_code")),
		Description: rec.String("description", "message"),
	}
	if v, ok, err := rec.Float("percent", "percentage", "discountPercent"); err != nil {
		return Discount{}, shared.NewMalformedDataError("discount", err.Error())
	} else if ok {
		d.Percent = v
	}
	if v, ok, err := rec.Float("amount", "discountAmount", "value"); err != nil {
		return Discount{}, shared.NewMalformedDataError("discount", err.Error())
	} else if ok && d.Percent == 0 {
		d.Amount = v
	}
	if err := d.Validate(); err != nil {
		return Discount{}, err
	}
	return d, nil
}
