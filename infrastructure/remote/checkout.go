package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"storefront/domain/checkout"
	"storefront/domain/shared"
)

// ValidateDiscount asks the backend about code. Unknown codes wrap
// checkout.ErrInvalidDiscount; transport failures stay NetworkErrors so the
// caller can fall back to the built-in table.
func (c *Client) ValidateDiscount(ctx context.Context, code string) (checkout.Discount, error) {
	normalized := checkout.NormalizeCode(code)
	body := map[string]any{"code": normalized}
	p, err := c.send(ctx, call{op: "validate discount", method: http.MethodPost, path: "/checkout/discount", body: body})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrInvalidInput) {
			return checkout.Discount{}, fmt.Errorf("%q: %w", normalized, checkout.ErrInvalidDiscount)
		}
		return checkout.Discount{}, err
	}
	rec, ok := p.object("discount")
	if !ok {
		return checkout.Discount{}, shared.NewMalformedDataError("discount", "response is "+p.data().kind.String())
	}
	if valid, present := rec["valid"].(bool); present && !valid {
		return checkout.Discount{}, fmt.Errorf("%q: %w", normalized, checkout.ErrInvalidDiscount)
	}
	if !rec.Has("code") {
		rec["code"] = normalized
	}
	return checkout.DiscountFromRecord(rec)
}

func (c *Client) ShippingMethods(ctx context.Context) ([]checkout.ShippingMethod, error) {
	p, err := c.send(ctx, call{op: "shipping methods", method: http.MethodGet, path: "/checkout/shipping-methods", idempotent: true})
	if err != nil {
		return nil, err
	}
	return checkout.ShippingMethodsFromRecords(p.records("methods", "shippingMethods")), nil
}

func (c *Client) PaymentMethods(ctx context.Context) ([]checkout.PaymentMethod, error) {
	p, err := c.send(ctx, call{op: "payment methods", method: http.MethodGet, path: "/checkout/payment-methods", idempotent: true})
	if err != nil {
		return nil, err
	}
	return checkout.PaymentMethodsFromRecords(p.records("methods", "paymentMethods")), nil
}
