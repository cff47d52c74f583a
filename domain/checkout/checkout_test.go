package checkout

import (
	"math/rand"
	"testing"

	"storefront/domain/cart"
	"storefront/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSingleItemWithSave10(t *testing.T) {
	lines := []cart.Line{{ProductID: "t1", Name: "Aurora Smartphone", Price: 799.99, Quantity: 1}}
	d, err := LookupDiscount(" save10 ")
	require.NoError(t, err)

	s := DefaultPolicy().Compute(lines, &d, ShippingStandard)

	assert.InDelta(t, 799.99, s.Subtotal, 1e-9)
	assert.InDelta(t, 79.999, s.DiscountAmount, 1e-9)
	assert.InDelta(t, 57.59928, s.Tax, 1e-9)
	assert.Zero(t, s.Shipping)
	assert.InDelta(t, 777.59, s.Total, 0.005)
	assert.Equal(t, 777.59, Round2(s.Total))
}

func TestComputeChargesShippingAtOrBelowThreshold(t *testing.T) {
	p := DefaultPolicy()
	lines := []cart.Line{{ProductID: "a", Name: "A", Price: 25, Quantity: 2}}

	s := p.Compute(lines, nil, ShippingStandard)
	assert.InDelta(t, 9.99, s.Shipping, 1e-9)

	s = p.Compute(lines, nil, ShippingExpress)
	assert.InDelta(t, 19.99, s.Shipping, 1e-9)

	lines[0].Price = 25.01
	s = p.Compute(lines, nil, ShippingExpress)
	assert.Zero(t, s.Shipping)
}

func TestComputeEmptyCart(t *testing.T) {
	s := DefaultPolicy().Compute(nil, nil, ShippingStandard)
	assert.Equal(t, Summary{}, s)
}

func TestAmountDiscountCappedAtSubtotal(t *testing.T) {
	d := Discount{Code: "BIG", Amount: 500, Description: "flat"}
	lines := []cart.Line{{ProductID: "a", Name: "A", Price: 20, Quantity: 1}}
	s := DefaultPolicy().Compute(lines, &d, ShippingStandard)
	assert.InDelta(t, 20, s.DiscountAmount, 1e-9)
	assert.Zero(t, s.Tax)
	assert.InDelta(t, 9.99, s.Total, 1e-9)
}

func TestSummaryIdentityAndFreeShippingProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := DefaultPolicy()
	codes := []string{"", "SAVE10", "WELCOME20", "TECH15"}
	for i := 0; i < 300; i++ {
		var lines []cart.Line
		for j := 0; j < 1+rng.Intn(4); j++ {
			lines = append(lines, cart.Line{
				ProductID: string(rune('a' + j)),
				Name:      "item",
				Price:     float64(rng.Intn(20000)) / 100,
				Quantity:  1 + rng.Intn(3),
			})
		}
		var d *Discount
		if code := codes[rng.Intn(len(codes))]; code != "" {
			found, err := LookupDiscount(code)
			require.NoError(t, err)
			d = &found
		}
		s := p.Compute(lines, d, ShippingStandard)

		assert.InDelta(t, s.Subtotal-s.DiscountAmount+s.Tax+s.Shipping, s.Total, 1e-6)
		assert.InDelta(t, p.TaxRate*(s.Subtotal-s.DiscountAmount), s.Tax, 1e-6)
		if s.Subtotal > p.FreeShippingThreshold {
			assert.Zero(t, s.Shipping)
		}
	}
}

func TestLookupDiscountUnknown(t *testing.T) {
	_, err := LookupDiscount("NOPE")
	assert.ErrorIs(t, err, ErrInvalidDiscount)
}

func TestDiscountFromRecord(t *testing.T) {
	d, err := DiscountFromRecord(shared.Record{"code": "welcome20", "percentage": "20", "description": "new"})
	require.NoError(t, err)
	assert.Equal(t, "WELCOME20", d.Code)
	assert.InDelta(t, 20, d.Percent, 1e-9)
	assert.Equal(t, "Discount (20% off)", d.Label())

	d, err = DiscountFromRecord(shared.Record{"code": "FLAT5", "amount": 5.0})
	require.NoError(t, err)
	assert.InDelta(t, 5, d.Amount, 1e-9)

	_, err = DiscountFromRecord(shared.Record{"code": "X", "percent": 140.0})
	assert.ErrorIs(t, err, shared.ErrMalformedData)

	_, err = DiscountFromRecord(shared.Record{"code": "X"})
	assert.ErrorIs(t, err, shared.ErrMalformedData)
}

func TestMethodsFromRecords(t *testing.T) {
	ship := ShippingMethodsFromRecords([]shared.Record{
		{"id": "standard", "name": "Standard", "cost": 9.99},
		{"id": "drone", "cost": "abc"},
		{"name": "no id", "cost": 1.0},
	})
	require.Len(t, ship, 1)
	assert.Equal(t, "standard", ship[0].ID)

	pay := PaymentMethodsFromRecords([]shared.Record{{"id": "card"}, {"name": "x"}})
	require.Len(t, pay, 1)
	assert.Equal(t, "card", pay[0].Name)

	assert.Len(t, DefaultShippingMethods(DefaultPolicy()), 2)
	assert.Len(t, DefaultPaymentMethods(), 2)
}
