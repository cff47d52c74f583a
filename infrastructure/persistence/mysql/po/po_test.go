package po

import (
	"testing"
	"time"

	"storefront/domain/cart"
	"storefront/domain/checkout"
	"storefront/domain/order"
	"storefront/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacementRoundTrip(t *testing.T) {
	placed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lines := []cart.Line{
		{ProductID: "t1", Name: "Nova X1", Price: 799.99, Quantity: 1, Category: "Phones"},
		{ProductID: "t8", Name: "Braided Cable", Price: 19.5, Quantity: 2, Category: "Accessories"},
	}
	o, err := order.New("1001", placed, lines, 777.59, order.StatusProcessing)
	require.NoError(t, err)

	in := order.Placement{
		Order:  o,
		UserID: "u1",
		Summary: checkout.Summary{
			Subtotal:       838.99,
			DiscountAmount: 83.899,
			Tax:            60.40728,
			Total:          777.59,
			ItemCount:      3,
		},
		DiscountCode:   "SAVE10",
		ShippingMethod: checkout.ShippingStandard,
		PaymentMethod:  checkout.PaymentCard,
		Address:        &order.Address{Name: "Ada", Street: "1 Loop Rd", City: "Cupertino", PostalCode: "95014", Country: "US"},
	}

	orderPO, itemPOs := FromPlacement(in)
	assert.Equal(t, "83.9", orderPO.DiscountAmount.String())
	assert.Equal(t, "60.41", orderPO.Tax.String())
	assert.Equal(t, 3, orderPO.ItemCount)
	require.Len(t, itemPOs, 2)
	assert.Equal(t, 1, itemPOs[1].Position)

	out := orderPO.ToDomain(itemPOs)
	assert.Equal(t, in.Order.ID, out.Order.ID)
	assert.Equal(t, lines, out.Order.Items)
	assert.Equal(t, 777.59, out.Order.Total)
	assert.Equal(t, 60.41, out.Summary.Tax)
	assert.Equal(t, in.Address, out.Address)
	assert.True(t, placed.Equal(out.Order.Date))
}

func TestPlacementWithoutAddress(t *testing.T) {
	o, err := order.New("1002", time.Now(), []cart.Line{{ProductID: "t7", Name: "Charger", Price: 29.99, Quantity: 1}}, 52.38, order.StatusProcessing)
	require.NoError(t, err)

	orderPO, items := FromPlacement(order.Placement{Order: o, UserID: "u1"})
	assert.Nil(t, orderPO.ToDomain(items).Address)
}

func TestOutboxPayloadCarriesHeader(t *testing.T) {
	event := shared.NewBaseEvent("order.placed", "1001")
	outbox, err := FromDomainEvent(event)
	require.NoError(t, err)
	assert.Equal(t, string(EventStatusPending), outbox.Status)
	assert.Equal(t, "order.placed", outbox.EventType)

	data, err := outbox.ToEventData()
	require.NoError(t, err)
	assert.Equal(t, "order.placed", data["event_name"])
	assert.Equal(t, "1001", data["aggregate_id"])
	assert.Contains(t, data, "data")
}
