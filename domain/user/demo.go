package user

import (
	"time"

	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/checkout"
	"storefront/domain/order"
)

// The demo shopper exists in every fresh mock directory and dev API store.
const (
	DemoUserID   = "demo-user"
	DemoUsername = "demo"
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo123"
)

func DemoCredentials() Credentials {
	return Credentials{Username: DemoUsername, Email: DemoEmail, Password: DemoPassword, FirstName: "Demo", LastName: "Shopper"}
}

// DemoOrder is the demo shopper's one historical order.
func DemoOrder() order.Order {
	products := catalog.SampleProducts()
	earbuds, _ := catalog.FindProduct(products, "t5")
	phoneCase, _ := catalog.FindProduct(products, "t8")
	l1, _ := cart.NewLine(earbuds, 1)
	l2, _ := cart.NewLine(phoneCase, 2)
	lines := []cart.Line{l1, l2}
	summary := checkout.DefaultPolicy().Compute(lines, nil, checkout.ShippingStandard)
	date := time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC)
	o, _ := order.New("DEMO-1001", date, lines, checkout.Round2(summary.Total), order.StatusDelivered)
	return o
}
