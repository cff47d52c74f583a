package storefront

import (
	"context"
	"errors"
	"strings"

	"storefront/domain/cart"
	"storefront/domain/checkout"
	"storefront/domain/order"
	"storefront/domain/shared"

	"go.uber.org/zap"
)

// ApplyDiscount validates code with the backend, or against the built-in
// table when the backend cannot be reached. An unknown code clears any
// applied discount.
func (c *Controller) ApplyDiscount(ctx context.Context, code string) (checkout.Discount, error) {
	if _, err := c.requireUser("apply a discount"); err != nil {
		return checkout.Discount{}, err
	}
	if strings.TrimSpace(code) == "" {
		return checkout.Discount{}, shared.NewValidationError("discount", "code", "enter a discount code")
	}
	if !c.begin(IntentDiscount) {
		return checkout.Discount{}, shared.NewIntentPendingError(IntentDiscount)
	}
	defer c.end(IntentDiscount)

	c.mu.RLock()
	online := c.state.BackendAvailable && !c.state.Offline
	c.mu.RUnlock()

	var (
		d   checkout.Discount
		err error
	)
	if online {
		d, err = c.backend.ValidateDiscount(ctx, code)
		if errors.Is(err, shared.ErrNetwork) {
			c.log.Info("discount service unreachable, using built-in codes", zap.Error(err))
			d, err = checkout.LookupDiscount(code)
		}
	} else {
		d, err = checkout.LookupDiscount(code)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.Discount = nil
		return checkout.Discount{}, err
	}
	c.state.Discount = &d
	return d, nil
}

func (c *Controller) RemoveDiscount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Discount = nil
}

func (c *Controller) SelectShipping(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := findShipping(c.state.ShippingMethods, id); !ok {
		return shared.NewValidationError("checkout", "shippingMethod", "unknown shipping method "+id)
	}
	c.state.ShippingMethod = id
	return nil
}

func (c *Controller) SelectPayment(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := findPayment(c.state.PaymentMethods, id); !ok {
		return shared.NewValidationError("checkout", "paymentMethod", "unknown payment method "+id)
	}
	c.state.PaymentMethod = id
	return nil
}

// Summary prices the current cart with the selected discount and shipping.
func (c *Controller) Summary() checkout.Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.summaryLocked()
}

func (c *Controller) summaryLocked() checkout.Summary {
	cost := c.policy.ShippingCost(c.state.ShippingMethod)
	if m, ok := findShipping(c.state.ShippingMethods, c.state.ShippingMethod); ok {
		cost = m.Cost
	}
	return c.policy.ComputeWithShipping(c.state.Cart, c.state.Discount, cost)
}

// PlaceOrder submits the current cart. A second call while one is in flight
// fails with ErrIntentPending. The cart is cleared only after the backend
// accepted the order; on any failure it is left as it was. Cart intents wait
// until the order is settled.
func (c *Controller) PlaceOrder(ctx context.Context, addr *order.Address) (order.Receipt, error) {
	id, err := c.requireUser("place an order")
	if err != nil {
		return order.Receipt{}, err
	}
	if !c.begin(IntentPlaceOrder) {
		return order.Receipt{}, shared.NewIntentPendingError(IntentPlaceOrder)
	}
	defer c.end(IntentPlaceOrder)
	c.cartMu.Lock()
	defer c.cartMu.Unlock()

	c.mu.RLock()
	summary := c.summaryLocked()
	var code string
	if c.state.Discount != nil {
		code = c.state.Discount.Code
	}
	req, err := order.NewRequest(c.state.Cart, summary, code, c.state.ShippingMethod, c.state.PaymentMethod, addr)
	c.mu.RUnlock()
	if err != nil {
		return order.Receipt{}, err
	}
	if id.offline {
		return order.Receipt{}, shared.NewOrderSubmissionError("orders can only be placed while the store is online", nil)
	}

	receipt, err := c.backend.SubmitOrder(ctx, id.user.ID, req)
	if err != nil {
		c.log.Warn("order submission failed", zap.String("user_id", id.user.ID), zap.Error(err))
		return order.Receipt{}, err
	}

	lines, cartKnown := c.settleCart(ctx, receipt.OrderID)

	placed := receipt.Snapshot(req.Items)
	if merr := c.local.AppendOrder(id.user.ID, placed); merr != nil {
		c.log.Warn("order not mirrored locally", zap.String("order_id", receipt.OrderID), zap.Error(merr))
	}
	c.apply(id.generation, resourceCart, func(s *Session) {
		if cartKnown {
			s.Cart = lines
		}
		s.Discount = nil
		s.Orders = append([]order.Order{placed}, s.Orders...)
	})

	c.log.Info("order placed", zap.String("order_id", receipt.OrderID), zap.Float64("total", receipt.Total))
	if cartKnown {
		c.publish(newCartChangedEvent(id.user.ID, lines))
	}
	c.publish(order.NewPlacedEvent(id.user.ID, receipt, cart.ItemCount(req.Items)))
	return receipt, nil
}

// settleCart clears the server cart after an accepted order. When clearing
// fails the server cart is re-read; when that fails too the session cart is
// kept and cartKnown is false. The caller holds cartMu.
func (c *Controller) settleCart(ctx context.Context, orderID string) (lines []cart.Line, cartKnown bool) {
	lines, err := c.backend.ClearCart(ctx)
	if err == nil {
		return nonNilLines(lines), true
	}
	c.log.Warn("cart not cleared after order", zap.String("order_id", orderID), zap.Error(err))

	lines, err = c.backend.GetCart(ctx)
	if err != nil {
		c.log.Warn("cart unknown after order, keeping session cart", zap.String("order_id", orderID), zap.Error(err))
		return nil, false
	}
	return nonNilLines(lines), true
}

// LoadOrderHistory fetches the user's orders, most recent first. When the
// backend cannot be reached the locally mirrored history is shown.
func (c *Controller) LoadOrderHistory(ctx context.Context) ([]order.Order, error) {
	id, err := c.requireUser("view your orders")
	if err != nil {
		return nil, err
	}

	var orders []order.Order
	if id.offline {
		orders = c.local.Orders(id.user.ID)
	} else {
		orders, err = c.backend.GetOrderHistory(ctx, id.user.ID)
		switch {
		case errors.Is(err, shared.ErrNetwork):
			c.log.Info("order history unreachable, using local mirror", zap.Error(err))
			orders = c.local.Orders(id.user.ID)
		case err != nil:
			return nil, err
		default:
			if merr := c.local.ReplaceOrders(id.user.ID, orders); merr != nil {
				c.log.Warn("order history not mirrored", zap.Error(merr))
			}
		}
	}

	c.apply(id.generation, resourceOrders, func(s *Session) { s.Orders = orders })
	out := make([]order.Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out, nil
}
