package commerce

import (
	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/checkout"
	"storefront/domain/order"
	"storefront/domain/user"
)

func toCredentials(req RegisterRequest) user.Credentials {
	return user.Credentials{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
}

func toUserResponse(a *user.Account) *UserResponse {
	return &UserResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		CreatedAt: a.CreatedAt,
	}
}

func toFilter(req SearchRequest) catalog.Filter {
	f := catalog.DefaultFilter()
	f.Query = req.Query
	if req.Category != "" {
		f.Category = req.Category
	}
	f.MinPrice = req.MinPrice
	f.MaxPrice = req.MaxPrice
	f.Sort = catalog.ParseSortOrder(req.Sort)
	return f
}

func toProductList(products []catalog.Product) *ProductListResponse {
	if products == nil {
		products = []catalog.Product{}
	}
	return &ProductListResponse{Products: products, Count: len(products)}
}

func toCartResponse(c *cart.Cart) *CartResponse {
	lines := c.Lines()
	return &CartResponse{
		Items:     lines,
		ItemCount: cart.ItemCount(lines),
		Subtotal:  checkout.Round2(cart.Subtotal(lines)),
	}
}

func toDiscountResponse(d checkout.Discount) *DiscountResponse {
	return &DiscountResponse{
		Valid:       true,
		Code:        d.Code,
		Percent:     d.Percent,
		Amount:      d.Amount,
		Description: d.Description,
	}
}

func toOrderResponse(p order.Placement) *OrderResponse {
	o := p.Order.Clone()
	return &OrderResponse{
		OrderID:         o.ID,
		UserID:          p.UserID,
		Status:          o.Status,
		Date:            o.Date,
		Items:           o.Items,
		Total:           o.Total,
		Summary:         p.Summary,
		DiscountCode:    p.DiscountCode,
		ShippingMethod:  p.ShippingMethod,
		PaymentMethod:   p.PaymentMethod,
		ShippingAddress: p.Address,
	}
}

func toHistoryRows(placements []order.Placement) *OrderHistoryResponse {
	rows := []order.Row{}
	for _, p := range placements {
		rows = append(rows, p.Order.Rows()...)
	}
	return &OrderHistoryResponse{Orders: rows}
}
