package storefront

import (
	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/checkout"
	"storefront/domain/order"
	"storefront/domain/user"
)

// Session is what the view renders. Obtain it through Controller.Snapshot.
type Session struct {
	CurrentUser      *user.User
	Offline          bool
	BackendAvailable bool

	Products []catalog.Product
	Filter   catalog.Filter
	CartOpen bool

	Cart     []cart.Line
	Wishlist []user.WishlistEntry
	Orders   []order.Order

	Discount        *checkout.Discount
	ShippingMethod  string
	PaymentMethod   string
	ShippingMethods []checkout.ShippingMethod
	PaymentMethods  []checkout.PaymentMethod
}

func newSession(p checkout.Policy) Session {
	shipping := checkout.DefaultShippingMethods(p)
	payment := checkout.DefaultPaymentMethods()
	return Session{
		Products:        catalog.SampleProducts(),
		Filter:          catalog.DefaultFilter(),
		Cart:            []cart.Line{},
		Wishlist:        []user.WishlistEntry{},
		ShippingMethod:  shipping[0].ID,
		PaymentMethod:   payment[0].ID,
		ShippingMethods: shipping,
		PaymentMethods:  payment,
	}
}

// SignedIn reports whether a user is set.
func (s Session) SignedIn() bool {
	return s.CurrentUser != nil
}

// InWishlist reports whether productID is wishlisted.
func (s Session) InWishlist(productID string) bool {
	for _, e := range s.Wishlist {
		if e.ProductID == productID {
			return true
		}
	}
	return false
}

func (s Session) clone() Session {
	out := s
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		u.Orders = nil
		out.CurrentUser = &u
	}
	if s.Discount != nil {
		d := *s.Discount
		out.Discount = &d
	}
	out.Products = append([]catalog.Product(nil), s.Products...)
	out.Cart = append([]cart.Line{}, s.Cart...)
	out.Wishlist = append([]user.WishlistEntry{}, s.Wishlist...)
	out.Orders = make([]order.Order, len(s.Orders))
	for i, o := range s.Orders {
		out.Orders[i] = o.Clone()
	}
	out.ShippingMethods = append([]checkout.ShippingMethod(nil), s.ShippingMethods...)
	out.PaymentMethods = append([]checkout.PaymentMethod(nil), s.PaymentMethods...)
	return out
}

func findShipping(methods []checkout.ShippingMethod, id string) (checkout.ShippingMethod, bool) {
	for _, m := range methods {
		if m.ID == id {
			return m, true
		}
	}
	return checkout.ShippingMethod{}, false
}

func findPayment(methods []checkout.PaymentMethod, id string) (checkout.PaymentMethod, bool) {
	for _, m := range methods {
		if m.ID == id {
			return m, true
		}
	}
	return checkout.PaymentMethod{}, false
}
