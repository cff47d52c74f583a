/*
Package commerce is the business service behind the development commerce API:
accounts, catalogue, carts, wishlists, checkout and orders.

Writes run inside shared.UnitOfWork. Events are collected with uow.Collect and
delivered only when the unit commits (published in memory, or written to the
outbox table by the MySQL store). Every check happens before the first write,
so a failed unit leaves nothing behind even without rollback.
*/
package commerce

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/checkout"
	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/domain/user"
	apperrors "storefront/pkg/errors"

	"go.uber.org/zap"
)

// Repositories groups the stores the service works on.
type Repositories struct {
	Products  catalog.Repository
	Accounts  user.Repository
	Carts     cart.Repository
	Wishlists user.WishlistRepository
	Orders    order.Repository
}

// Service Commerce application service
type Service struct {
	products  catalog.Repository
	accounts  user.Repository
	carts     cart.Repository
	wishlists user.WishlistRepository
	orders    order.Repository
	uow       shared.UnitOfWork

	policy   checkout.Policy
	shipping []checkout.ShippingMethod
	payment  []checkout.PaymentMethod
	log      *zap.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithClock overrides time.Now for order dates and wishlist entries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repos Repositories, uow shared.UnitOfWork, policy checkout.Policy, opts ...Option) *Service {
	s := &Service{
		products:  repos.Products,
		accounts:  repos.Accounts,
		carts:     repos.Carts,
		wishlists: repos.Wishlists,
		orders:    repos.Orders,
		uow:       uow,
		policy:    policy,
		shipping:  checkout.DefaultShippingMethods(policy),
		payment:   checkout.DefaultPaymentMethods(),
		log:       zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("commerce")
	return s
}

// ============================================================================
// Accounts
// ============================================================================

// Register creates an account. A taken username or email is a conflict on
// that field.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	account, err := user.NewAccount(toCredentials(req))
	if err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.ensureUnique(ctx, account); err != nil {
			return err
		}
		if err := s.accounts.Save(ctx, account); err != nil {
			return err
		}
		s.uow.Collect(ctx, user.NewRegisteredEvent(account.Public()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("account registered", zap.String("user_id", account.ID), zap.String("username", account.Username))
	return toUserResponse(account), nil
}

func (s *Service) ensureUnique(ctx context.Context, a *user.Account) error {
	checks := []struct {
		field string
		find  func(context.Context, string) (*user.Account, error)
		value string
	}{
		{"username", s.accounts.FindByUsername, a.Username},
		{"email", s.accounts.FindByEmail, a.Email},
	}
	for _, c := range checks {
		_, err := c.find(ctx, c.value)
		switch {
		case err == nil:
			return shared.NewDuplicateError("user", c.field, c.field+" is already registered")
		case !errors.Is(err, shared.ErrNotFound):
			return err
		}
	}
	return nil
}

// Authenticate checks a username (or email) and password.
func (s *Service) Authenticate(ctx context.Context, req LoginRequest) (*UserResponse, error) {
	identifier := strings.TrimSpace(req.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}
	creds := user.Credentials{Username: identifier, Password: req.Password}
	if err := creds.ValidateLogin(); err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByUsername(ctx, identifier)
	if errors.Is(err, shared.ErrNotFound) || (err == nil && !account.CheckPassword(req.Password)) {
		return nil, shared.NewAuthError("password", "invalid username or password", nil)
	}
	if err != nil {
		return nil, err
	}
	return toUserResponse(account), nil
}

func (s *Service) Profile(ctx context.Context, userID string) (*UserResponse, error) {
	account, err := s.accounts.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(account), nil
}

// ============================================================================
// Catalogue
// ============================================================================

func (s *Service) ListProducts(ctx context.Context) (*ProductListResponse, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	return toProductList(products), nil
}

func (s *Service) SearchProducts(ctx context.Context, req SearchRequest) (*ProductListResponse, error) {
	if req.MaxPrice > 0 && req.MaxPrice < req.MinPrice {
		return nil, shared.NewValidationError("filter", "maxPrice", "maximum price must not be below the minimum")
	}
	products, err := s.products.Search(ctx, toFilter(req))
	if err != nil {
		return nil, err
	}
	return toProductList(products), nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	return s.products.FindByID(ctx, id)
}

// ============================================================================
// Cart
// ============================================================================

func (s *Service) GetCart(ctx context.Context, userID string) (*CartResponse, error) {
	c, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toCartResponse(c), nil
}

// AddToCart adds quantity units, refusing more than the product has in stock.
func (s *Service) AddToCart(ctx context.Context, userID string, req CartItemRequest) (*CartResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.NewValidationError("cart", "quantity", "quantity must be at least 1")
	}
	return s.mutateCart(ctx, userID, func(ctx context.Context, c *cart.Cart) error {
		p, err := s.products.FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}
		existing, _ := c.Line(p.ID)
		if existing.Quantity+req.Quantity > p.StockQuantity {
			return apperrors.OutOfStock(p.Name)
		}
		return c.Add(p, req.Quantity)
	})
}

// UpdateCartItem sets the quantity of a line; zero or less removes it.
func (s *Service) UpdateCartItem(ctx context.Context, userID, productID string, quantity int) (*CartResponse, error) {
	if quantity <= 0 {
		return s.RemoveCartItem(ctx, userID, productID)
	}
	return s.mutateCart(ctx, userID, func(ctx context.Context, c *cart.Cart) error {
		p, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if quantity > p.StockQuantity {
			return apperrors.OutOfStock(p.Name)
		}
		return c.SetQuantity(productID, quantity)
	})
}

func (s *Service) RemoveCartItem(ctx context.Context, userID, productID string) (*CartResponse, error) {
	return s.mutateCart(ctx, userID, func(_ context.Context, c *cart.Cart) error {
		c.Remove(productID)
		return nil
	})
}

// ClearCart empties the cart. Clearing an empty cart succeeds.
func (s *Service) ClearCart(ctx context.Context, userID string) (*CartResponse, error) {
	return s.mutateCart(ctx, userID, func(_ context.Context, c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

func (s *Service) mutateCart(ctx context.Context, userID string, fn func(ctx context.Context, c *cart.Cart) error) (*CartResponse, error) {
	var result *cart.Cart
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		c, err := s.carts.Load(ctx, userID)
		if err != nil {
			return err
		}
		if err := fn(ctx, c); err != nil {
			return err
		}
		if err := s.carts.Save(ctx, userID, c); err != nil {
			return err
		}
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCartResponse(result), nil
}

// ============================================================================
// Wishlist
// ============================================================================

func (s *Service) GetWishlist(ctx context.Context, userID string) (*WishlistResponse, error) {
	w, err := s.wishlists.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &WishlistResponse{Items: w.Entries()}, nil
}

// ToggleWishlist adds the product when absent and removes it when present.
func (s *Service) ToggleWishlist(ctx context.Context, userID, productID string) (*WishlistToggleResponse, error) {
	var resp *WishlistToggleResponse
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		p, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		w, err := s.wishlists.Load(ctx, userID)
		if err != nil {
			return err
		}
		action := w.Toggle(p, s.now())
		if err := s.wishlists.Save(ctx, userID, w); err != nil {
			return err
		}
		resp = &WishlistToggleResponse{Action: action, Items: w.Entries()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ============================================================================
// Checkout
// ============================================================================

// ValidateDiscount resolves a code. Unknown codes wrap checkout.ErrInvalidDiscount.
func (s *Service) ValidateDiscount(_ context.Context, code string) (*DiscountResponse, error) {
	d, err := checkout.LookupDiscount(code)
	if err != nil {
		return nil, err
	}
	return toDiscountResponse(d), nil
}

func (s *Service) ShippingMethods() *ShippingMethodsResponse {
	return &ShippingMethodsResponse{Methods: append([]checkout.ShippingMethod(nil), s.shipping...)}
}

func (s *Service) PaymentMethods() *PaymentMethodsResponse {
	return &PaymentMethodsResponse{Methods: append([]checkout.PaymentMethod(nil), s.payment...)}
}

func (s *Service) shippingMethod(id string) (checkout.ShippingMethod, error) {
	for _, m := range s.shipping {
		if m.ID == id {
			return m, nil
		}
	}
	return checkout.ShippingMethod{}, shared.NewValidationError("order", "shippingMethod", "unknown shipping method "+id)
}

func (s *Service) paymentMethod(id string) (checkout.PaymentMethod, error) {
	for _, m := range s.payment {
		if m.ID == id {
			return m, nil
		}
	}
	return checkout.PaymentMethod{}, shared.NewValidationError("order", "paymentMethod", "unknown payment method "+id)
}

// ============================================================================
// Orders
// ============================================================================

// PlaceOrder prices the submitted items from the catalogue, checks stock,
// stores the order, decrements stock and empties the user's cart, all in
// one unit of work.
func (s *Service) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*OrderResponse, error) {
	if req.UserID != "" && req.UserID != userID {
		return nil, shared.NewForbiddenError("order", "orders can only be placed for the signed-in user")
	}

	var placed order.Placement
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		priced := cart.New()
		products := make(map[string]catalog.Product, len(req.Items))
		for _, item := range req.Items {
			p, err := s.products.FindByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if err := priced.Add(p, item.Quantity); err != nil {
				return err
			}
			products[p.ID] = p
		}
		lines := priced.Lines()
		for _, l := range lines {
			if l.Quantity > products[l.ProductID].StockQuantity {
				return apperrors.OutOfStock(l.Name)
			}
		}

		var discount *checkout.Discount
		code := checkout.NormalizeCode(req.DiscountCode)
		if code != "" {
			d, err := checkout.LookupDiscount(code)
			if err != nil {
				return err
			}
			discount = &d
		}
		shipping, err := s.shippingMethod(req.ShippingMethod)
		if err != nil {
			return err
		}
		payment, err := s.paymentMethod(req.PaymentMethod)
		if err != nil {
			return err
		}

		summary := s.policy.ComputeWithShipping(lines, discount, shipping.Cost)
		request, err := order.NewRequest(lines, summary, code, shipping.ID, payment.ID, req.ShippingAddress)
		if err != nil {
			return err
		}

		id, err := s.orders.NextIdentity(ctx)
		if err != nil {
			return err
		}
		o, err := order.New(id, s.now().UTC(), request.Items, checkout.Round2(summary.Total), order.StatusProcessing)
		if err != nil {
			return err
		}

		for _, l := range lines {
			p := products[l.ProductID]
			p.StockQuantity -= l.Quantity
			if err := s.products.Save(ctx, p); err != nil {
				return err
			}
		}
		placed = order.Placement{
			Order:          o,
			UserID:         userID,
			Summary:        summary,
			DiscountCode:   code,
			ShippingMethod: shipping.ID,
			PaymentMethod:  payment.ID,
			Address:        req.ShippingAddress,
		}
		if err := s.orders.Save(ctx, placed); err != nil {
			return err
		}
		if err := s.carts.Save(ctx, userID, cart.New()); err != nil {
			return err
		}

		receipt := order.Receipt{OrderID: o.ID, Status: o.Status, Total: o.Total, Date: o.Date}
		s.uow.Collect(ctx, order.NewPlacedEvent(userID, receipt, o.ItemCount()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.Total > 0 && checkout.Round2(req.Total) != placed.Order.Total {
		s.log.Info("client total differs from server price",
			zap.String("order_id", placed.Order.ID),
			zap.Float64("client_total", req.Total),
			zap.Float64("server_total", placed.Order.Total))
	}
	s.log.Info("order placed",
		zap.String("order_id", placed.Order.ID),
		zap.String("user_id", userID),
		zap.Float64("total", placed.Order.Total))
	return toOrderResponse(placed), nil
}

// OrderHistory returns userID's orders as flat rows, most recent first.
// Only the user themselves may read it.
func (s *Service) OrderHistory(ctx context.Context, requesterID, userID string) (*OrderHistoryResponse, error) {
	if requesterID != userID {
		return nil, shared.NewForbiddenError("order", "order history of another user")
	}
	placements, err := s.orders.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toHistoryRows(placements), nil
}

// GetOrder returns one of userID's orders. Orders of other users are reported
// as not found.
func (s *Service) GetOrder(ctx context.Context, userID, orderID string) (*OrderResponse, error) {
	p, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, shared.NewNotFoundError("order")
	}
	return toOrderResponse(p), nil
}

// ============================================================================
// Seeding
// ============================================================================

// Seed loads products into an empty catalogue and creates the demo account
// with its historical order. Running it again changes nothing.
func (s *Service) Seed(ctx context.Context, products []catalog.Product) error {
	existing, err := s.products.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		for _, p := range products {
			if err := s.products.Save(ctx, p); err != nil {
				return err
			}
		}
		s.log.Info("catalogue seeded", zap.Int("products", len(products)))
	}

	_, err = s.accounts.FindByUsername(ctx, user.DemoUsername)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, shared.ErrNotFound):
		return err
	}

	demo, err := user.NewAccount(user.DemoCredentials())
	if err != nil {
		return err
	}
	demo.ID = user.DemoUserID
	history := user.DemoOrder()

	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.accounts.Save(ctx, demo); err != nil {
			return err
		}
		return s.orders.Save(ctx, order.Placement{
			Order:          history,
			UserID:         demo.ID,
			Summary:        s.policy.Compute(history.Items, nil, checkout.ShippingStandard),
			ShippingMethod: checkout.ShippingStandard,
			PaymentMethod:  checkout.PaymentCard,
		})
	})
	if err != nil {
		return err
	}
	s.log.Info("demo account seeded", zap.String("username", demo.Username))
	return nil
}
