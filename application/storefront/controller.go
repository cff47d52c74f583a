/*
Package storefront is the application state controller of the console
storefront. It owns the Session and decides, per intent, whether the remote
commerce API or the local cache serves it.

Concurrency:
 1. Session state is guarded by one RWMutex; views only ever see copies.
 2. Cart mutations are serialized by cartMu, held across mutation and re-fetch.
 3. Sign-in and sign-out bump the generation. Background work captures the
    generation it was started for and its result is dropped when it changed.
 4. Every foreground result bumps the version of the resource it replaced.
    Background loads capture the version at start and are dropped when a
    foreground intent got there first.
*/
package storefront

import (
	"context"
	"sync"
	"time"

	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/checkout"
	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/domain/user"
	"storefront/infrastructure/cache"
	"storefront/infrastructure/remote"

	"go.uber.org/zap"
)

// Backend is the remote commerce API as the controller uses it.
type Backend interface {
	Login(ctx context.Context, username, password string) (user.User, error)
	Register(ctx context.Context, creds user.Credentials) (user.User, error)
	Logout(ctx context.Context) error
	SetToken(token string)

	ListProducts(ctx context.Context) (remote.FetchResult, error)

	GetCart(ctx context.Context) ([]cart.Line, error)
	AddToCart(ctx context.Context, productID string, quantity int) ([]cart.Line, error)
	UpdateCartItem(ctx context.Context, productID string, quantity int) ([]cart.Line, error)
	RemoveFromCart(ctx context.Context, productID string) ([]cart.Line, error)
	ClearCart(ctx context.Context) ([]cart.Line, error)

	GetWishlist(ctx context.Context) ([]user.WishlistEntry, error)
	ToggleWishlistItem(ctx context.Context, productID string) (user.WishlistAction, []user.WishlistEntry, error)

	ValidateDiscount(ctx context.Context, code string) (checkout.Discount, error)
	ShippingMethods(ctx context.Context) ([]checkout.ShippingMethod, error)
	PaymentMethods(ctx context.Context) ([]checkout.PaymentMethod, error)
	SubmitOrder(ctx context.Context, userID string, req order.Request) (order.Receipt, error)
	GetOrderHistory(ctx context.Context, userID string) ([]order.Order, error)
}

// LocalStore is the persisted mirror used when the backend is unreachable.
type LocalStore interface {
	Session() (cache.SessionState, bool)
	SaveSession(st cache.SessionState) error
	ClearSession() error

	Authenticate(identifier, password string) (user.User, error)
	RegisterUser(c user.Credentials) (user.User, error)

	GetCart(userID string) []cart.Line
	AddItem(userID string, p catalog.Product, quantity int) ([]cart.Line, error)
	UpdateItem(userID, productID string, quantity int) ([]cart.Line, error)
	RemoveItem(userID, productID string) ([]cart.Line, error)
	Clear(userID string) error

	GetWishlist(userID string) []user.WishlistEntry
	ToggleWishlist(userID string, p catalog.Product) (user.WishlistAction, []user.WishlistEntry, error)

	Orders(userID string) []order.Order
	AppendOrder(userID string, o order.Order) error
	ReplaceOrders(userID string, orders []order.Order) error
}

const (
	IntentLogin      = "login"
	IntentRegister   = "register"
	IntentPlaceOrder = "place-order"
	IntentDiscount   = "apply-discount"
)

const defaultLoadTimeout = 15 * time.Second

const (
	resourceCart     = "cart"
	resourceWishlist = "wishlist"
	resourceOrders   = "orders"
)

// Controller is the single source of truth for session state.
type Controller struct {
	backend Backend
	local   LocalStore
	events  shared.DomainEventPublisher
	policy  checkout.Policy
	log     *zap.Logger

	loadTimeout time.Duration

	mu         sync.RWMutex
	state      Session
	generation uint64
	versions   map[string]uint64

	cartMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]bool

	bg sync.WaitGroup
}

type Option func(*Controller)

func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) { c.log = log }
}

func WithPolicy(p checkout.Policy) Option {
	return func(c *Controller) { c.policy = p }
}

func WithEvents(events shared.DomainEventPublisher) Option {
	return func(c *Controller) { c.events = events }
}

// WithLoadTimeout bounds the background cart and wishlist loads after sign-in.
func WithLoadTimeout(d time.Duration) Option {
	return func(c *Controller) { c.loadTimeout = d }
}

func New(backend Backend, local LocalStore, opts ...Option) *Controller {
	c := &Controller{
		backend:     backend,
		local:       local,
		policy:      checkout.DefaultPolicy(),
		log:         zap.NewNop(),
		loadTimeout: defaultLoadTimeout,
		pending:     make(map[string]bool),
		versions:    make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.events == nil {
		c.events = shared.NewEventBus()
	}
	c.state = newSession(c.policy)
	c.log = c.log.Named("storefront")
	return c
}

// Events exposes the publisher so views can subscribe.
func (c *Controller) Events() shared.DomainEventPublisher {
	return c.events
}

// Start loads the catalogue and checkout options, then restores a persisted
// session. Read-path failures degrade to built-in data and never fail Start.
func (c *Controller) Start(ctx context.Context) error {
	if err := c.RefreshProducts(ctx); err != nil {
		c.log.Warn("product listing failed", zap.Error(err))
	}
	c.loadCheckoutOptions(ctx)

	st, ok := c.local.Session()
	if !ok {
		return nil
	}
	if !st.Offline {
		c.backend.SetToken(st.Token)
	}
	c.signIn(st.User, st.Offline)
	c.log.Info("session restored", zap.String("user_id", st.User.ID), zap.Bool("offline", st.Offline))
	return nil
}

func (c *Controller) loadCheckoutOptions(ctx context.Context) {
	shipping, err := c.backend.ShippingMethods(ctx)
	if err != nil || len(shipping) == 0 {
		if err != nil {
			c.log.Debug("using built-in shipping methods", zap.Error(err))
		}
		shipping = checkout.DefaultShippingMethods(c.policy)
	}
	payment, err := c.backend.PaymentMethods(ctx)
	if err != nil || len(payment) == 0 {
		if err != nil {
			c.log.Debug("using built-in payment methods", zap.Error(err))
		}
		payment = checkout.DefaultPaymentMethods()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ShippingMethods = shipping
	c.state.PaymentMethods = payment
	if _, ok := findShipping(shipping, c.state.ShippingMethod); !ok {
		c.state.ShippingMethod = shipping[0].ID
	}
	if _, ok := findPayment(payment, c.state.PaymentMethod); !ok {
		c.state.PaymentMethod = payment[0].ID
	}
}

// Snapshot returns a deep copy of the session.
func (c *Controller) Snapshot() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// IsPending reports whether intent is in flight. Views disable the
// triggering control while it is.
func (c *Controller) IsPending(intent string) bool {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	return c.pending[intent]
}

func (c *Controller) begin(intent string) bool {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	if c.pending[intent] {
		return false
	}
	c.pending[intent] = true
	return true
}

func (c *Controller) end(intent string) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	delete(c.pending, intent)
}

// WaitBackground blocks until background loads have finished.
func (c *Controller) WaitBackground() {
	c.bg.Wait()
}

// identity is the user an intent was issued for.
type identity struct {
	user       user.User
	offline    bool
	generation uint64
}

// requireUser rejects the intent when nobody is signed in. No store is touched.
func (c *Controller) requireUser(action string) (identity, error) {
	c.mu.RLock()
	u := c.state.CurrentUser
	id := identity{offline: c.state.Offline, generation: c.generation}
	c.mu.RUnlock()
	if u == nil {
		c.publish(newSignInRequiredEvent(action))
		return identity{}, shared.NewAuthRequiredError(action)
	}
	id.user = *u
	return id, nil
}

// apply runs fn against the session if gen is still current and bumps the
// version of resource what.
func (c *Controller) apply(gen uint64, what string, fn func(s *Session)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		c.log.Debug("discarding stale result", zap.String("result", what),
			zap.Uint64("generation", gen), zap.Uint64("current", c.generation))
		return false
	}
	fn(&c.state)
	c.versions[what]++
	return true
}

// applyLoad is apply for background loads. The result is also dropped when a
// foreground intent replaced resource what after the load captured seen.
func (c *Controller) applyLoad(gen, seen uint64, what string, fn func(s *Session)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation || seen != c.versions[what] {
		c.log.Debug("discarding stale result", zap.String("result", what),
			zap.Uint64("generation", gen), zap.Uint64("current", c.generation),
			zap.Uint64("version", seen), zap.Uint64("current_version", c.versions[what]))
		return false
	}
	fn(&c.state)
	return true
}

func (c *Controller) publish(event shared.DomainEvent) {
	if err := c.events.Publish(event); err != nil {
		c.log.Warn("event handler failed", zap.String("event", event.EventName()), zap.Error(err))
	}
}
