package storefront

import (
	"context"
	"errors"

	"storefront/domain/cart"
	"storefront/domain/shared"
	"storefront/domain/user"
	"storefront/infrastructure/cache"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Login signs in against the backend. When the backend is unreachable the
// mock directory in the local cache is consulted and the session is marked
// offline. The call returns once the user is set; cart and wishlist load in
// the background.
func (c *Controller) Login(ctx context.Context, username, password string) (user.User, error) {
	creds := user.Credentials{Username: username, Password: password}
	if err := creds.ValidateLogin(); err != nil {
		return user.User{}, err
	}
	if !c.begin(IntentLogin) {
		return user.User{}, shared.NewIntentPendingError(IntentLogin)
	}
	defer c.end(IntentLogin)

	u, err := c.backend.Login(ctx, username, password)
	offline := false
	if err != nil {
		if !errors.Is(err, shared.ErrNetwork) {
			return user.User{}, err
		}
		c.log.Info("backend unreachable, trying local directory", zap.String("username", username))
		local, lerr := c.local.Authenticate(username, password)
		if lerr != nil {
			return user.User{}, lerr
		}
		u, offline = local, true
		if serr := c.local.SaveSession(cache.SessionState{User: u, Offline: true}); serr != nil {
			c.log.Warn("session not persisted", zap.Error(serr))
		}
	}
	c.signIn(u, offline)
	return u, nil
}

// Register creates an account and signs it in. Like Login it falls back to
// the local directory when the backend is unreachable.
func (c *Controller) Register(ctx context.Context, creds user.Credentials) (user.User, error) {
	if err := creds.ValidateRegistration(); err != nil {
		return user.User{}, err
	}
	if !c.begin(IntentRegister) {
		return user.User{}, shared.NewIntentPendingError(IntentRegister)
	}
	defer c.end(IntentRegister)

	u, err := c.backend.Register(ctx, creds)
	offline := false
	if err != nil {
		if !errors.Is(err, shared.ErrNetwork) {
			return user.User{}, err
		}
		local, lerr := c.local.RegisterUser(creds)
		if lerr != nil {
			return user.User{}, lerr
		}
		u, offline = local, true
		if serr := c.local.SaveSession(cache.SessionState{User: u, Offline: true}); serr != nil {
			c.log.Warn("session not persisted", zap.Error(serr))
		}
	}
	c.signIn(u, offline)
	return u, nil
}

// Logout always ends the local session, whatever the backend answers.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	prev := c.state.CurrentUser
	offline := c.state.Offline
	c.generation++
	c.resetUserState()
	c.mu.Unlock()

	if err := c.backend.Logout(ctx); err != nil {
		c.log.Warn("backend logout failed", zap.Error(err))
	}
	if err := c.local.ClearSession(); err != nil {
		c.log.Warn("session slot not cleared", zap.Error(err))
	}
	if prev != nil {
		c.publish(newSessionEvent(EventSignedOut, *prev, offline))
	}
	return nil
}

// resetUserState drops everything tied to the signed-in user. Callers hold mu.
func (c *Controller) resetUserState() {
	c.state.CurrentUser = nil
	c.state.Offline = false
	c.state.Cart = []cart.Line{}
	c.state.Wishlist = []user.WishlistEntry{}
	c.state.Orders = nil
	c.state.Discount = nil
	c.state.CartOpen = false
}

func (c *Controller) signIn(u user.User, offline bool) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.resetUserState()
	current := u
	current.Orders = nil
	c.state.CurrentUser = &current
	c.state.Offline = offline
	if len(u.Orders) > 0 {
		c.state.Orders = u.Orders
	}
	seen := loadVersions{cart: c.versions[resourceCart], wishlist: c.versions[resourceWishlist]}
	c.mu.Unlock()

	c.log.Info("signed in", zap.String("user_id", u.ID), zap.Bool("offline", offline))
	c.publish(newSessionEvent(EventSignedIn, u, offline))
	c.loadUserData(identity{user: u, offline: offline, generation: gen}, seen)
}

// loadVersions are the resource versions a background load started from.
type loadVersions struct {
	cart     uint64
	wishlist uint64
}

// loadUserData fetches cart and wishlist for id in the background. Each load
// falls back to the local cache on its own; neither fails the session. A load
// never overwrites a cart or wishlist replaced by a foreground intent while it
// was in flight.
func (c *Controller) loadUserData(id identity, seen loadVersions) {
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.loadTimeout)
		defer cancel()

		var g errgroup.Group
		g.Go(func() error {
			lines := c.fetchCart(ctx, id)
			if c.applyLoad(id.generation, seen.cart, resourceCart, func(s *Session) { s.Cart = lines }) {
				c.publish(newCartChangedEvent(id.user.ID, lines))
			}
			return nil
		})
		g.Go(func() error {
			entries := c.fetchWishlist(ctx, id)
			if c.applyLoad(id.generation, seen.wishlist, resourceWishlist, func(s *Session) { s.Wishlist = entries }) {
				c.publish(WishlistChangedEvent{
					BaseEvent: shared.NewBaseEvent(EventWishlistChanged, id.user.ID),
					Size:      len(entries),
				})
			}
			return nil
		})
		_ = g.Wait()
	}()
}

func (c *Controller) fetchCart(ctx context.Context, id identity) []cart.Line {
	if !id.offline {
		lines, err := c.backend.GetCart(ctx)
		if err == nil {
			return lines
		}
		c.log.Warn("cart load failed, using local cart", zap.String("user_id", id.user.ID), zap.Error(err))
	}
	return c.local.GetCart(id.user.ID)
}

func (c *Controller) fetchWishlist(ctx context.Context, id identity) []user.WishlistEntry {
	if !id.offline {
		entries, err := c.backend.GetWishlist(ctx)
		if err == nil {
			return entries
		}
		c.log.Warn("wishlist load failed, using local wishlist", zap.String("user_id", id.user.ID), zap.Error(err))
	}
	return c.local.GetWishlist(id.user.ID)
}

func newCartChangedEvent(userID string, lines []cart.Line) CartChangedEvent {
	return CartChangedEvent{
		BaseEvent: shared.NewBaseEvent(EventCartChanged, userID),
		Lines:     len(lines),
		ItemCount: cart.ItemCount(lines),
	}
}
