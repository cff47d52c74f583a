package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/api"
	"storefront/api/response"
	"storefront/application/commerce"
	"storefront/config"
	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/checkout"
	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/domain/user"
	"storefront/infrastructure/persistence/memory"
	"storefront/infrastructure/remote"
	"storefront/pkg/auth"
	"storefront/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		App:  config.AppConfig{Name: "storefront", Env: "test"},
		Auth: config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour},
	}
	issuer, err := auth.NewIssuer(cfg.Auth)
	require.NoError(t, err)

	svc := commerce.NewService(commerce.Repositories{
		Products:  memory.NewProductRepository(nil),
		Accounts:  memory.NewAccountRepository(),
		Carts:     memory.NewCartRepository(),
		Wishlists: memory.NewWishlistRepository(),
		Orders:    memory.NewOrderRepository(),
	}, memory.NewUnitOfWork(shared.NewEventBus(), nil), checkout.DefaultPolicy())
	require.NoError(t, svc.Seed(context.Background(), catalog.SampleProducts()))

	router := api.NewRouter(cfg, svc, issuer, nil)
	router.SetupRoutes()
	srv := httptest.NewServer(router.GetEngine())
	t.Cleanup(srv.Close)
	return srv
}

func newClient(srv *httptest.Server) *remote.Client {
	fast := retry.DefaultConfig
	fast.InitialDelay = time.Millisecond
	fast.MaxDelay = time.Millisecond
	return remote.New(config.RemoteConfig{BaseURL: srv.URL + "/api/v1", Timeout: 2 * time.Second}, nil, remote.WithRetry(fast))
}

func TestStorefrontFlowAgainstAPI(t *testing.T) {
	srv := newServer(t)
	client := newClient(srv)
	ctx := context.Background()

	list, err := client.ListProducts(ctx)
	require.NoError(t, err)
	assert.True(t, list.BackendAvailable)
	assert.Len(t, list.Products, len(catalog.SampleProducts()))

	found, err := client.SearchProducts(ctx, "atlas")
	require.NoError(t, err)
	require.Len(t, found.Products, 1)
	assert.Equal(t, "t4", found.Products[0].ID)

	p, err := client.GetProduct(ctx, "t4")
	require.NoError(t, err)
	assert.Equal(t, "Atlas Workstation 16", p.Name)

	u, err := client.Login(ctx, user.DemoUsername, user.DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, user.DemoUserID, u.ID)

	me, err := client.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.DemoEmail, me.Email)

	lines, err := client.AddToCart(ctx, "t1", 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	lines, err = client.UpdateCartItem(ctx, "t1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, lines[0].Quantity)
	lines, err = client.RemoveFromCart(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, lines)
	lines, err = client.AddToCart(ctx, "t1", 1)
	require.NoError(t, err)

	action, wishlist, err := client.ToggleWishlistItem(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, user.WishlistAdded, action)
	assert.Len(t, wishlist, 1)

	d, err := client.ValidateDiscount(ctx, " save10 ")
	require.NoError(t, err)
	assert.Equal(t, 10.0, d.Percent)
	_, err = client.ValidateDiscount(ctx, "bogus")
	assert.True(t, errors.Is(err, checkout.ErrInvalidDiscount))

	shipping, err := client.ShippingMethods(ctx)
	require.NoError(t, err)
	assert.Len(t, shipping, 2)

	summary := checkout.DefaultPolicy().Compute(lines, &d, checkout.ShippingStandard)
	req, err := order.NewRequest(lines, summary, d.Code, checkout.ShippingStandard, checkout.PaymentCard, nil)
	require.NoError(t, err)
	receipt, err := client.SubmitOrder(ctx, u.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 777.59, receipt.Total)
	assert.Equal(t, order.StatusProcessing, receipt.Status)

	lines, err = client.GetCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)

	history, err := client.GetOrderHistory(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, receipt.OrderID, history[0].ID)
	assert.Equal(t, "DEMO-1001", history[1].ID)
	assert.Len(t, history[1].Items, 2)

	placed, err := client.GetOrder(ctx, receipt.OrderID)
	require.NoError(t, err)
	assert.Equal(t, 777.59, placed.Total)

	token := client.Token()
	require.NoError(t, client.Logout(ctx))
	client.SetToken(token)
	_, err = client.Profile(ctx)
	assert.True(t, errors.Is(err, shared.ErrAuthRequired), "revoked token must be rejected")
}

func TestRegisterAndLoginErrorsNameTheField(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()

	_, err := newClient(srv).Register(ctx, user.Credentials{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = newClient(srv).Register(ctx, user.Credentials{Username: "alice", Email: "other@example.com", Password: "secret1"})
	require.True(t, errors.Is(err, shared.ErrInvalidInput))
	assert.Equal(t, "username", shared.FieldOf(err))

	_, err = newClient(srv).Login(ctx, "alice", "wrong-pass")
	require.True(t, errors.Is(err, shared.ErrUnauthorized))
	assert.Equal(t, "password", shared.FieldOf(err))
}

func TestOrderRejectionsReachTheClient(t *testing.T) {
	srv := newServer(t)
	client := newClient(srv)
	ctx := context.Background()

	_, err := client.Register(ctx, user.Credentials{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)

	laptop, ok := catalog.FindProduct(catalog.SampleProducts(), "t4")
	require.True(t, ok)
	l, err := cart.NewLine(laptop, 6)
	require.NoError(t, err)
	req := order.Request{
		Items:          []cart.Line{l},
		ShippingMethod: checkout.ShippingStandard,
		PaymentMethod:  checkout.PaymentCard,
	}
	_, err = client.SubmitOrder(ctx, "", req)
	require.True(t, errors.Is(err, shared.ErrOrderSubmission))
	assert.Contains(t, err.Error(), "Atlas Workstation 16")

	_, err = client.GetOrderHistory(ctx, user.DemoUserID)
	assert.True(t, errors.Is(err, shared.ErrForbidden))
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/cart")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body response.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "AUTH_REQUIRED", body.Error)
}
