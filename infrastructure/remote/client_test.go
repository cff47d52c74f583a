package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront/config"
	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/checkout"
	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/domain/user"
	"storefront/infrastructure/cache"
	"storefront/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSlot struct {
	mu      sync.Mutex
	saved   *cache.SessionState
	cleared int
}

func (f *fakeSlot) SaveSession(st cache.SessionState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = &st
	return nil
}

func (f *fakeSlot) ClearSession() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = nil
	f.cleared++
	return nil
}

func fastRetry() retry.Config {
	c := retry.DefaultConfig
	c.InitialDelay = time.Millisecond
	c.MaxDelay = time.Millisecond
	return c
}

func newTestClient(t *testing.T, baseURL string) (*Client, *fakeSlot, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	slot := &fakeSlot{}
	cfg := config.RemoteConfig{BaseURL: baseURL, Timeout: 2 * time.Second}
	return New(cfg, slot, WithLogger(zap.New(core)), WithRetry(fastRetry())), slot, logs
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// deadURL returns the address of a server that is no longer listening.
func deadURL(t *testing.T) string {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func TestGetCartDropsMalformedLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, map[string]any{"items": []any{
			map[string]any{"productId": "t1", "name": "Aurora Smartphone", "price": 799.99, "quantity": 1},
			map[string]any{"productId": "t3", "name": "Zephyr Laptop 14", "price": "abc", "quantity": 1},
		}})
	}))
	defer srv.Close()

	c, _, logs := newTestClient(t, srv.URL)
	c.SetToken("tok")

	lines, err := c.GetCart(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "t1", lines[0].ProductID)
	assert.Equal(t, 1, logs.FilterMessage("dropping malformed record").Len())
}

func TestCartResponseShapes(t *testing.T) {
	item := map[string]any{"productId": "t5", "name": "Pulse Wireless Earbuds", "price": "129.99", "quantity": "2"}
	bodies := map[string]any{
		"array":          []any{item},
		"items":          map[string]any{"items": []any{item}, "total": 259.98},
		"envelope list":  map[string]any{"success": true, "code": 200, "data": []any{item}},
		"envelope items": map[string]any{"success": true, "code": 200, "data": map[string]any{"items": []any{item}}},
		"object cart":    map[string]any{"cart": []any{item}},
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, body)
			}))
			defer srv.Close()
			c, _, _ := newTestClient(t, srv.URL)
			c.SetToken("tok")

			lines, err := c.GetCart(context.Background())
			require.NoError(t, err)
			require.Len(t, lines, 1)
			assert.Equal(t, 2, lines[0].Quantity)
			assert.InDelta(t, 129.99, lines[0].Price, 1e-9)
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, shapeText, classify([]byte("OK")).kind)
	assert.Equal(t, shapeText, classify([]byte(`"done"`)).kind)
	assert.Equal(t, shapeText, classify(nil).kind)
	assert.Equal(t, shapeArray, classify([]byte(`[]`)).kind)
	assert.Equal(t, shapeItems, classify([]byte(`{"items":[]}`)).kind)
	assert.Equal(t, shapeEnvelope, classify([]byte(`{"success":true,"data":null}`)).kind)
	assert.Equal(t, shapeObject, classify([]byte(`{"id":"1"}`)).kind)

	p := classify([]byte(`{"success":false,"error":"VALIDATION_ERROR","message":"email is invalid","field":"email","code":400}`))
	assert.True(t, p.failed())
	assert.Equal(t, "email is invalid", p.message())
	assert.Equal(t, "VALIDATION_ERROR", p.errorCode())
	assert.Equal(t, "email", p.field())
}

func TestMutationsRequireTokenWithoutCallingBackend(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()
	c, _, _ := newTestClient(t, srv.URL)
	ctx := context.Background()

	_, err := c.AddToCart(ctx, "t1", 1)
	assert.ErrorIs(t, err, shared.ErrAuthRequired)
	_, _, err = c.ToggleWishlistItem(ctx, "t1")
	assert.ErrorIs(t, err, shared.ErrAuthRequired)
	_, err = c.GetOrderHistory(ctx, "u1")
	assert.ErrorIs(t, err, shared.ErrAuthRequired)
	assert.Zero(t, hits.Load())
}

func TestAddToCartRefetches(t *testing.T) {
	var calls []string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		mu.Unlock()
		switch r.Method {
		case http.MethodPost:
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "t2", body["productId"])
			writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": nil})
		case http.MethodGet:
			writeJSON(w, http.StatusOK, []any{map[string]any{"productId": "t2", "name": "Nimbus Phone Mini", "price": 499.0, "quantity": 3}})
		}
	}))
	defer srv.Close()
	c, _, _ := newTestClient(t, srv.URL)
	c.SetToken("tok")

	lines, err := c.AddToCart(context.Background(), "t2", 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity, "server state wins over local arithmetic")
	assert.Equal(t, []string{"POST /cart/items", "GET /cart"}, calls)
}

func TestListProductsFallsBackWhenUnreachable(t *testing.T) {
	c, _, _ := newTestClient(t, deadURL(t))
	res, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	assert.False(t, res.BackendAvailable)
	assert.Equal(t, catalog.SampleProducts(), res.Products)
}

func TestListProductsEmptyIsNotFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	}))
	defer srv.Close()
	c, _, _ := newTestClient(t, srv.URL)
	res, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	assert.True(t, res.BackendAvailable)
	assert.NotNil(t, res.Products)
	assert.Empty(t, res.Products)
}

func TestIdempotentReadsRetryServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, []any{map[string]any{"id": "p1", "name": "Thing", "price": 1.0}})
	}))
	defer srv.Close()
	c, _, _ := newTestClient(t, srv.URL)

	res, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Products, 1)
	assert.Equal(t, int32(3), hits.Load())
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body loginBody
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Password != "demo123" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "AUTH_ERROR", "message": "invalid credentials", "code": 401})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "code": 200, "data": map[string]any{
			"token": "jwt-token",
			"user":  map[string]any{"id": "u1", "username": body.Username, "email": "demo@example.com"},
		}})
	}))
	defer srv.Close()
	c, slot, _ := newTestClient(t, srv.URL)
	ctx := context.Background()

	_, err := c.Login(ctx, "demo", "nope")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	assert.False(t, c.Authenticated())

	u, err := c.Login(ctx, "demo", "demo123")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "jwt-token", c.Token())
	require.NotNil(t, slot.saved)
	assert.Equal(t, "u1", slot.saved.User.ID)

	_, err = c.Login(ctx, "", "x")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestLoginUnreachableIsAuthErrorWithNetworkCause(t *testing.T) {
	c, _, _ := newTestClient(t, deadURL(t))
	_, err := c.Login(context.Background(), "demo", "demo123")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	assert.ErrorIs(t, err, shared.ErrNetwork)
}

func TestRegisterConflictMapsToField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]any{"success": false, "error": "CONFLICT", "message": "user with this email already exists", "code": 409})
	}))
	defer srv.Close()
	c, _, _ := newTestClient(t, srv.URL)

	_, err := c.Register(context.Background(), user.Credentials{Username: "ada", Email: "ada@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Equal(t, "email", shared.FieldOf(err))
}

func TestLogoutClearsSessionEvenWhenCallFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	c, slot, _ := newTestClient(t, srv.URL)
	c.SetToken("tok")

	err := c.Logout(context.Background())
	assert.Error(t, err)
	assert.False(t, c.Authenticated())
	assert.Equal(t, 1, slot.cleared)
}

func TestSubmitOrderRejectionCarriesServerMessage(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"success": false, "error": "OUT_OF_STOCK", "message": "insufficient stock for product t4", "code": 422})
	}))
	defer srv.Close()
	c, _, _ := newTestClient(t, srv.URL)
	c.SetToken("tok")

	lines := []cart.Line{{ProductID: "t4", Name: "Atlas Workstation 16", Price: 1899, Quantity: 9}}
	summary := checkout.DefaultPolicy().Compute(lines, nil, checkout.ShippingStandard)
	req, err := order.NewRequest(lines, summary, "", checkout.ShippingStandard, checkout.PaymentCard, nil)
	require.NoError(t, err)

	_, err = c.SubmitOrder(context.Background(), "u1", req)
	assert.ErrorIs(t, err, shared.ErrOrderSubmission)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "insufficient stock for product t4", de.Message)
	assert.Equal(t, int32(1), hits.Load())
}

func TestSubmitOrderReceipt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u1", body["userId"])
		assert.Contains(t, body, "subtotal")
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{"orderId": "1005", "status": "processing", "total": body["total"]}})
	}))
	defer srv.Close()
	c, _, _ := newTestClient(t, srv.URL)
	c.SetToken("tok")

	lines := []cart.Line{{ProductID: "t9", Name: "Drift Laptop Sleeve", Price: 39, Quantity: 1}}
	summary := checkout.DefaultPolicy().Compute(lines, nil, checkout.ShippingStandard)
	req, err := order.NewRequest(lines, summary, "", checkout.ShippingStandard, checkout.PaymentCard, nil)
	require.NoError(t, err)

	receipt, err := c.SubmitOrder(context.Background(), "u1", req)
	require.NoError(t, err)
	assert.Equal(t, "1005", receipt.OrderID)
	assert.InDelta(t, summary.Total, receipt.Total, 1e-9)
}

func TestGetOrderHistoryGroupsRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/u1/orders", r.URL.Path)
		writeJSON(w, http.StatusOK, []any{
			map[string]any{"orderNumber": 1001, "date": "2024-03-01T10:00:00Z", "total": 120.5, "productId": "t1", "name": "Phone", "price": 100, "quantity": 1},
			map[string]any{"orderNumber": 1001, "date": "2024-03-01T10:00:00Z", "total": 120.5, "productId": "t8", "name": "Case", "price": 10.25, "quantity": 2},
			map[string]any{"orderNumber": 1002, "date": "2024-03-05T10:00:00Z", "total": 39, "productId": "t9", "name": "Sleeve", "price": 39, "quantity": 1},
		})
	}))
	defer srv.Close()
	c, _, _ := newTestClient(t, srv.URL)
	c.SetToken("tok")

	orders, err := c.GetOrderHistory(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Len(t, orders[0].Items, 2)
	assert.Equal(t, "1002", orders[1].ID)
}

func TestValidateDiscount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["code"] != "SAVE10" {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "INVALID_DISCOUNT", "message": "invalid discount code", "code": 404})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"code": "SAVE10", "percent": 10, "description": "10% off your order"}})
	}))
	defer srv.Close()
	c, _, _ := newTestClient(t, srv.URL)
	ctx := context.Background()

	d, err := c.ValidateDiscount(ctx, " save10")
	require.NoError(t, err)
	assert.InDelta(t, 10, d.Percent, 1e-9)

	_, err = c.ValidateDiscount(ctx, "bogus")
	assert.ErrorIs(t, err, checkout.ErrInvalidDiscount)

	dead, _, _ := newTestClient(t, deadURL(t))
	_, err = dead.ValidateDiscount(ctx, "SAVE10")
	assert.ErrorIs(t, err, shared.ErrNetwork)
}
