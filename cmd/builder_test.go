package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/config"
	"storefront/domain/catalog"
	"storefront/domain/checkout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyFallsBackToDefaults(t *testing.T) {
	assert.Equal(t, checkout.DefaultPolicy(), Policy(config.CheckoutConfig{}))

	p := Policy(config.CheckoutConfig{TaxRate: 0.2, ExpressShipping: 25})
	assert.Equal(t, 0.2, p.TaxRate)
	assert.Equal(t, 25.0, p.ExpressShipping)
	assert.Equal(t, checkout.DefaultPolicy().StandardShipping, p.StandardShipping)
}

func TestBuildMemoryStore(t *testing.T) {
	cfg := config.Default()
	cfg.App.Env = "test"
	products := []catalog.Product{{ID: "p1", Name: "Desk Lamp", Price: 24.5, Category: "Home", StockQuantity: 3}}

	app, err := NewBuilder(cfg).WithProducts(products).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ":8080", app.server.Addr)
	assert.Nil(t, app.worker)

	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/products")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Products []catalog.Product `json:"products"`
			Count    int               `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	require.Equal(t, 1, body.Data.Count)
	assert.Equal(t, "Desk Lamp", body.Data.Products[0].Name)

	health, err := http.Get(srv.URL + "/api/v1/health/ready")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

func TestBuildRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Type = "postgres"
	_, err := NewBuilder(cfg).Build(context.Background())
	assert.ErrorContains(t, err, "unsupported database type")

	cfg = config.Default()
	cfg.Auth.JWTSecret = ""
	_, err = NewBuilder(cfg).Build(context.Background())
	assert.Error(t, err)
}
