package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/application/storefront"
	"storefront/cmd"
	"storefront/config"
	"storefront/infrastructure/cache"
	"storefront/infrastructure/remote"
	"storefront/pkg/retry"

	"github.com/philippgille/gokv/encoding"
	"github.com/philippgille/gokv/syncmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) *cache.Store {
	t.Helper()
	local := cache.New(syncmap.NewStore(syncmap.Options{Codec: encoding.JSON}), nil)
	_, err := local.GetOrCreateDemoUser()
	require.NoError(t, err)
	return local
}

func newController(t *testing.T, baseURL string, local *cache.Store) *storefront.Controller {
	t.Helper()
	cfg := config.Default()
	cfg.Remote.BaseURL = baseURL
	cfg.Remote.Timeout = 2 * time.Second
	backend := remote.New(cfg.Remote, local, remote.WithRetry(retry.Config{Enabled: false, MaxAttempts: 1}))
	ctrl := storefront.New(backend, local, storefront.WithPolicy(cmd.Policy(cfg.Checkout)))
	require.NoError(t, ctrl.Start(context.Background()))
	t.Cleanup(ctrl.WaitBackground)
	return ctrl
}

func runScript(t *testing.T, ctrl *storefront.Controller, script string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, newConsole(ctrl, strings.NewReader(script), &out).Run(context.Background()))
	return out.String()
}

func TestConsoleCheckoutAgainstDevAPI(t *testing.T) {
	cfg := config.Default()
	cfg.App.Env = "test"
	app, err := cmd.NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	ctrl := newController(t, srv.URL+"/api/v1", newLocal(t))
	_, err = ctrl.Login(context.Background(), "demo", "demo123")
	require.NoError(t, err)
	ctrl.WaitBackground()

	out := runScript(t, ctrl, "products\nadd t1 1\ndiscount save10\ncheckout\norders\nfly\nquit\n")

	assert.Contains(t, out, "Signed in as Demo.")
	assert.Contains(t, out, "Aurora Smartphone")
	assert.Contains(t, out, "Applied SAVE10")
	assert.Contains(t, out, "placed: 777.59 (processing)")
	assert.Contains(t, out, "DEMO-1001")
	assert.Contains(t, out, `unknown command "fly"`)
	assert.Empty(t, ctrl.Snapshot().Cart)
}

func TestConsoleKeepsWorkingOffline(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	url := dead.URL
	dead.Close()

	ctrl := newController(t, url, newLocal(t))
	_, err := ctrl.Login(context.Background(), "demo", "demo123")
	require.NoError(t, err)
	ctrl.WaitBackground()

	out := runScript(t, ctrl, "add t5 2\nqty t5\nlogout\nadd t5 1\nquit\n")

	assert.Contains(t, out, "Store is offline")
	assert.Contains(t, out, "Signed in as Demo (offline).")
	assert.Contains(t, out, "t5")
	assert.Contains(t, out, "  2 x")
	assert.Contains(t, out, "usage: qty <productId> <qty>")
	assert.Contains(t, out, "Signed out.")
	assert.Contains(t, out, "Please sign in first.")
}

func TestConsoleRefreshReloadsCatalogue(t *testing.T) {
	cfg := config.Default()
	cfg.App.Env = "test"
	app, err := cmd.NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	ctrl := newController(t, srv.URL+"/api/v1", newLocal(t))
	out := runScript(t, ctrl, "refresh\nquit\n")

	assert.Equal(t, 2, strings.Count(out, "Connected. Sign in with"))
	assert.Contains(t, out, "Aurora Smartphone")
	assert.NotContains(t, out, "error: ")
	assert.True(t, ctrl.Snapshot().BackendAvailable)
}

func TestParseAddress(t *testing.T) {
	addr, err := parseAddress("Ada Lovelace; 1 Main St ;London;N1;UK")
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", addr.Street)
	assert.Equal(t, "UK", addr.Country)

	addr, err = parseAddress("")
	require.NoError(t, err)
	assert.Nil(t, addr)

	_, err = parseAddress("only;three;parts")
	assert.Error(t, err)
}
