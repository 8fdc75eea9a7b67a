package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/packfinderz-storefront/api/middleware"
	"github.com/angelmondragon/packfinderz-storefront/api/routes"
	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
	"github.com/angelmondragon/packfinderz-storefront/internal/identity"
	"github.com/angelmondragon/packfinderz-storefront/internal/mockbackend"
	"github.com/angelmondragon/packfinderz-storefront/internal/notifications"
	"github.com/angelmondragon/packfinderz-storefront/internal/storefront"
	"github.com/angelmondragon/packfinderz-storefront/pkg/auth"
	"github.com/angelmondragon/packfinderz-storefront/pkg/config"
	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/metrics"
)

const testSecret = "cli-test-secret"

// newTestApp wires an app against an in-process mock backend without booting it.
func newTestApp(t *testing.T, state identity.Store) (*storefront.App, *notifications.Recorder) {
	t.Helper()
	store := mockbackend.NewStore(config.PasswordConfig{
		ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 8, ArgonKeyLen: 16,
	})
	require.NoError(t, mockbackend.Seed(store))

	cfg := &config.Config{}
	cfg.Mock.JWTSecret = testSecret
	cfg.Mock.TokenTTL = time.Hour
	srv := httptest.NewServer(routes.NewRouter(cfg, logger.Nop(), store, nil))
	t.Cleanup(srv.Close)

	client, err := backend.NewClient(srv.URL + "/api")
	require.NoError(t, err)
	rec := notifications.NewRecorder()
	app, err := storefront.New(context.Background(), storefront.Options{
		Client:   client,
		Store:    state,
		Notifier: rec,
	})
	require.NoError(t, err)
	return app, rec
}

func testApp(t *testing.T) *storefront.App {
	t.Helper()
	app, _ := newTestApp(t, identity.NewMemoryStore())
	require.NoError(t, app.Boot(context.Background()))
	return app
}

func TestLogoutClearsExpiredToken(t *testing.T) {
	ctx := context.Background()
	state := identity.NewMemoryStore()
	expired, err := auth.Mint(testSecret, middleware.TokenIssuer, time.Hour, time.Now().Add(-2*time.Hour), auth.ShopperClaims{
		UserID: "user-stale",
		Name:   "Ayesha Khan",
		Email:  "ayesha@example.com",
	})
	require.NoError(t, err)
	require.NoError(t, state.Put(ctx, identity.KeyAuthToken, expired))
	app, rec := newTestApp(t, state)

	err = app.Boot(ctx)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, enums.NotificationLevelError, last.Level)

	require.NoError(t, boot(ctx, app, "logout"))
	require.NoError(t, run(ctx, app, cliOptions{cmd: "logout"}, &bytes.Buffer{}))

	_, ok, err = state.Lookup(ctx, identity.KeyAuthToken)
	require.NoError(t, err)
	assert.False(t, ok)
	id, err := app.Identity.Current(ctx)
	require.NoError(t, err)
	assert.True(t, id.IsGuest())
	require.NoError(t, app.Boot(ctx))
}

func TestBootSkipsCartForLocalCommands(t *testing.T) {
	ctx := context.Background()
	state := identity.NewMemoryStore()
	expired, err := auth.Mint(testSecret, middleware.TokenIssuer, time.Hour, time.Now().Add(-2*time.Hour), auth.ShopperClaims{
		UserID: "user-stale",
		Name:   "Ayesha Khan",
		Email:  "ayesha@example.com",
	})
	require.NoError(t, err)
	require.NoError(t, state.Put(ctx, identity.KeyAuthToken, expired))
	app, rec := newTestApp(t, state)

	require.NoError(t, boot(ctx, app, "whoami"))
	assert.Empty(t, rec.All())

	var out bytes.Buffer
	require.NoError(t, run(ctx, app, cliOptions{cmd: "whoami"}, &out))
	assert.Contains(t, out.String(), "ayesha@example.com")

	_, ok, err := state.Lookup(ctx, identity.KeyGuestID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunCatalogCommands(t *testing.T) {
	app := testApp(t)
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), app, cliOptions{cmd: "category", id: "cat-men"}, &out))
	assert.Contains(t, out.String(), "prod-classic-tee")
	assert.Contains(t, out.String(), "prod-oxford-shirt")
	assert.NotContains(t, out.String(), "prod-linen-dress")
}

func TestRunCheckout(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, run(ctx, app, cliOptions{cmd: "add", id: "prod-oxford-shirt", size: "L"}, &out))
	out.Reset()

	err := run(ctx, app, cliOptions{
		cmd:     "checkout",
		name:    "Bilal Ahmed",
		email:   "bilal@example.com",
		phone:   "03001234567",
		address: "5 Ferozepur Road, Lahore",
		code:    "SAVE20",
		payment: "cash_on_delivery",
	}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "subtotal: 4500.00")
	assert.Contains(t, out.String(), "discount: 20%")
	assert.Contains(t, out.String(), "total: 3600.00")
	assert.Contains(t, out.String(), "placed, total 3600.00")
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	app := testApp(t)
	err := run(context.Background(), app, cliOptions{cmd: "nope"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	err = run(context.Background(), app, cliOptions{cmd: "product"}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestPrintMetricsListsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewAPIClientMetrics(reg)
	m.Observe("cart.add", "ok", time.Millisecond)

	var out bytes.Buffer
	require.NoError(t, printMetrics(&out, reg))
	assert.Contains(t, out.String(), `endpoint="cart.add"`)
	assert.Contains(t, out.String(), `outcome="ok"`)
	assert.NotContains(t, out.String(), "duration")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("stderr closed") }

func TestReportMetricsLogsWriteFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewAPIClientMetrics(reg).Observe("catalog.products", "ok", time.Millisecond)

	var logs bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "storefront", Output: &logs})
	reportMetrics(context.Background(), logg, failingWriter{}, reg)

	assert.Contains(t, logs.String(), "could not print metrics")
	assert.Contains(t, logs.String(), "stderr closed")
}
