package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
	"github.com/angelmondragon/packfinderz-storefront/internal/notifications"
	"github.com/angelmondragon/packfinderz-storefront/internal/storefront"
	"github.com/angelmondragon/packfinderz-storefront/pkg/config"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/metrics"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	_ = godotenv.Load()

	var opts cliOptions
	flag.StringVar(&opts.cmd, "cmd", "products", "command: "+commandList)
	flag.StringVar(&opts.profile, "profile", "default", "shopper profile kept in the state store")
	flag.StringVar(&opts.id, "id", "", "product, category or order id")
	flag.StringVar(&opts.image, "image", "", "selected product image")
	flag.StringVar(&opts.size, "size", "", "selected product size")
	flag.StringVar(&opts.name, "name", "", "full name (register, checkout)")
	flag.StringVar(&opts.email, "email", "", "email address")
	flag.StringVar(&opts.phone, "phone", "", "phone number")
	flag.StringVar(&opts.password, "password", "", "account password")
	flag.StringVar(&opts.otp, "otp", "", "one-time code from registration")
	flag.StringVar(&opts.address, "address", "", "shipping address (checkout)")
	flag.StringVar(&opts.code, "code", "", "discount code (checkout)")
	flag.StringVar(&opts.payment, "payment", "cash_on_delivery", "payment method (checkout)")
	flag.BoolVar(&opts.metrics, "metrics", false, "print backend call counters on exit")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})
	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"cmd":     opts.cmd,
		"profile": opts.profile,
	})

	state, err := openState(ctx, cfg, opts.profile, logg)
	requireResource(ctx, logg, "state store", err)
	if err := state.Ping(ctx); err != nil {
		_ = state.Close()
		requireResource(ctx, logg, "state store", err)
	}

	reg := prometheus.NewRegistry()
	clientOpts := []backend.Option{
		backend.WithTimeout(cfg.API.Timeout),
		backend.WithMetrics(metrics.NewAPIClientMetrics(reg)),
		backend.WithLogger(logg),
	}
	if cfg.API.Tracing {
		clientOpts = append(clientOpts, backend.WithTracing())
	}
	client, err := backend.NewClient(cfg.API.BaseURL, clientOpts...)
	requireResource(ctx, logg, "backend client", err)

	logNotifier, err := notifications.NewLogNotifier(logg)
	requireResource(ctx, logg, "notifier", err)

	app, err := storefront.New(ctx, storefront.Options{
		Client:          client,
		Store:           state,
		Notifier:        notifications.Fanout{notifications.NewConsoleNotifier(os.Stderr), logNotifier},
		Logger:          logg,
		DiscountPercent: cfg.Discount.DefaultPercent,
	})
	requireResource(ctx, logg, "storefront", err)

	if err := boot(ctx, app, opts.cmd); err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "startup sync failed, running command anyway")
	}
	runErr := run(ctx, app, opts, os.Stdout)

	if opts.metrics {
		reportMetrics(ctx, logg, os.Stderr, reg)
	}
	if err := state.Close(); err != nil {
		logg.Error(ctx, "error closing state store", err)
	}
	if runErr != nil {
		logg.Error(ctx, "command failed", runErr)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("failed to init %s", name), err)
	os.Exit(1)
}
