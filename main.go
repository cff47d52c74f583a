// Command storefront is a console front end for the commerce API. It keeps
// working from the local cache when the API cannot be reached.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/application/storefront"
	"storefront/cmd"
	"storefront/config"
	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/infrastructure/cache"
	"storefront/infrastructure/remote"
	"storefront/pkg/logger"
	"storefront/pkg/retry"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	local, err := cache.Open(cfg.Cache, logger.Get())
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer func() {
		if err := local.Close(); err != nil {
			logger.Warn("Failed to close cache", zap.Error(err))
		}
	}()
	if cfg.Cache.SeedDemo {
		if _, err := local.GetOrCreateDemoUser(); err != nil {
			logger.Warn("Failed to seed demo user", zap.Error(err))
		}
	}

	backend := remote.New(cfg.Remote, local,
		remote.WithLogger(logger.Get()),
		remote.WithRetry(retry.FromAppConfig(cfg)),
	)

	events := shared.NewEventBus()
	handler := shared.NewLoggingEventHandler(logger.Named("events"))
	for _, name := range []string{
		storefront.EventSignedIn,
		storefront.EventSignedOut,
		storefront.EventAvailabilityChanged,
		order.EventPlaced,
	} {
		if err := events.Subscribe(name, handler); err != nil {
			return err
		}
	}

	ctrl := storefront.New(backend, local,
		storefront.WithLogger(logger.Get()),
		storefront.WithPolicy(cmd.Policy(cfg.Checkout)),
		storefront.WithEvents(events),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := ctrl.Start(ctx); err != nil {
		return err
	}
	defer ctrl.WaitBackground()

	return newConsole(ctrl, os.Stdin, os.Stdout).Run(ctx)
}
