package cmd

import (
	"context"
	"fmt"
	"net/http"

	"storefront/api"
	"storefront/api/health"
	"storefront/application/commerce"
	"storefront/config"
	"storefront/domain/catalog"
	"storefront/domain/checkout"
	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/domain/user"
	"storefront/infrastructure/persistence/memory"
	"storefront/infrastructure/persistence/mysql"
	"storefront/pkg/auth"
	"storefront/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Policy turns the checkout section into pricing constants.
func Policy(cfg config.CheckoutConfig) checkout.Policy {
	p := checkout.DefaultPolicy()
	if cfg.TaxRate > 0 {
		p.TaxRate = cfg.TaxRate
	}
	if cfg.FreeShippingThreshold > 0 {
		p.FreeShippingThreshold = cfg.FreeShippingThreshold
	}
	if cfg.StandardShipping > 0 {
		p.StandardShipping = cfg.StandardShipping
	}
	if cfg.ExpressShipping > 0 {
		p.ExpressShipping = cfg.ExpressShipping
	}
	return p
}

// AppBuilder assembles the development commerce API.
type AppBuilder struct {
	cfg      *config.Config
	products []catalog.Product
}

func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{
		cfg:      cfg,
		products: catalog.SampleProducts(),
	}
}

// WithProducts replaces the catalogue seeded into an empty store.
func (b *AppBuilder) WithProducts(products []catalog.Product) *AppBuilder {
	b.products = products
	return b
}

// Build wires stores, service and router, then seeds the catalogue and the
// demo account. The logger must be initialised.
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	logger.Info("Building application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("store", b.cfg.Database.Type))

	issuer, err := auth.NewIssuer(b.cfg.Auth)
	if err != nil {
		return nil, err
	}

	app := &App{config: b.cfg}
	var (
		repos commerce.Repositories
		uow   shared.UnitOfWork
		ping  health.Pinger
	)

	switch b.cfg.Database.Type {
	case "mysql":
		db, err := b.openDatabase()
		if err != nil {
			return nil, err
		}
		repos = commerce.Repositories{
			Products:  mysql.NewProductRepository(db),
			Accounts:  mysql.NewAccountRepository(db),
			Carts:     mysql.NewCartRepository(db),
			Wishlists: mysql.NewWishlistRepository(db),
			Orders:    mysql.NewOrderRepository(db),
		}
		uow = mysql.NewUnitOfWork(db, logger.Named("uow"))
		ping = func(ctx context.Context) error { return mysql.Ping(ctx, db) }
		app.db = db

		if b.cfg.Worker.Enabled {
			worker, err := mysql.NewOutboxWorker(
				mysql.NewOutboxRepository(db),
				&mysql.LoggingOutboxPublisher{Log: logger.Named("events")},
				b.cfg.Worker,
				logger.Get(),
			)
			if err != nil {
				return nil, err
			}
			app.worker = worker
		}
	case "memory", "":
		bus := shared.NewEventBus()
		handler := shared.NewLoggingEventHandler(logger.Named("events"))
		for _, name := range []string{user.EventRegistered, order.EventPlaced} {
			if err := bus.Subscribe(name, handler); err != nil {
				return nil, err
			}
		}
		repos = commerce.Repositories{
			Products:  memory.NewProductRepository(nil),
			Accounts:  memory.NewAccountRepository(),
			Carts:     memory.NewCartRepository(),
			Wishlists: memory.NewWishlistRepository(),
			Orders:    memory.NewOrderRepository(),
		}
		uow = memory.NewUnitOfWork(bus, logger.Named("uow"))
	default:
		return nil, fmt.Errorf("unsupported database type %q", b.cfg.Database.Type)
	}

	service := commerce.NewService(repos, uow, Policy(b.cfg.Checkout), commerce.WithLogger(logger.Get()))
	if err := service.Seed(ctx, b.products); err != nil {
		return nil, fmt.Errorf("seed store: %w", err)
	}

	router := api.NewRouter(b.cfg, service, issuer, ping)
	router.SetupRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}
	return app, nil
}

func (b *AppBuilder) openDatabase() (*gorm.DB, error) {
	logger.Info("Using MySQL/GORM persistence layer")
	db, err := mysql.FromAppConfig(b.cfg.Database).Connect()
	if err != nil {
		return nil, err
	}

	// schemas are migrated automatically outside production only
	if !b.cfg.IsProduction() {
		if err := mysql.AutoMigrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}
