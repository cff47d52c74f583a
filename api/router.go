package api

import (
	"net/http"

	"storefront/api/cart"
	"storefront/api/catalog"
	"storefront/api/checkout"
	"storefront/api/health"
	"storefront/api/middleware"
	"storefront/api/order"
	"storefront/api/user"
	"storefront/api/wishlist"
	"storefront/application/commerce"
	"storefront/config"
	"storefront/pkg/auth"

	"github.com/gin-gonic/gin"
)

// Router wires the development commerce API under /api/v1.
type Router struct {
	engine *gin.Engine
	config *config.Config
	issuer *auth.Issuer

	health   *health.Controller
	user     *user.Controller
	catalog  *catalog.Controller
	cart     *cart.Controller
	wishlist *wishlist.Controller
	checkout *checkout.Controller
	order    *order.Controller
}

func NewRouter(cfg *config.Config, service *commerce.Service, issuer *auth.Issuer, ping health.Pinger) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// order matters: the request ID must exist before anything logs
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit))

	return &Router{
		engine:   engine,
		config:   cfg,
		issuer:   issuer,
		health:   health.NewController(cfg, ping),
		user:     user.NewController(service, issuer),
		catalog:  catalog.NewController(service),
		cart:     cart.NewController(service),
		wishlist: wishlist.NewController(service),
		checkout: checkout.NewController(service),
		order:    order.NewController(service),
	}
}

func (r *Router) SetupRoutes() {
	public := r.engine.Group("/api/v1")
	private := r.engine.Group("/api/v1", middleware.AuthMiddleware(r.issuer))

	r.health.RegisterRoutes(public)
	r.user.RegisterRoutes(public, private)
	r.catalog.RegisterRoutes(public)
	r.checkout.RegisterRoutes(public)
	r.cart.RegisterRoutes(private)
	r.wishlist.RegisterRoutes(private)
	r.order.RegisterRoutes(private)

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
