package catalog

import (
	"storefront/api/ctxutil"
	"storefront/api/response"
	"storefront/application/commerce"

	"github.com/gin-gonic/gin"
)

// Controller serves the public catalogue.
type Controller struct {
	service *commerce.Service
}

func NewController(service *commerce.Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) RegisterRoutes(public *gin.RouterGroup) {
	products := public.Group("/products")
	{
		products.GET("", c.List)
		products.GET("/search", c.Search)
		products.GET("/:id", c.Get)
	}
}

// List GET /api/v1/products
func (c *Controller) List(ctx *gin.Context) {
	list, err := c.service.ListProducts(ctxutil.WithRequestID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, list, "products retrieved")
}

// Search GET /api/v1/products/search?q=&category=&minPrice=&maxPrice=&sort=
func (c *Controller) Search(ctx *gin.Context) {
	var req commerce.SearchRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.HandleError(ctx, err, "invalid search parameters")
		return
	}

	list, err := c.service.SearchProducts(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, list, "products retrieved")
}

// Get GET /api/v1/products/:id
func (c *Controller) Get(ctx *gin.Context) {
	p, err := c.service.GetProduct(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, gin.H{"product": p}, "product retrieved")
}
