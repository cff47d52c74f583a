/*
Package order exposes order placement and history.

Binding failures answer 400 through response.HandleError; everything the
service returns goes through response.HandleAppError, which maps it to a
status. A stock shortage is 422 OUT_OF_STOCK.
*/
package order

import (
	"storefront/api/ctxutil"
	"storefront/api/response"
	"storefront/application/commerce"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service *commerce.Service
}

func NewController(service *commerce.Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) RegisterRoutes(private *gin.RouterGroup) {
	orderGroup := private.Group("/orders")
	{
		orderGroup.POST("", c.PlaceOrder)
		orderGroup.GET("/:id", c.GetOrder)
	}
	private.GET("/users/:id/orders", c.History)
}

// PlaceOrder POST /api/v1/orders
func (c *Controller) PlaceOrder(ctx *gin.Context) {
	var req commerce.PlaceOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	o, err := c.service.PlaceOrder(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, gin.H{"order": o}, "order placed")
}

// GetOrder GET /api/v1/orders/:id. Orders of other users are reported as
// not found.
func (c *Controller) GetOrder(ctx *gin.Context) {
	o, err := c.service.GetOrder(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, gin.H{"order": o}, "order retrieved")
}

// History GET /api/v1/users/:id/orders answers one row per ordered product,
// most recent order first.
func (c *Controller) History(ctx *gin.Context) {
	h, err := c.service.OrderHistory(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, h, "order history retrieved")
}
