package cart

import (
	"storefront/api/ctxutil"
	"storefront/api/response"
	"storefront/application/commerce"

	"github.com/gin-gonic/gin"
)

// Controller exposes the signed-in user's cart. Every mutation answers with
// the whole cart.
type Controller struct {
	service *commerce.Service
}

func NewController(service *commerce.Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) RegisterRoutes(private *gin.RouterGroup) {
	cartGroup := private.Group("/cart")
	{
		cartGroup.GET("", c.Get)
		cartGroup.DELETE("", c.Clear)
		cartGroup.POST("/items", c.AddItem)
		cartGroup.PUT("/items/:id", c.UpdateItem)
		cartGroup.DELETE("/items/:id", c.RemoveItem)
	}
}

func (c *Controller) Get(ctx *gin.Context) {
	resp, err := c.service.GetCart(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx))
	c.reply(ctx, resp, err)
}

func (c *Controller) AddItem(ctx *gin.Context) {
	var req commerce.CartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}
	resp, err := c.service.AddToCart(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx), req)
	c.reply(ctx, resp, err)
}

// UpdateItem sets the quantity of product :id; zero or less removes it.
func (c *Controller) UpdateItem(ctx *gin.Context) {
	var req commerce.UpdateCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}
	resp, err := c.service.UpdateCartItem(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx), ctx.Param("id"), req.Quantity)
	c.reply(ctx, resp, err)
}

func (c *Controller) RemoveItem(ctx *gin.Context) {
	resp, err := c.service.RemoveCartItem(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx), ctx.Param("id"))
	c.reply(ctx, resp, err)
}

func (c *Controller) Clear(ctx *gin.Context) {
	resp, err := c.service.ClearCart(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx))
	c.reply(ctx, resp, err)
}

func (c *Controller) reply(ctx *gin.Context, resp *commerce.CartResponse, err error) {
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, resp, "cart retrieved")
}
