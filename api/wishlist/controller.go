package wishlist

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
	private.GET("/wishlist", c.Get)
	private.POST("/wishlist/toggle", c.Toggle)
}

func (c *Controller) Get(ctx *gin.Context) {
	resp, err := c.service.GetWishlist(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, resp, "wishlist retrieved")
}

// Toggle adds the product when absent and removes it otherwise.
func (c *Controller) Toggle(ctx *gin.Context) {
	var req commerce.WishlistToggleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}
	resp, err := c.service.ToggleWishlist(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx), req.ProductID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, resp, "wishlist updated")
}
