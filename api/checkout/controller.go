package checkout

import (
	"storefront/api/ctxutil"
	"storefront/api/response"
	"storefront/application/commerce"

	"github.com/gin-gonic/gin"
)

// Controller serves checkout reference data. None of it needs a session.
type Controller struct {
	service *commerce.Service
}

func NewController(service *commerce.Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) RegisterRoutes(public *gin.RouterGroup) {
	group := public.Group("/checkout")
	{
		group.POST("/discount", c.ValidateDiscount)
		group.GET("/shipping-methods", c.ShippingMethods)
		group.GET("/payment-methods", c.PaymentMethods)
	}
}

// ValidateDiscount POST /api/v1/checkout/discount. Unknown codes answer 400
// INVALID_DISCOUNT.
func (c *Controller) ValidateDiscount(ctx *gin.Context) {
	var req commerce.DiscountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}
	d, err := c.service.ValidateDiscount(ctxutil.WithRequestID(ctx), req.Code)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, gin.H{"discount": d}, "discount applied")
}

func (c *Controller) ShippingMethods(ctx *gin.Context) {
	response.HandleSuccess(ctx, c.service.ShippingMethods(), "shipping methods retrieved")
}

func (c *Controller) PaymentMethods(ctx *gin.Context) {
	response.HandleSuccess(ctx, c.service.PaymentMethods(), "payment methods retrieved")
}
