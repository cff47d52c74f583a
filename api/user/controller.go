package user

import (
	"storefront/api/ctxutil"
	"storefront/api/response"
	"storefront/application/commerce"
	"storefront/pkg/auth"

	"github.com/gin-gonic/gin"
)

// Controller handles sign-up, sign-in and the caller's profile.
type Controller struct {
	service *commerce.Service
	issuer  *auth.Issuer
}

func NewController(service *commerce.Service, issuer *auth.Issuer) *Controller {
	return &Controller{service: service, issuer: issuer}
}

func (c *Controller) RegisterRoutes(public, private *gin.RouterGroup) {
	authGroup := public.Group("/auth")
	{
		authGroup.POST("/register", c.Register)
		authGroup.POST("/login", c.Login)
	}
	private.POST("/auth/logout", c.Logout)
	private.GET("/users/me", c.Me)
}

// Register POST /api/v1/auth/register
func (c *Controller) Register(ctx *gin.Context) {
	var req commerce.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	u, err := c.service.Register(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	session, err := c.session(u)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, session, "account created")
}

// Login POST /api/v1/auth/login
func (c *Controller) Login(ctx *gin.Context) {
	var req commerce.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	u, err := c.service.Authenticate(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	session, err := c.session(u)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, session, "signed in")
}

// Logout POST /api/v1/auth/logout revokes the presented token.
func (c *Controller) Logout(ctx *gin.Context) {
	c.issuer.Revoke(ctxutil.Claims(ctx))
	response.HandleSuccess(ctx, nil, "signed out")
}

// Me GET /api/v1/users/me
func (c *Controller) Me(ctx *gin.Context) {
	u, err := c.service.Profile(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, gin.H{"user": u}, "profile retrieved")
}

func (c *Controller) session(u *commerce.UserResponse) (*commerce.AuthResponse, error) {
	token, expires, err := c.issuer.Issue(u.ID, u.Username)
	if err != nil {
		return nil, err
	}
	return &commerce.AuthResponse{Token: token, ExpiresAt: expires, User: u}, nil
}
