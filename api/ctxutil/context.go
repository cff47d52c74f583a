package ctxutil

import (
	"context"

	"storefront/api/response"
	"storefront/infrastructure/persistence"
	"storefront/pkg/auth"

	"github.com/gin-gonic/gin"
)

const claimsKey = "auth_claims"

// WithRequestID carries the gin request ID into a plain context.
func WithRequestID(c *gin.Context) context.Context {
	return persistence.ContextWithRequestID(c.Request.Context(), response.GetRequestID(c))
}

func RequestIDFromContext(ctx context.Context) string {
	return persistence.RequestIDFromContext(ctx)
}

func SetClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(claimsKey, claims)
}

func Claims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// UserID is the signed-in user, empty on public routes.
func UserID(c *gin.Context) string {
	if claims := Claims(c); claims != nil {
		return claims.UserID
	}
	return ""
}
