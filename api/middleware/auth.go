package middleware

import (
	"net/http"
	"strings"

	"storefront/api/ctxutil"
	"storefront/api/response"
	"storefront/pkg/auth"
	"storefront/pkg/errors"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid bearer token and stores its claims.
func AuthMiddleware(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			response.Abort(c, http.StatusUnauthorized, errors.CodeAuthRequired, "sign in required", "")
			return
		}

		claims, err := issuer.Parse(strings.TrimSpace(token))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, errors.CodeUnauthorized, auth.ErrInvalidToken.Error(), "")
			return
		}

		ctxutil.SetClaims(c, claims)
		c.Next()
	}
}
