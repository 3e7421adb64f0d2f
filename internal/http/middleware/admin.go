package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/contract-payments/internal/auth"
	"github.com/nurpe/contract-payments/internal/http/response"
)

const claimsKey = "claims"

type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

// Auth requires an admin bearer token. A nil parser disables the check.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if parser == nil {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Error(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := parser.Parse(strings.TrimSpace(token))
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}
		if !claims.IsAdmin() {
			response.Error(c, http.StatusUnauthorized, "admin role required")
			c.Abort()
			return
		}

		c.Set(claimsKey, *claims)
		c.Next()
	}
}
