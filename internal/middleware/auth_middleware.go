package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nookcoder/inventory-gateway/internal/auth"
	"github.com/nookcoder/inventory-gateway/internal/httpx"
)

// AuthMiddleware verifies the bearer token and puts its claims on the
// request context. It never touches storage.
func AuthMiddleware(jwtService auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httpx.AbortUnauthorized(c)
			return
		}

		// Expect format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			httpx.AbortUnauthorized(c)
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			httpx.AbortUnauthorized(c)
			return
		}

		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), claims))
		c.Next()
	}
}

// IdentityEmail returns the verified email for the request, or "".
func IdentityEmail(c *gin.Context) string {
	if claims, ok := auth.IdentityFromContext(c.Request.Context()); ok {
		return claims.Email
	}
	return ""
}
