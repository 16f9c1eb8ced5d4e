package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/nookcoder/inventory-gateway/internal/httpx"
)

// RoleFinder reports the stored role for an email. found is false when no
// user record exists.
type RoleFinder interface {
	FindRole(ctx context.Context, email string) (role string, found bool, err error)
}

// RequireRole lets the request through only when the caller's user record
// carries role. It must run after AuthMiddleware. The record is read on
// every request, so a revoked role takes effect immediately.
func RequireRole(finder RoleFinder, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := IdentityEmail(c)
		if email == "" {
			httpx.AbortUnauthorized(c)
			return
		}

		stored, found, err := finder.FindRole(c.Request.Context(), email)
		if err != nil {
			httpx.AbortInternal(c, err)
			return
		}
		if !found || stored != role {
			slog.WarnContext(c.Request.Context(), "role check denied",
				slog.String("email", email),
				slog.String("required_role", role),
			)
			httpx.AbortForbidden(c)
			return
		}
		c.Next()
	}
}

// EmailSource extracts the email a route is scoped to.
type EmailSource func(c *gin.Context) string

func PathParam(name string) EmailSource {
	return func(c *gin.Context) string { return c.Param(name) }
}

func QueryParam(name string) EmailSource {
	return func(c *gin.Context) string { return c.Query(name) }
}

// RequireSelf rejects the request with 403 unless the scoped email equals
// the caller's verified email. The chain is always aborted on mismatch.
func RequireSelf(source EmailSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := IdentityEmail(c)
		if email == "" {
			httpx.AbortUnauthorized(c)
			return
		}
		if scoped := source(c); scoped == "" || scoped != email {
			httpx.AbortForbidden(c)
			return
		}
		c.Next()
	}
}
