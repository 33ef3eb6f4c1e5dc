package rbac

import (
	"errors"
	"net/http"

	"wellsync-backend/internal/auth"
	"wellsync-backend/internal/token"
	"wellsync-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

var ErrForbidden = errors.New("rbac: forbidden")

// Check applies a declared role requirement. Roles are flat: the caller's
// role must equal required exactly (case-sensitive), with no hierarchy.
// An empty requirement always passes.
func Check(id token.Claims, authenticated bool, required string) error {
	if required == "" {
		return nil
	}
	if !authenticated || id.Role != required {
		return ErrForbidden
	}
	return nil
}

// DenyHook observes role denials, e.g. to write an audit entry.
type DenyHook func(c *gin.Context, id token.Claims, required string)

// RequireDeclaredRole enforces the role each operation declares in policies.
// It must run after auth.RequireAccessToken.
func RequireDeclaredRole(policies auth.PolicyResolver, onDeny DenyHook) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}

		required := policies.Resolve(c.Request.Method, route).RequiredRole
		if required == "" {
			c.Next()
			return
		}

		id, ok := auth.IdentityFrom(c.Request.Context())
		if err := Check(id, ok, required); err != nil {
			logger.FromGin(c).Warn("role denied", "path", route, "sub", id.Subject, "role", id.Role, "required", required)
			if onDeny != nil {
				onDeny(c, id, required)
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
