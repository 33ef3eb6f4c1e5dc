package auth

import (
	"errors"
	"net/http"

	"wellsync-backend/internal/token"
	"wellsync-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"

// RequireAccessToken runs the guard for every matched route and injects the
// identity into the request context. Role checks belong to internal/rbac.
//
// Unmatched requests pass through untouched so gin can answer 404.
func RequireAccessToken(g *Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}

		d, err := g.Authorize(c.Request.Method, route, c.Request.URL.Path, c.GetHeader(authorizationHeader))
		if err != nil {
			logger.FromGin(c).Warn("auth rejected", "path", c.Request.URL.Path, "reason", err.Error())
			if errors.Is(err, ErrMissingCredential) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if d.Authenticated {
			c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), d.Identity))
			c.Set(logger.SubjectKey, d.Identity.Subject)
		}
		c.Next()
	}
}

// HandlerFunc is a handler that receives the caller's identity explicitly.
type HandlerFunc func(c *gin.Context, id token.Claims)

// Authenticated adapts h to gin. A request that reaches it without an
// identity (e.g. a route wrongly marked public) is answered with 401.
func Authenticated(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c.Request.Context())
		if !ok || id.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}
		h(c, id)
	}
}
