package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"wellsync-backend/internal/audit"
	"wellsync-backend/internal/token"
	"wellsync-backend/pkg/logger"
	"wellsync-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RateLimiter gates dev-token issuance per client. *utils.FixedWindowLimiter satisfies it.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (utils.RateDecision, error)
}

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Tokens *token.Manager
	Audit  *audit.Service

	// Limiter is optional; nil disables dev-token rate limiting.
	Limiter RateLimiter

	// Production disables the dev-token endpoint.
	Production bool

	Clock func() time.Time
}

func (h Handlers) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now()
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- Auth ---

type devTokenRequest struct {
	Sub              string `json:"sub" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Role             string `json:"role"`
	ExpiresInSeconds *int   `json:"expiresInSeconds" binding:"omitempty,gt=0,lte=31536000"`
}

type devTokenResponse struct {
	TokenType        string `json:"tokenType"`
	AccessToken      string `json:"accessToken"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

// DevToken mints a token for local development and testing.
// Disabled in production; rate limited per client IP when a limiter is set.
func (h Handlers) DevToken(c *gin.Context) {
	if h.Production {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "dev token endpoint is disabled in production"})
		return
	}
	if h.Tokens == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	log := logger.FromGin(c)

	if h.Limiter != nil {
		d, err := h.Limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// limiter outages must not lock developers out
			log.Error("dev token rate limit check failed", "err", err)
		} else if !d.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(d.RetryAfter.Round(time.Second)/time.Second)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
	}

	var req devTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	ir := token.IssueRequest{Subject: req.Sub, Email: req.Email, Role: req.Role}
	if req.ExpiresInSeconds != nil {
		ir.Lifetime = time.Duration(*req.ExpiresInSeconds) * time.Second
	}

	issued, err := h.Tokens.Issue(h.now(), ir)
	if err != nil {
		if errors.Is(err, token.ErrMissingSubject) || errors.Is(err, token.ErrInvalidLifetime) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Error("token issuance failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}

	if h.Audit != nil {
		if err := h.Audit.LogTokenIssued(c.Request.Context(), c.ClientIP(), req.Sub, req.Role, issued.ExpiresIn); err != nil {
			log.Warn("audit write failed", "action", audit.ActionTokenIssued, "err", err)
		}
	}

	c.JSON(http.StatusCreated, devTokenResponse{
		TokenType:        "Bearer",
		AccessToken:      issued.AccessToken,
		ExpiresInSeconds: int64(issued.ExpiresIn / time.Second),
	})
}

// Logout is stateless: tokens are not revocable, the client discards them.
func (h Handlers) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"message": "Logged out. Clear the Bearer token client-side.",
	})
}

type identityResponse struct {
	Sub       string    `json:"sub"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h Handlers) Me(c *gin.Context, id token.Claims) {
	c.JSON(http.StatusOK, identityResponse{
		Sub:       id.Subject,
		Email:     id.Email,
		Role:      id.Role,
		ExpiresAt: id.ExpiresAtTime().UTC(),
	})
}

// --- Admin ---

// AdminLogs lists audit entries, newest first. RBAC: admin.
func (h Handlers) AdminLogs(c *gin.Context, _ token.Claims) {
	if h.Audit == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "audit not configured"})
		return
	}

	limit := audit.DefaultListLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1000 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 1000"})
			return
		}
		limit = n
	}

	entries, err := h.Audit.List(c.Request.Context(), limit)
	if err != nil {
		logger.FromGin(c).Error("audit list failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "audit lookup failed"})
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

// AuditDenied is the role-guard deny hook. Audit failures are logged only.
func (h Handlers) AuditDenied(c *gin.Context, id token.Claims, required string) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.LogAccessDenied(c.Request.Context(), id.Subject, id.Role, c.FullPath(), required); err != nil {
		logger.FromGin(c).Warn("audit write failed", "action", audit.ActionAccessDenied, "err", err)
	}
}
