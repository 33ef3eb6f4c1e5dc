package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"wellsync-backend/internal/token"
)

func newTestRouter(g *Guard) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequireAccessToken(g))
	r.POST("/auth/dev-token", func(c *gin.Context) {
		_, ok := IdentityFrom(c.Request.Context())
		c.JSON(http.StatusCreated, gin.H{"identified": ok})
	})
	r.GET("/auth/me", Authenticated(func(c *gin.Context, id token.Claims) {
		c.JSON(http.StatusOK, gin.H{"sub": id.Subject, "email": id.Email, "role": id.Role})
	}))
	r.GET("/healthz", Authenticated(func(c *gin.Context, id token.Claims) {
		c.Status(http.StatusOK)
	}))
	return r
}

func TestRequireAccessToken_MissingToken(t *testing.T) {
	g, _ := newTestGuard(t, GuardOptions{})
	r := newTestRouter(g)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	assert.JSONEq(t, `{"error":"missing bearer token"}`, w.Body.String())
}

func TestRequireAccessToken_InvalidToken(t *testing.T) {
	g, _ := newTestGuard(t, GuardOptions{})
	r := newTestRouter(g)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	assert.JSONEq(t, `{"error":"invalid token"}`, w.Body.String())
}

func TestRequireAccessToken_AttachesIdentity(t *testing.T) {
	g, m := newTestGuard(t, GuardOptions{})
	r := newTestRouter(g)
	tok := issue(t, m, token.IssueRequest{Subject: "u-1000", Email: "a@example.com", Role: "user"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "bearer "+tok)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	assert.JSONEq(t, `{"sub":"u-1000","email":"a@example.com","role":"user"}`, w.Body.String())
}

func TestRequireAccessToken_PublicOperationHasNoIdentity(t *testing.T) {
	g, m := newTestGuard(t, GuardOptions{})
	r := newTestRouter(g)
	tok := issue(t, m, token.IssueRequest{Subject: "u-1000", Email: "a@example.com"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/dev-token", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	assert.JSONEq(t, `{"identified":false}`, w.Body.String())
}

func TestAuthenticated_RejectsWithoutIdentity(t *testing.T) {
	g, _ := newTestGuard(t, GuardOptions{})
	r := newTestRouter(g)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	assert.JSONEq(t, `{"error":"missing user identity"}`, w.Body.String())
}

func TestRequireAccessToken_UnmatchedRouteFallsThrough(t *testing.T) {
	g, _ := newTestGuard(t, GuardOptions{})
	r := newTestRouter(g)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
