package main

import (
	"log/slog"
	"net/http"

	"wellsync-backend/internal/auth"
	"wellsync-backend/internal/httpapi"
	"wellsync-backend/internal/rbac"
	"wellsync-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const apiVersion = "1.0"

// newRouter builds the engine. The guards read the policy table at request
// time, so they are installed before the routes that fill it.
func newRouter(log *slog.Logger, h httpapi.Handlers, guardOpts auth.GuardOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	table := auth.NewTable()
	guard := auth.NewGuard(h.Tokens, table, guardOpts)
	r.Use(auth.RequireAccessToken(guard))
	r.Use(rbac.RequireDeclaredRole(table, h.AuditDenied))

	registerRoutes(r, table, h)
	return r
}

// registerRoutes wires HTTP routes to handlers and records each operation's
// access policy. Keep this file free of business logic.
func registerRoutes(r *gin.Engine, table *auth.Table, h httpapi.Handlers) {
	public := auth.Policy{Public: true}

	// diagnostics
	table.Set(http.MethodGet, "/healthz", public)
	r.GET("/healthz", httpapi.Health)

	docs := httpapi.Docs{Title: "WellSync API", Version: apiVersion, Table: table}
	table.Set(http.MethodGet, "/docs-json", public)
	r.GET("/docs-json", docs.Serve)
	table.Set(http.MethodGet, "/docs", public)
	r.GET("/docs", docs.UI("/docs-json"))

	// AUTH routes
	authGroup := r.Group("/auth")
	{
		table.Set(http.MethodPost, "/auth/dev-token", public)
		authGroup.POST("/dev-token", h.DevToken)

		table.Set(http.MethodPost, "/auth/logout", public)
		authGroup.POST("/logout", h.Logout)

		table.Register(http.MethodGet, "/auth/me")
		authGroup.GET("/me", auth.Authenticated(h.Me))
	}

	// ADMIN routes
	// Every operation under /admin requires the admin role unless it declares otherwise.
	table.SetGroup("/admin", auth.Policy{RequiredRole: rbac.RoleAdmin})
	admin := r.Group("/admin")
	{
		table.Register(http.MethodGet, "/admin/logs")
		admin.GET("/logs", auth.Authenticated(h.AdminLogs))
	}
}
