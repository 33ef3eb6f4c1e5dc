package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wellsync-backend/internal/audit"
	"wellsync-backend/internal/auth"
	"wellsync-backend/internal/config"
	"wellsync-backend/internal/httpapi"
	"wellsync-backend/internal/token"
	"wellsync-backend/pkg/logger"
	"wellsync-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := token.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	// Audit trail: Postgres when configured, memory otherwise.
	var auditRepo audit.Repository = audit.NewMemoryRepo()
	if cfg.DB.URL != "" {
		db, err := utils.OpenPostgres(rootCtx, utils.PostgresDriver, cfg.DB.URL, utils.PostgresPoolConfig{})
		if err != nil {
			log.Error("postgres init failed", "err", err)
			os.Exit(1)
		}
		defer closeDB(db)

		repo := audit.NewPostgresRepo(db)
		if err := repo.EnsureSchema(rootCtx); err != nil {
			log.Error("audit schema init failed", "err", err)
			os.Exit(1)
		}
		auditRepo = repo
	} else {
		log.Warn("DATABASE_URL not set; audit entries are kept in memory")
	}

	h := httpapi.Handlers{
		Tokens:     tokens,
		Audit:      audit.NewService(auditRepo),
		Production: cfg.IsProduction(),
	}

	if cfg.Redis.Addr != "" {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.Redis.Addr})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()

		limiter, err := utils.NewFixedWindowLimiter(rdb, "ratelimit:dev-token:", cfg.Auth.DevTokenRateLimit, cfg.Auth.DevTokenRateWindow)
		if err != nil {
			log.Error("rate limiter init failed", "err", err)
			os.Exit(1)
		}
		h.Limiter = limiter
	}

	r := newRouter(log, h, auth.GuardOptions{RequireClaims: auth.RequireEmail})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "audit_postgres", cfg.DB.URL != "", "rate_limit", h.Limiter != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("postgres close failed", "err", err)
	}
}
