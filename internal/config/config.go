package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration required by the API process.
// All values come from env (or a .env file next to the binary).
// No business logic should depend on raw environment variables.
type Config struct {
	App   AppConfig
	Auth  AuthConfig
	DB    DBConfig
	Redis RedisConfig
}

type AppConfig struct {
	Env  string `env:"APP_ENV" envDefault:"local"`
	Port int    `env:"PORT" envDefault:"3000"`
}

type AuthConfig struct {
	// JWTSecret signs and verifies every token. Never log it.
	JWTSecret       string `env:"AUTH_JWT_SECRET"`
	TokenTTLSeconds int    `env:"AUTH_TOKEN_TTL_SECONDS" envDefault:"3600"`

	DevTokenRateLimit  int           `env:"AUTH_DEV_TOKEN_RATE_LIMIT" envDefault:"30"`
	DevTokenRateWindow time.Duration `env:"AUTH_DEV_TOKEN_RATE_WINDOW" envDefault:"1m"`
}

// TokenTTL is the lifetime applied when an issuance request does not name one.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLSeconds) * time.Second
}

type DBConfig struct {
	// URL is optional outside production; the audit trail falls back to memory.
	URL string `env:"DATABASE_URL"`
}

type RedisConfig struct {
	// Addr enables the dev-token rate limiter when set.
	Addr string `env:"REDIS_ADDR"`
}

// Load reads .env (if present) and the process environment, then validates.
func Load() (Config, error) {
	// Missing .env is normal in containers.
	_ = godotenv.Load()

	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadAuth reads only the app and auth sections, for tools that mint or
// check tokens without serving HTTP.
func LoadAuth() (AppConfig, AuthConfig, error) {
	_ = godotenv.Load()

	var c struct {
		App  AppConfig
		Auth AuthConfig
	}
	if err := env.Parse(&c); err != nil {
		return AppConfig{}, AuthConfig{}, err
	}
	c.App.Env = strings.TrimSpace(c.App.Env)

	var errs []error
	if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, test, staging, production, got %q", c.App.Env))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	}
	if err := joinErrors(errs); err != nil {
		return AppConfig{}, AuthConfig{}, err
	}
	return c.App, c.Auth, nil
}

func (c *Config) normalize() {
	c.App.Env = strings.TrimSpace(c.App.Env)
	c.DB.URL = strings.TrimSpace(c.DB.URL)
	c.Redis.Addr = strings.TrimSpace(c.Redis.Addr)
}

func (c Config) Validate() error {
	var errs []error

	if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, test, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a valid port, got %d", c.App.Port))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	}
	if c.Auth.TokenTTLSeconds <= 0 {
		errs = append(errs, fmt.Errorf("AUTH_TOKEN_TTL_SECONDS must be positive, got %d", c.Auth.TokenTTLSeconds))
	}
	if c.Auth.DevTokenRateLimit <= 0 {
		errs = append(errs, fmt.Errorf("AUTH_DEV_TOKEN_RATE_LIMIT must be positive, got %d", c.Auth.DevTokenRateLimit))
	}
	if c.Auth.DevTokenRateWindow <= 0 {
		errs = append(errs, fmt.Errorf("AUTH_DEV_TOKEN_RATE_WINDOW must be positive, got %s", c.Auth.DevTokenRateWindow))
	}

	if c.IsProduction() && c.DB.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required in production"))
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "test", "staging", "production":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
