package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port            string
	Env             string // development | production
	JWTSecret       string
	JWTExpiresIn    time.Duration
	JWTRefreshIn    time.Duration
	CORSOrigin      string
	RateLimitMax    int
	RateLimitWindow time.Duration
	BcryptCost      int
	StoreDSN        string
}

// Load reads configuration from the environment, falling back to
// development defaults. A .env file is honored when present. JWT_SECRET is
// required in production; in development a fixed insecure key is
// substituted so the server still starts.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getenv("PORT", "3000"),
		Env:             getenv("APP_ENV", "development"),
		JWTSecret:       getenv("JWT_SECRET", ""),
		JWTExpiresIn:    getduration("JWT_EXPIRES_IN", 24*time.Hour),
		JWTRefreshIn:    getduration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
		CORSOrigin:      getenv("CORS_ORIGIN", "*"),
		RateLimitMax:    getint("RATE_LIMIT_MAX", 100),
		RateLimitWindow: getduration("RATE_LIMIT_WINDOW", 15*time.Minute),
		BcryptCost:      getint("BCRYPT_COST", bcrypt.DefaultCost),
		StoreDSN:        getenv("STORE_DSN", ""),
	}

	if cfg.JWTSecret == "" {
		if cfg.Production() {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-only-insecure-secret"
	}
	return cfg, nil
}

// Production reports whether the service runs in production mode, which
// suppresses error detail in responses.
func (c *Config) Production() bool {
	return c.Env == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
