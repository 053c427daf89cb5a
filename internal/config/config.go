package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the core runtime configuration for the service.
// Values are primarily sourced from environment variables, with
// sensible defaults where appropriate. See .env.example.
type Config struct {
	ListenAddr string

	DatabaseURL string
	// DatabaseURLProd is used by cmd/refresh when invoked with -prod,
	// so the weekly snapshot job can target production from anywhere.
	DatabaseURLProd string

	// FrontendURL is where users land after the Google OAuth callback.
	FrontendURL string

	// AllowedOrigins are the CORS origins permitted to call the API
	// with credentials. Comma-separated in APP_ALLOWED_ORIGINS.
	AllowedOrigins []string

	GoogleClientID     string
	GoogleClientSecret string
	// GoogleRedirectURL must match the redirect URI registered with
	// Google for this client.
	GoogleRedirectURL string

	// SessionTTL controls how long session cookies and their backing
	// rows stay valid.
	SessionTTL time.Duration

	// CookieSecure marks session cookies Secure; leave off for local
	// plain-HTTP development.
	CookieSecure bool

	// RedisAddr enables the response cache for the public card
	// endpoints when set. Empty disables caching entirely.
	RedisAddr      string
	PublicCacheTTL time.Duration

	// SnapshotRefreshEnabled runs the free-tier snapshot refresh as an
	// in-process worker instead of relying on cmd/refresh + cron.
	SnapshotRefreshEnabled  bool
	SnapshotRefreshInterval time.Duration
}

// Load reads configuration from environment variables and applies defaults.
func Load() *Config {
	cfg := &Config{
		ListenAddr:      getenv("APP_LISTEN_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("APP_DATABASE_URL"),
		DatabaseURLProd: os.Getenv("APP_DATABASE_URL_PROD"),
		FrontendURL:     getenv("APP_FRONTEND_URL", "http://localhost:3000"),

		GoogleClientID:     os.Getenv("APP_GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("APP_GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  getenv("APP_GOOGLE_REDIRECT_URL", "http://localhost:8080/v1/auth/google/callback"),

		SessionTTL:   30 * 24 * time.Hour,
		CookieSecure: getenv("APP_COOKIE_SECURE", "false") == "true",

		RedisAddr:      os.Getenv("APP_REDIS_ADDR"),
		PublicCacheTTL: 5 * time.Minute,

		SnapshotRefreshEnabled:  getenv("APP_SNAPSHOT_REFRESH_ENABLED", "false") == "true",
		SnapshotRefreshInterval: 7 * 24 * time.Hour,
	}

	origins := getenv("APP_ALLOWED_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if v := os.Getenv("APP_SESSION_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			cfg.SessionTTL = time.Duration(hours) * time.Hour
		}
	}
	if v := os.Getenv("APP_PUBLIC_CACHE_TTL_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.PublicCacheTTL = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("APP_SNAPSHOT_REFRESH_INTERVAL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			cfg.SnapshotRefreshInterval = time.Duration(hours) * time.Hour
		}
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
