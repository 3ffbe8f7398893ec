package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPAddr          = ":8080"
	defaultDatabaseURL       = "lodgecred.db"
	defaultSessionTTL        = "24h"
	defaultAuthCodeTTL       = "1h"
	defaultAuthCleanupEvery  = "1h"
	defaultCredentialViewTTL = "8m"
	defaultCookieSecure      = "false"
	defaultCookieSameSite    = "Lax"
	defaultPublicBaseURL     = "http://localhost:8080"
	defaultUploadsDir        = "./uploads"
	defaultMaxUploadBytes    = 5 * 1024 * 1024
	defaultRequireNote       = "true"
	defaultDevMailer         = "true"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultAuthCodePepper    = "change-me-auth-code-pepper"
)

// Config is the runtime configuration of the API and the ops commands.
type Config struct {
	AppEnv            string
	HTTPAddr          string
	DatabaseURL       string
	JWTSecret         string
	SessionTTL        time.Duration
	AuthCodeTTL       time.Duration
	AuthCodePepper    string
	AuthCleanupEvery  time.Duration
	CredentialViewTTL time.Duration
	CookieSecure      bool
	CookieSameSite    string
	PublicBaseURL     string
	UploadsDir        string
	MaxUploadBytes    int64
	RequireNote       bool
	DevMailer         bool
	MetricsToken      string
	CORSOrigins       []string
}

func Load() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.AuthCodePepper = strings.TrimSpace(getEnv("AUTH_CODE_PEPPER", defaultAuthCodePepper))
	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("PUBLIC_BASE_URL", defaultPublicBaseURL)), "/")
	cfg.UploadsDir = strings.TrimSpace(getEnv("UPLOADS_DIR", defaultUploadsDir))
	cfg.MetricsToken = strings.TrimSpace(os.Getenv("METRICS_TOKEN"))

	var err error
	cfg.SessionTTL, err = parseDurationEnv("SESSION_TTL", defaultSessionTTL)
	if err != nil {
		return nil, err
	}
	cfg.AuthCodeTTL, err = parseDurationEnv("AUTH_CODE_TTL", defaultAuthCodeTTL)
	if err != nil {
		return nil, err
	}
	cfg.AuthCleanupEvery, err = parseDurationEnv("AUTH_CLEANUP_INTERVAL", defaultAuthCleanupEvery)
	if err != nil {
		return nil, err
	}
	cfg.CredentialViewTTL, err = parseDurationEnv("CREDENTIAL_VIEW_TTL", defaultCredentialViewTTL)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes, err = parseInt64Env("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}

	cfg.CookieSecure = parseBoolEnv("COOKIE_SECURE", defaultCookieSecure)
	cfg.CookieSameSite = strings.TrimSpace(getEnv("COOKIE_SAMESITE", defaultCookieSameSite))
	cfg.RequireNote = parseBoolEnv("REQUIRE_NOTE_FOR_REJECTION", defaultRequireNote)
	cfg.DevMailer = parseBoolEnv("DEV_MAILER", defaultDevMailer)

	// пример: CORS_ALLOWED_ORIGINS=https://app.com,https://admin.app.com
	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if cfg.AuthCodeTTL <= 0 {
		return fmt.Errorf("AUTH_CODE_TTL must be > 0")
	}
	if cfg.AuthCleanupEvery < 0 {
		return fmt.Errorf("AUTH_CLEANUP_INTERVAL must be >= 0")
	}
	if cfg.CredentialViewTTL <= 0 {
		return fmt.Errorf("CREDENTIAL_VIEW_TTL must be > 0")
	}
	if cfg.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be > 0")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.CookieSameSite == "" {
		return fmt.Errorf("COOKIE_SAMESITE must not be empty")
	}
	sameSite := strings.ToLower(cfg.CookieSameSite)
	if sameSite != "lax" && sameSite != "none" && sameSite != "strict" {
		return fmt.Errorf("COOKIE_SAMESITE must be one of: Lax, None, Strict")
	}
	if sameSite == "none" && !cfg.CookieSecure {
		return fmt.Errorf("COOKIE_SECURE must be true when COOKIE_SAMESITE=None")
	}
	if !strings.HasPrefix(cfg.PublicBaseURL, "http://") && !strings.HasPrefix(cfg.PublicBaseURL, "https://") {
		return fmt.Errorf("PUBLIC_BASE_URL must be an absolute http(s) URL")
	}

	if IsProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.AuthCodePepper, defaultAuthCodePepper) {
			return fmt.Errorf("in prod/release AUTH_CODE_PEPPER must be set and not default")
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
	}

	return nil
}

// IsProdLike reports whether env names a production deployment.
func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseInt64Env(name string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
