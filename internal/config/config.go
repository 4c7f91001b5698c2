package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Auth modes
const (
	AuthModeJWT   = "jwt"
	AuthModeFixed = "fixed"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL     string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBSlowThreshold time.Duration

	// Session
	JWTSecret      string
	SessionTTL     time.Duration
	AuthMode       string
	AuthFixedEmail string

	// CORS
	AllowedOrigins []string

	// Login throttling, attempts per minute per client IP
	LoginRatePerMinute int

	// Settings cache
	SettingsTTL time.Duration

	// Sentry
	SentryDSN string
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom reads configuration through v, which may carry flag bindings or a config file
func LoadFrom(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("SESSION_HOURS", 8)
	v.SetDefault("AUTH_MODE", AuthModeJWT)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
	v.SetDefault("SETTINGS_TTL", "5m")
	v.SetDefault("DB_MAX_OPEN_CONNS", 50)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_SLOW_THRESHOLD", "200ms")

	cfg := &Config{
		Port:               v.GetString("PORT"),
		Environment:        v.GetString("ENVIRONMENT"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		DBMaxOpenConns:     v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:     v.GetInt("DB_MAX_IDLE_CONNS"),
		DBSlowThreshold:    v.GetDuration("DB_SLOW_THRESHOLD"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		SessionTTL:         time.Duration(v.GetInt("SESSION_HOURS")) * time.Hour,
		AuthMode:           strings.ToLower(v.GetString("AUTH_MODE")),
		AuthFixedEmail:     v.GetString("AUTH_FIXED_EMAIL"),
		AllowedOrigins:     splitList(v.GetString("ALLOWED_ORIGINS")),
		LoginRatePerMinute: v.GetInt("LOGIN_RATE_PER_MINUTE"),
		SettingsTTL:        v.GetDuration("SETTINGS_TTL"),
		SentryDSN:          v.GetString("SENTRY_DSN"),
	}

	// Validate required configuration
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" && cfg.IsProduction() {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	switch cfg.AuthMode {
	case AuthModeJWT:
	case AuthModeFixed:
		if cfg.IsProduction() {
			return nil, fmt.Errorf("AUTH_MODE=fixed is not allowed in production")
		}
		if cfg.AuthFixedEmail == "" {
			return nil, fmt.Errorf("AUTH_FIXED_EMAIL is required when AUTH_MODE=fixed")
		}
	default:
		return nil, fmt.Errorf("unknown AUTH_MODE %q", cfg.AuthMode)
	}

	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_HOURS must be positive")
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
