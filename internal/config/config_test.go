package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/orcr")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
	assert.Equal(t, AuthModeJWT, cfg.AuthMode)
	assert.Equal(t, 5*time.Minute, cfg.SettingsTTL)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 50, cfg.DBMaxOpenConns)
	assert.Equal(t, 200*time.Millisecond, cfg.DBSlowThreshold)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ENVIRONMENT", "")

	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database", map[string]string{}},
		{"production without secret", map[string]string{"DATABASE_URL": "x", "ENVIRONMENT": "production"}},
		{"fixed auth without email", map[string]string{"DATABASE_URL": "x", "AUTH_MODE": "fixed"}},
		{"fixed auth in production", map[string]string{"DATABASE_URL": "x", "ENVIRONMENT": "production", "JWT_SECRET": "s", "AUTH_MODE": "fixed", "AUTH_FIXED_EMAIL": "a@b"}},
		{"unknown auth mode", map[string]string{"DATABASE_URL": "x", "AUTH_MODE": "saml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.env {
				v.Set(k, val)
			}
			_, err := LoadFrom(v)
			assert.Error(t, err)
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("DATABASE_URL", "postgres://db/orcr")
	v.Set("ALLOWED_ORIGINS", "https://a.ph, https://b.ph")
	v.Set("AUTH_MODE", "FIXED")
	v.Set("AUTH_FIXED_EMAIL", "demo@lending.ph")
	v.Set("SETTINGS_TTL", "30s")

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.ph", "https://b.ph"}, cfg.AllowedOrigins)
	assert.Equal(t, AuthModeFixed, cfg.AuthMode)
	assert.Equal(t, 30*time.Second, cfg.SettingsTTL)
}
