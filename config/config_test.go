package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := fromEnv(envMap(map[string]string{
		"DATABASE_URL":   "postgres://localhost/scouting",
		"JWT_SECRET_KEY": "secret",
		"PUBLIC_URL":     "https://app.example.com/",
	}))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "https://app.example.com", cfg.PublicURL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.DriftSweepInterval)
	assert.Equal(t, time.Hour, cfg.InviteSweepInterval)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.False(t, cfg.R2.Enabled())
	assert.False(t, cfg.SMTP.Enabled())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := fromEnv(envMap(map[string]string{
		"DATABASE_URL":         "postgres://localhost/scouting",
		"JWT_SECRET_KEY":       "secret",
		"SERVER_PORT":          "9000",
		"DRIFT_SWEEP_INTERVAL": "0",
		"CORS_ALLOWED_ORIGINS": "https://a.example.com, https://b.example.com ,",
		"SMTP_HOST":            "smtp.example.com",
		"SMTP_PORT":            "465",
		"SMTP_FROM":            "noreply@example.com",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Zero(t, cfg.DriftSweepInterval)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, 465, cfg.SMTP.Port)
}

func TestFromEnvErrors(t *testing.T) {
	base := map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET_KEY": "s"}
	with := func(k, v string) map[string]string {
		m := map[string]string{}
		for key, val := range base {
			m[key] = val
		}
		m[k] = v
		return m
	}

	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "no database", env: map[string]string{"JWT_SECRET_KEY": "s"}},
		{name: "no secret", env: map[string]string{"DATABASE_URL": "postgres://x"}},
		{name: "bad port", env: with("SERVER_PORT", "http")},
		{name: "port out of range", env: with("SERVER_PORT", "70000")},
		{name: "bad interval", env: with("DRIFT_SWEEP_INTERVAL", "soon")},
		{name: "negative interval", env: with("INVITE_SWEEP_INTERVAL", "-1m")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromEnv(envMap(tt.env))
			assert.Error(t, err)
		})
	}
}
