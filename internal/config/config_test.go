package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db"
user = "mentor"
dbname = "booking"

[booking]
conflict_mode = "slot"
timezone = "Europe/Moscow"
`)
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "sk_test_123", cfg.Payments.StripeSecretKey)
	assert.Equal(t, ConflictModeSlot, cfg.Booking.ConflictMode)
	assert.Equal(t, 60, cfg.Booking.DefaultHorizonDays)
	assert.Equal(t, 2, cfg.Booking.ReadRetries)
	assert.Equal(t, "Europe/Moscow", cfg.Booking.Location().String())
	assert.Contains(t, cfg.Database.DSN(), "password=secret")
	assert.Equal(t, "postgres://mentor:secret@db:5432/booking?sslmode=disable", cfg.Database.URL())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown conflict mode", func(c *Config) { c.Booking.ConflictMode = "hour" }},
		{"unknown timezone", func(c *Config) { c.Booking.Timezone = "Mars/Olympus" }},
		{"zero horizon", func(c *Config) { c.Booking.DefaultHorizonDays = 0 }},
		{"default above max", func(c *Config) { c.Booking.DefaultHorizonDays = 400 }},
		{"negative retries", func(c *Config) { c.Booking.ReadRetries = -1 }},
		{"zero draft ttl", func(c *Config) { c.Booking.DraftTTLMinutes = 0 }},
		{"zero capture timeout", func(c *Config) { c.Payments.CaptureTimeoutSeconds = 0 }},
		{"rate limit without rps", func(c *Config) { c.RateLimit.Enabled = true; c.RateLimit.RPS = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	assert.NoError(t, defaults().Validate())
}
