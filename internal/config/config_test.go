package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, 25, cfg.Location.CandidateLimit)
	assert.Equal(t, 5*time.Second, cfg.Location.ProviderTimeout)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 30*time.Second, cfg.Reports.Cooldown)
	assert.False(t, cfg.SMS.Enabled())
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, NewDefaultConfig().Location, cfg.Location)
	assert.Equal(t, NewDefaultConfig().Reports, cfg.Reports)
}

func TestFromViper_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOCATION_CANDIDATE_LIMIT", "10")
	t.Setenv("LOCATION_PROVIDER_TIMEOUT", "750ms")
	t.Setenv("REPORT_COOLDOWN", "1m")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("TWILIO_PHONE_NUMBER", "+15550000000")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Location.CandidateLimit)
	assert.Equal(t, 750*time.Millisecond, cfg.Location.ProviderTimeout)
	assert.Equal(t, time.Minute, cfg.Reports.Cooldown)
	assert.True(t, cfg.SMS.Enabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown store", func(c *Config) { c.Store.Driver = "mongo" }},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = StorePostgres }},
		{"empty secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTL = 0 }},
		{"empty dataset path", func(c *Config) { c.Location.DatasetPath = "" }},
		{"zero provider timeout", func(c *Config) { c.Location.ProviderTimeout = 0 }},
		{"zero radius", func(c *Config) { c.Reports.NearbyRadiusKm = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := NewDefaultConfig()
	cfg.Store.Driver = StorePostgres
	cfg.Store.PostgresDSN = "postgres://localhost/policeapp?sslmode=disable"
	assert.NoError(t, cfg.Validate())
}

func TestNormalizePort(t *testing.T) {
	assert.Equal(t, ":8080", normalizePort("8080"))
	assert.Equal(t, ":8080", normalizePort(":8080"))
	assert.Equal(t, "127.0.0.1:80", normalizePort("127.0.0.1:80"))
	assert.Equal(t, "", normalizePort(""))
}
