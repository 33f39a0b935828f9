package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.App.BaseDomain)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 25*time.Second, cfg.Events.Heartbeat)
	assert.False(t, cfg.BillingEnabled())
	assert.Equal(t, 3, cfg.RetryPolicy().MaxAttempts)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("APP_BASE_DOMAIN", "creators.example")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "creators.example", cfg.App.BaseDomain)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://u:p@db:5432/app", cfg.Database.URL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.True(t, cfg.BillingEnabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "postgres without url", mutate: func(c *Config) { c.Database.Driver = DriverPostgres }, wantErr: "DATABASE_URL"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "DATABASE_DRIVER"},
		{name: "no verifier", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: "AUTH_JWT_SECRET"},
		{name: "oidc without client", mutate: func(c *Config) { c.Auth.OIDCIssuer = "https://issuer" }, wantErr: "AUTH_OIDC_CLIENT_ID"},
		{name: "redis without addr", mutate: func(c *Config) { c.Redis = RedisConfig{Enabled: true} }, wantErr: "REDIS_ADDR"},
		{name: "no attempts", mutate: func(c *Config) { c.Retry.MaxAttempts = 0 }, wantErr: "RETRY_MAX_ATTEMPTS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Database: DatabaseConfig{Driver: DriverMemory},
				Auth:     AuthConfig{JWTSecret: "s"},
				Retry:    RetryConfig{MaxAttempts: 1},
				Cache:    CacheConfig{TTL: time.Minute},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
