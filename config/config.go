package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"creator-platform/internal/infra/retry"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Stripe   StripeConfig   `mapstructure:"stripe"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Events   EventsConfig   `mapstructure:"events"`
}

type AppConfig struct {
	Port        string `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
	// public sites live at <subdomain>.<base_domain>
	BaseDomain string `mapstructure:"base_domain"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // postgres | memory
	URL    string `mapstructure:"url"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

type AuthConfig struct {
	JWTSecret    string `mapstructure:"jwt_secret"`
	OIDCIssuer   string `mapstructure:"oidc_issuer"`
	OIDCClientID string `mapstructure:"oidc_client_id"`
}

type StripeConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

type CORSConfig struct {
	Origin string `mapstructure:"origin"`
}

type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
}

type CacheConfig struct {
	TTL    time.Duration `mapstructure:"ttl"`
	Prefix string        `mapstructure:"prefix"`
}

type EventsConfig struct {
	Heartbeat time.Duration `mapstructure:"heartbeat"`
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Load reads .env (when present) and the environment. Every key maps to
// an upper-case variable with dots replaced: database.url -> DATABASE_URL.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := retry.DefaultPolicy()

	v.SetDefault("app.port", "8080")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.base_domain", "localhost")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.url", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "membership:recompute")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.oidc_issuer", "")
	v.SetDefault("auth.oidc_client_id", "")

	v.SetDefault("stripe.secret_key", "")
	v.SetDefault("stripe.webhook_secret", "")

	v.SetDefault("cors.origin", "http://localhost:3000")

	v.SetDefault("retry.max_attempts", def.MaxAttempts)
	v.SetDefault("retry.initial_interval", def.InitialInterval)
	v.SetDefault("retry.max_interval", def.MaxInterval)

	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.prefix", "creator")

	v.SetDefault("events.heartbeat", 25*time.Second)
}

// Validate reports every missing or inconsistent value at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER %q is not one of postgres, memory", c.Database.Driver))
	}

	if c.Auth.JWTSecret == "" && c.Auth.OIDCIssuer == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET or AUTH_OIDC_ISSUER is required"))
	}
	if c.Auth.OIDCIssuer != "" && c.Auth.OIDCClientID == "" {
		errs = append(errs, errors.New("AUTH_OIDC_CLIENT_ID is required with AUTH_OIDC_ISSUER"))
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, errors.New("REDIS_ADDR is required when redis is enabled"))
	}
	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, errors.New("RETRY_MAX_ATTEMPTS must be at least 1"))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL must be positive"))
	}

	return errors.Join(errs...)
}

func (c *Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts:     c.Retry.MaxAttempts,
		InitialInterval: c.Retry.InitialInterval,
		MaxInterval:     c.Retry.MaxInterval,
	}
}

// BillingEnabled reports whether stripe price sync can run.
func (c *Config) BillingEnabled() bool {
	return c.Stripe.SecretKey != ""
}
