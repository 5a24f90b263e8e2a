package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/brandsync/brandsync/internal/domain/pricing"
	"github.com/brandsync/brandsync/internal/gateway"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Gateway       GatewayConfig       `mapstructure:"gateway"`
	Pricing       PricingConfig       `mapstructure:"pricing"`
	Worker        WorkerConfig        `mapstructure:"worker"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Auth          AuthConfig          `mapstructure:"auth"`
	InstanceID    string              `mapstructure:"instance_id"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimitPerMin int           `mapstructure:"rate_limit_per_min"`
	CORS            CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTExpiry time.Duration `mapstructure:"jwt_expiry"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SSLMode         string        `mapstructure:"ssl_mode"`
}

type RedisConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	DB                int           `mapstructure:"db"`
	Password          string        `mapstructure:"password"`
	ConnectRetries    int           `mapstructure:"connect_retries"`
	ConnectRetryDelay time.Duration `mapstructure:"connect_retry_delay"`
}

// GatewayConfig holds the payment gateway merchant credentials and redirect
// endpoints. The secret has no default; a deployment without it can serve
// everything except payment initialization, which fails loudly.
type GatewayConfig struct {
	MerchantID     string `mapstructure:"merchant_id"`
	MerchantSecret string `mapstructure:"merchant_secret"`
	CheckoutURL    string `mapstructure:"checkout_url"`
	AuthorizeURL   string `mapstructure:"authorize_url"`
	ReturnURL      string `mapstructure:"return_url"`
	CancelURL      string `mapstructure:"cancel_url"`
	NotifyURL      string `mapstructure:"notify_url"`
	Currency       string `mapstructure:"currency"`
}

// PricingConfig is the externally-tunable rate table. Rates are LKR per
// 1000 views at a flexible deadline; multipliers scale them by urgency.
type PricingConfig struct {
	ServiceFeeRate float64            `mapstructure:"service_fee_rate"`
	BaseRates      map[string]float64 `mapstructure:"base_rates"`
	Multipliers    map[string]float64 `mapstructure:"multipliers"`
}

type WorkerConfig struct {
	BatchSize          int64         `mapstructure:"batch_size"`
	BlockDuration      time.Duration `mapstructure:"block_duration"`
	OutboxPollInterval time.Duration `mapstructure:"outbox_poll_interval"`
	ConsumerGroup      string        `mapstructure:"consumer_group"`
	PayoutLockTTL      time.Duration `mapstructure:"payout_lock_ttl"`
}

type ObservabilityConfig struct {
	LogLevel       string `mapstructure:"log_level"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	EnableMetrics  bool   `mapstructure:"enable_metrics"`
	EnableTracing  bool   `mapstructure:"enable_tracing"`
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("BRANDSYNC")
	v.AutomaticEnv()

	// Read from config file if exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/brandsync")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.read_timeout must be positive"))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.write_timeout must be positive"))
	}
	if c.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if c.Database.Port <= 0 {
		errs = append(errs, fmt.Errorf("database.port must be positive"))
	}
	if c.Redis.Port <= 0 {
		errs = append(errs, fmt.Errorf("redis.port must be positive"))
	}
	if c.Pricing.ServiceFeeRate < 0 || c.Pricing.ServiceFeeRate >= 1 {
		errs = append(errs, fmt.Errorf("pricing.service_fee_rate must be in [0, 1)"))
	}
	for platform, rate := range c.Pricing.BaseRates {
		if _, err := pricing.ParsePlatform(platform); err != nil {
			errs = append(errs, fmt.Errorf("pricing.base_rates: unknown platform %q", platform))
		}
		if rate <= 0 {
			errs = append(errs, fmt.Errorf("pricing.base_rates.%s must be positive", platform))
		}
	}
	for option, mult := range c.Pricing.Multipliers {
		if _, err := pricing.ParseDeadlineOption(option); err != nil {
			errs = append(errs, fmt.Errorf("pricing.multipliers: unknown deadline option %q", option))
		}
		if mult <= 0 {
			errs = append(errs, fmt.Errorf("pricing.multipliers.%s must be positive", option))
		}
	}
	if c.Worker.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("worker.batch_size must be positive"))
	}

	// Production environment checks
	env := os.Getenv("ENV")
	if env == "production" || env == "prod" {
		if c.Database.Password == "" {
			errs = append(errs, fmt.Errorf("database.password required in production"))
		}
		if c.Auth.JWTSecret == "" {
			errs = append(errs, fmt.Errorf("auth.jwt_secret required in production"))
		}
		if c.Gateway.MerchantSecret == "" {
			errs = append(errs, fmt.Errorf("gateway.merchant_secret required in production"))
		}
	}

	// JWT secret length validation
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, fmt.Errorf("auth.jwt_secret must be at least 32 characters"))
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.rate_limit_per_min", 120)
	v.SetDefault("server.cors.allowed_origins", []string{"*"})
	v.SetDefault("server.cors.allow_credentials", false)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "brandsync")
	v.SetDefault("database.database", "brandsync")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_connections", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.ssl_mode", "disable")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.connect_retries", 5)
	v.SetDefault("redis.connect_retry_delay", "1s")

	// Gateway defaults: sandbox endpoints, no credentials.
	v.SetDefault("gateway.checkout_url", "https://sandbox.payhere.lk/pay/checkout")
	v.SetDefault("gateway.authorize_url", "https://sandbox.payhere.lk")
	v.SetDefault("gateway.currency", "LKR")

	// Pricing defaults mirror pricing.DefaultRateCard.
	v.SetDefault("pricing.service_fee_rate", 0.10)
	v.SetDefault("pricing.base_rates", map[string]float64{
		"youtube": 150, "facebook": 100, "tiktok": 80, "instagram": 120,
	})
	v.SetDefault("pricing.multipliers", map[string]float64{
		"3d": 2.0, "1w": 1.8, "2w": 1.6, "1m": 1.4,
		"2m": 1.3, "3m": 1.2, "6m": 1.1, "flexible": 1.0,
	})

	// Worker defaults
	v.SetDefault("worker.batch_size", 10)
	v.SetDefault("worker.block_duration", "1s")
	v.SetDefault("worker.outbox_poll_interval", "2s")
	v.SetDefault("worker.consumer_group", "payout-processors")
	v.SetDefault("worker.payout_lock_ttl", "30s")

	// Observability defaults
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.enable_tracing", true)

	// Auth defaults
	v.SetDefault("auth.jwt_expiry", "24h")

	// Instance ID
	v.SetDefault("instance_id", "brandsync-1")
}

func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Gateway maps the merchant settings onto the gateway package config.
func (c *GatewayConfig) Gateway() *gateway.Config {
	return &gateway.Config{
		MerchantID:     c.MerchantID,
		MerchantSecret: c.MerchantSecret,
		CheckoutURL:    c.CheckoutURL,
		AuthorizeURL:   c.AuthorizeURL,
		ReturnURL:      c.ReturnURL,
		CancelURL:      c.CancelURL,
		NotifyURL:      c.NotifyURL,
		Currency:       c.Currency,
	}
}

// RateCard builds the pricing rate card from configuration, falling back to
// the stock table for anything unset.
func (c *PricingConfig) RateCard() *pricing.RateCard {
	rc := pricing.DefaultRateCard()
	if c.ServiceFeeRate > 0 {
		rc.ServiceFeeRate = decimal.NewFromFloat(c.ServiceFeeRate)
	}
	for platform, rate := range c.BaseRates {
		p, err := pricing.ParsePlatform(platform)
		if err != nil {
			continue
		}
		rc.BaseRates[p] = decimal.NewFromFloat(rate)
	}
	for option, mult := range c.Multipliers {
		d, err := pricing.ParseDeadlineOption(option)
		if err != nil {
			continue
		}
		rc.Multipliers[d] = decimal.NewFromFloat(mult)
	}
	return rc
}
