package config

import (
	"testing"
	"time"

	"github.com/brandsync/brandsync/internal/domain/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "test",
			Password: "test",
			Database: "test_db",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Pricing: PricingConfig{
			ServiceFeeRate: 0.10,
		},
		Worker: WorkerConfig{
			BatchSize: 10,
		},
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_InvalidServerPort(t *testing.T) {
	for _, port := range []int{0, -1, 99999} {
		cfg := validConfig()
		cfg.Server.Port = port

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "server.port")
	}
}

func TestConfig_Validate_MissingDatabaseHost(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database.host")
}

func TestConfig_Validate_InvalidServiceFeeRate(t *testing.T) {
	for _, rate := range []float64{-0.1, 1.0, 2.5} {
		cfg := validConfig()
		cfg.Pricing.ServiceFeeRate = rate

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "service_fee_rate")
	}
}

func TestConfig_Validate_UnknownPricingKeys(t *testing.T) {
	cfg := validConfig()
	cfg.Pricing.BaseRates = map[string]float64{"myspace": 50}
	cfg.Pricing.Multipliers = map[string]float64{"5w": 1.5}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "myspace")
	assert.Contains(t, err.Error(), "5w")
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Database.Host = ""
	cfg.Worker.BatchSize = 0

	err := cfg.Validate()
	require.Error(t, err)
	errStr := err.Error()
	assert.Contains(t, errStr, "server.port")
	assert.Contains(t, errStr, "database.host")
	assert.Contains(t, errStr, "worker.batch_size")
}

func TestConfig_Validate_ShortJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "too-short"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestPricingConfig_RateCard(t *testing.T) {
	cfg := PricingConfig{
		ServiceFeeRate: 0.15,
		BaseRates:      map[string]float64{"youtube": 200},
		Multipliers:    map[string]float64{"3d": 2.5},
	}

	rc := cfg.RateCard()
	assert.True(t, rc.ServiceFeeRate.Equal(decimal.RequireFromString("0.15")))
	assert.True(t, rc.BaseRates[pricing.PlatformYouTube].Equal(decimal.NewFromInt(200)))
	assert.True(t, rc.Multipliers[pricing.Deadline3Days].Equal(decimal.RequireFromString("2.5")))

	// Untouched entries keep the stock values.
	assert.True(t, rc.BaseRates[pricing.PlatformTikTok].Equal(decimal.NewFromInt(80)))
	assert.True(t, rc.Multipliers[pricing.DeadlineFlexible].Equal(decimal.NewFromInt(1)))
}

func TestPricingConfig_RateCard_Defaults(t *testing.T) {
	rc := (&PricingConfig{}).RateCard()
	def := pricing.DefaultRateCard()
	assert.True(t, rc.ServiceFeeRate.Equal(def.ServiceFeeRate))
	for p, rate := range def.BaseRates {
		assert.True(t, rc.BaseRates[p].Equal(rate))
	}
}

func TestGatewayConfig_Gateway(t *testing.T) {
	cfg := GatewayConfig{
		MerchantID:     "1221149",
		MerchantSecret: "test-secret",
		CheckoutURL:    "https://sandbox.payhere.lk/pay/checkout",
		AuthorizeURL:   "https://sandbox.payhere.lk",
		ReturnURL:      "https://brandsync.app/return",
		CancelURL:      "https://brandsync.app/cancel",
		NotifyURL:      "https://api.brandsync.app/api/v1/payments/notify",
		Currency:       "LKR",
	}

	gw := cfg.Gateway()
	assert.Equal(t, "1221149", gw.MerchantID)
	assert.Equal(t, "LKR", gw.Currency)
	assert.NoError(t, gw.Validate())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db.example.com", Port: 5432, User: "app", Password: "pw",
		Database: "brandsync", SSLMode: "require",
	}
	assert.Equal(t,
		"host=db.example.com port=5432 user=app password=pw dbname=brandsync sslmode=require",
		cfg.DatabaseDSN())
}
