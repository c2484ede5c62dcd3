package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the engine's runtime configuration.
type Config struct {
	Port               int
	MaxPrincipal       float64
	MaxContribution    float64
	MaxMonths          int
	MaxPeriods         int
	MaxRate            float64
	MaxBalanceCap      float64
	Currency           string
	PPFRatePercent     float64
	TaxPolicyFile      string
	RedisAddr          string
	CacheTTL           time.Duration
	RateLimitPerMinute int
	OTELEndpoint       string
	OTELServiceName    string
	LogLevel           string

	TaxPolicy *TaxPolicy
}

// LoadConfig loads configuration from the environment, after reading a .env
// file when one exists.
func LoadConfig() (*Config, error) {
	// a missing .env file is fine
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnvInt("PORT", 8000),
		MaxPrincipal:       getEnvFloat("MAX_PRINCIPAL", 1e9),
		MaxContribution:    getEnvFloat("MAX_CONTRIBUTION", 1e8),
		MaxMonths:          getEnvInt("MAX_MONTHS", 600),
		MaxPeriods:         getEnvInt("MAX_PERIODS", 600),
		MaxRate:            getEnvFloat("MAX_RATE", 200),
		MaxBalanceCap:      getEnvFloat("MAX_BALANCE_CAP", 1e12),
		Currency:           getEnvString("CURRENCY", "INR"),
		PPFRatePercent:     getEnvFloat("PPF_RATE_PERCENT", 7.1),
		TaxPolicyFile:      getEnvString("TAX_POLICY_FILE", ""),
		RedisAddr:          getEnvString("REDIS_ADDR", ""),
		CacheTTL:           getEnvDuration("CACHE_TTL", 10*time.Minute),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		OTELEndpoint:       getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName:    getEnvString("OTEL_SERVICE_NAME", "finance-engine"),
		LogLevel:           getEnvString("LOG_LEVEL", "INFO"),
	}

	policy, err := LoadTaxPolicy(cfg.TaxPolicyFile)
	if err != nil {
		return nil, fmt.Errorf("tax policy: %w", err)
	}
	cfg.TaxPolicy = policy

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
