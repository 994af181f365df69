// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/scheduler"
)

// Market data modes
const (
	MarketDataSimulated = "simulated"
	MarketDataLive      = "live"
)

// Config holds application configuration
type Config struct {
	LogLevel            string
	Port                int
	DevMode             bool
	InitialCapital      float64
	MonthlySIP          float64
	RiskAppetite        domain.RiskAppetite
	RiskFreeRate        float64
	VolatilityThreshold float64
	MarketData          string // simulated or live
	MarketSeed          uint64 // 0 seeds from the clock
	FinnhubAPIKey       string
	Schedules           Schedules
}

// Schedules are cron specs for background jobs. An empty spec disables the job.
type Schedules struct {
	PriceSync    string
	SIP          string
	MarketAdjust string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	appetite, err := domain.ParseRiskAppetite(getEnv("FOLIO_RISK_APPETITE", "medium"))
	if err != nil {
		return nil, fmt.Errorf("invalid FOLIO_RISK_APPETITE: %w", err)
	}

	cfg := &Config{
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		Port:                getEnvAsInt("FOLIO_PORT", 8001),
		DevMode:             getEnvAsBool("DEV_MODE", false),
		InitialCapital:      getEnvAsFloat("FOLIO_INITIAL_CAPITAL", 10000),
		MonthlySIP:          getEnvAsFloat("FOLIO_MONTHLY_SIP", 500),
		RiskAppetite:        appetite,
		RiskFreeRate:        getEnvAsFloat("FOLIO_RISK_FREE_RATE", 0.5),
		VolatilityThreshold: getEnvAsFloat("FOLIO_VOLATILITY_THRESHOLD", 15),
		MarketData:          strings.ToLower(getEnv("FOLIO_MARKET_DATA", MarketDataSimulated)),
		MarketSeed:          getEnvAsUint("FOLIO_MARKET_SEED", 0),
		FinnhubAPIKey:       getEnv("FINNHUB_API_KEY", ""),
		Schedules: Schedules{
			PriceSync:    os.Getenv("FOLIO_PRICE_SYNC_SCHEDULE"),
			SIP:          os.Getenv("FOLIO_SIP_SCHEDULE"),
			MarketAdjust: os.Getenv("FOLIO_MARKET_ADJUST_SCHEDULE"),
		},
	}
	if _, set := os.LookupEnv("FOLIO_PRICE_SYNC_SCHEDULE"); !set {
		cfg.Schedules.PriceSync = "@every 1m"
	}
	if _, set := os.LookupEnv("FOLIO_SIP_SCHEDULE"); !set {
		cfg.Schedules.SIP = "@daily"
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that every value is usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	for name, v := range map[string]float64{
		"FOLIO_INITIAL_CAPITAL":      c.InitialCapital,
		"FOLIO_MONTHLY_SIP":          c.MonthlySIP,
		"FOLIO_RISK_FREE_RATE":       c.RiskFreeRate,
		"FOLIO_VOLATILITY_THRESHOLD": c.VolatilityThreshold,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite number: %v", name, v)
		}
	}
	if c.InitialCapital < 0 {
		return fmt.Errorf("initial capital must not be negative: %v", c.InitialCapital)
	}
	if c.MonthlySIP < 0 {
		return fmt.Errorf("monthly SIP must not be negative: %v", c.MonthlySIP)
	}
	if c.VolatilityThreshold <= 0 {
		return fmt.Errorf("volatility threshold must be positive: %v", c.VolatilityThreshold)
	}
	switch c.MarketData {
	case MarketDataSimulated, MarketDataLive:
	default:
		return fmt.Errorf("unknown market data mode %q", c.MarketData)
	}

	for name, spec := range map[string]string{
		"FOLIO_PRICE_SYNC_SCHEDULE":    c.Schedules.PriceSync,
		"FOLIO_SIP_SCHEDULE":           c.Schedules.SIP,
		"FOLIO_MARKET_ADJUST_SCHEDULE": c.Schedules.MarketAdjust,
	} {
		if spec == "" {
			continue
		}
		if _, err := scheduler.Parser.Parse(spec); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, spec, err)
		}
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsUint(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
