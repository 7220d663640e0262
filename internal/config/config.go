package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server Server
	Sheet  Sheet
	Market Market
	Cache  Cache
	CORS   CORS
}

// Server holds server-specific configuration
type Server struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// Sheet holds spreadsheet-source configuration. When CSVURL is set the
// public CSV export is used; otherwise the Sheets API is called with the
// service-account credentials file.
type Sheet struct {
	SpreadsheetID   string
	Range           string
	CSVURL          string
	CredentialsFile string
}

// Market holds market-data and currency-conversion configuration.
type Market struct {
	TargetCurrency string        // currency every price is converted into
	ExchangeSuffix string        // domestic exchange suffix tried as a fallback
	DefaultFXRate  float64       // used when the FX pair lookup fails
	RequestTimeout time.Duration // per-request bound on provider calls
	MaxParallel    int           // concurrent per-ticker lookups
}

// Cache holds snapshot cache configuration.
type Cache struct {
	TTL             time.Duration // how long a snapshot stays fresh
	RefreshInterval time.Duration // background warm-refresh cadence, 0 disables
}

// CORS holds CORS-specific configuration
type CORS struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	defaultFXRate, err := getEnvFloat("DEFAULT_FX_RATE", 17.0)
	if err != nil {
		return nil, err
	}
	maxParallel, err := getEnvInt("MARKET_MAX_PARALLEL", 4)
	if err != nil {
		return nil, err
	}
	requestTimeout, err := getEnvDuration("MARKET_REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvDuration("CACHE_TTL", 60*time.Second)
	if err != nil {
		return nil, err
	}
	refreshInterval, err := getEnvDuration("REFRESH_INTERVAL", 0)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: Server{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Sheet: Sheet{
			SpreadsheetID:   getEnv("SHEET_ID", ""),
			Range:           getEnv("SHEET_RANGE", "Sheet1"),
			CSVURL:          getEnv("SHEET_CSV_URL", ""),
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "./credentials.json"),
		},
		Market: Market{
			TargetCurrency: getEnv("TARGET_CURRENCY", "MXN"),
			ExchangeSuffix: getEnv("EXCHANGE_SUFFIX", ".MX"),
			DefaultFXRate:  defaultFXRate,
			RequestTimeout: requestTimeout,
			MaxParallel:    maxParallel,
		},
		Cache: Cache{
			TTL:             cacheTTL,
			RefreshInterval: refreshInterval,
		},
		CORS: CORS{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
