package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMemory   = "memory"
)

// Rate sources.
const (
	RateSourceExchangeRateHost = "exchangeratehost"
	RateSourceStatic           = "static"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// Persistence
	StoreDriver    string
	DatabaseURL    string
	SQLitePath     string
	MigrationsPath string
	RunMigrations  bool

	// Auth
	JWTSecret string
	JWTIssuer string

	// Rate source
	RateSource          string
	ExchangeAPIURL      string
	ExchangeAPIKey      string
	RateSourceTimeout   time.Duration
	RateSourceMaxRPS    float64
	CoalesceRateFetches bool

	// HTTP
	RateLimit          string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()
	return loadFrom(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("SQLITE_PATH", "currency_rates.db")
	v.SetDefault("MIGRATIONS_PATH", "migrations")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "currency-exchange-app")
	v.SetDefault("RATE_SOURCE", RateSourceExchangeRateHost)
	v.SetDefault("EXCHANGE_API_URL", "https://api.exchangerate.host")
	v.SetDefault("EXCHANGE_API_KEY", "")
	v.SetDefault("RATE_SOURCE_TIMEOUT", "10s")
	v.SetDefault("RATE_SOURCE_MAX_RPS", 0)
	v.SetDefault("COALESCE_RATE_FETCHES", false)
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.AutomaticEnv()
	return v
}

func loadFrom(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                v.GetString("PORT"),
		IsProduction:        v.GetBool("IS_PRODUCTION"),
		StoreDriver:         strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabaseURL:         v.GetString("PGSQL_URL"),
		SQLitePath:          v.GetString("SQLITE_PATH"),
		MigrationsPath:      v.GetString("MIGRATIONS_PATH"),
		RunMigrations:       v.GetBool("RUN_MIGRATIONS"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		JWTIssuer:           v.GetString("JWT_ISSUER"),
		RateSource:          strings.ToLower(v.GetString("RATE_SOURCE")),
		ExchangeAPIURL:      v.GetString("EXCHANGE_API_URL"),
		ExchangeAPIKey:      v.GetString("EXCHANGE_API_KEY"),
		RateSourceMaxRPS:    v.GetFloat64("RATE_SOURCE_MAX_RPS"),
		CoalesceRateFetches: v.GetBool("COALESCE_RATE_FETCHES"),
		RateLimit:           v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		slog.Warn("PORT environment variable not set. Defaulting.", slog.String("port", cfg.Port))
	}

	timeoutStr := v.GetString("RATE_SOURCE_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid RATE_SOURCE_TIMEOUT %q", timeoutStr)
	}
	cfg.RateSourceTimeout = timeout

	if cfg.RateSourceMaxRPS < 0 {
		return nil, fmt.Errorf("RATE_SOURCE_MAX_RPS must not be negative, got %v", cfg.RateSourceMaxRPS)
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORE_DRIVER=%s", StoreDriverPostgres)
		}
	case StoreDriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is required when STORE_DRIVER=%s", StoreDriverSQLite)
		}
	case StoreDriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	switch cfg.RateSource {
	case RateSourceExchangeRateHost:
		if cfg.ExchangeAPIKey == "" {
			slog.Warn("EXCHANGE_API_KEY not set. exchangerate.host requests will be rejected upstream.")
		}
	case RateSourceStatic:
	default:
		return nil, fmt.Errorf("unknown RATE_SOURCE %q", cfg.RateSource)
	}

	if cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		slog.Warn("JWT_SECRET environment variable not set. Using default insecure key.")
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
