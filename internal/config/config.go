// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DirectoryCRM   = "crm"
	DirectoryLocal = "local"
)

type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string

	KVBackend string
	KVPath    string
	RedisURL  string

	CatalogFeedURL string
	FeedRefresh    time.Duration
	CatalogFile    string

	CRMBaseURL     string
	CRMAccessToken string
	// AuthDirectory is DirectoryCRM or DirectoryLocal.
	AuthDirectory       string
	RegistrationEnabled bool

	ShippingFee    decimal.Decimal
	CurrencySymbol string

	RecommendationStrategy string
	WishlistDuplicates     string

	LogLevel      string
	TraceExporter string

	MaxContacts int
	MaxAPICalls int
	AuditOutput string
}

// Load reads the environment. Unset variables take their defaults; malformed
// values are an error.
func Load() (Config, error) {
	cfg := Config{
		Addr:                   env("STOREFRONT_ADDR", ":8080"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		KVBackend:              env("KV_BACKEND", "memory"),
		KVPath:                 env("KV_PATH", "data"),
		RedisURL:               os.Getenv("REDIS_URL"),
		CatalogFeedURL:         os.Getenv("CATALOG_FEED_URL"),
		CatalogFile:            os.Getenv("CATALOG_FILE"),
		CRMBaseURL:             env("CRM_BASE_URL", os.Getenv("API_BASE_URL")),
		CRMAccessToken:         env("CRM_ACCESS_TOKEN", os.Getenv("ACCESS_TOKEN")),
		CurrencySymbol:         env("CURRENCY_SYMBOL", "£"),
		RecommendationStrategy: env("RECOMMENDATION_STRATEGY", "filter-set"),
		WishlistDuplicates:     env("WISHLIST_DUPLICATES", "allow"),
		LogLevel:               env("LOG_LEVEL", "info"),
		TraceExporter:          env("TRACE_EXPORTER", "none"),
		AuditOutput:            env("AUDIT_OUTPUT", "user_data_audit.json"),
	}

	var err error
	if cfg.FeedRefresh, err = duration("FEED_REFRESH", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RegistrationEnabled, err = boolean("REGISTRATION_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.MaxContacts, err = integer("MAX_CONTACTS", 0); err != nil {
		return Config{}, err
	}
	if cfg.MaxAPICalls, err = integer("MAX_API_CALLS", 0); err != nil {
		return Config{}, err
	}

	cfg.ShippingFee = decimal.RequireFromString("5.00")
	if v := os.Getenv("SHIPPING_FEE"); v != "" {
		fee, err := decimal.NewFromString(v)
		if err != nil || fee.IsNegative() {
			return Config{}, fmt.Errorf("SHIPPING_FEE: %q is not a non-negative amount", v)
		}
		cfg.ShippingFee = fee
	}

	cfg.AuthDirectory = strings.ToLower(env("AUTH_DIRECTORY", ""))
	if cfg.AuthDirectory == "" {
		cfg.AuthDirectory = DirectoryLocal
		if cfg.CRMBaseURL != "" {
			cfg.AuthDirectory = DirectoryCRM
		}
	}
	if cfg.AuthDirectory != DirectoryCRM && cfg.AuthDirectory != DirectoryLocal {
		return Config{}, fmt.Errorf("AUTH_DIRECTORY: unknown directory %q", cfg.AuthDirectory)
	}

	return cfg, nil
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s: %q is not a valid duration", key, v)
	}
	return d, nil
}

func boolean(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %q is not a boolean", key, v)
	}
	return b, nil
}

func integer(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: %q is not a non-negative integer", key, v)
	}
	return n, nil
}
