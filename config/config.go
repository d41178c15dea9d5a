package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/pricelens/backend/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Assisted  AssistedConfig
	Quotes    QuotesConfig
	Cache     CacheConfig
	Log       LogConfig
	Retailers []RetailerConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds configuration for the structured product database
type CatalogConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	UserAgent         string `mapstructure:"user_agent"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// AssistedConfig holds configuration for the generative lookup service
type AssistedConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// QuotesConfig holds configuration for the generative price quote service
type QuotesConfig struct {
	BaseURL       string  `mapstructure:"base_url"`
	APIKey        string  `mapstructure:"api_key"`
	Model         string  `mapstructure:"model"`
	DefaultTarget float64 `mapstructure:"default_target"` // comparison target for manual products
}

// CacheConfig holds cache-store configuration
type CacheConfig struct {
	Type        string `mapstructure:"type"` // "memory", "redis" or "postgres"
	RedisURL    string `mapstructure:"redis_url"`
	PostgresURL string `mapstructure:"postgres_url"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// RetailerConfig is one entry of the static retailer catalog
type RetailerConfig struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

// RetailerCatalog converts the configured retailer list into the domain type,
// preserving the configured (canonical) order.
func (c *Config) RetailerCatalog() domain.RetailerCatalog {
	catalog := make(domain.RetailerCatalog, 0, len(c.Retailers))
	for _, r := range c.Retailers {
		catalog = append(catalog, domain.Retailer{ID: r.ID, Name: r.Name})
	}
	return catalog
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricelens/")

	// Environment variable settings
	v.SetEnvPrefix("PRICELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Catalog defaults (Open Food Facts compatible)
	v.SetDefault("catalog.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("catalog.user_agent", "PriceLens/1.0")
	v.SetDefault("catalog.requests_per_minute", 100)

	// Assisted lookup defaults
	v.SetDefault("assisted.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("assisted.model", "gemini-2.0-flash")
	v.SetDefault("assisted.api_key", "")

	// Price quote defaults
	v.SetDefault("quotes.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("quotes.model", "gemini-2.0-flash")
	v.SetDefault("quotes.default_target", 1.00)
	v.SetDefault("quotes.api_key", "")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.postgres_url", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Retailer catalog default: the fixed UK grocer set, in canonical order
	v.SetDefault("retailers", defaultRetailers())
}

// defaultRetailers returns the built-in retailer catalog. The order is
// canonical and drives best-price tie-breaking.
func defaultRetailers() []map[string]interface{} {
	return []map[string]interface{}{
		{"id": "tesco", "name": "Tesco"},
		{"id": "sainsburys", "name": "Sainsbury's"},
		{"id": "asda", "name": "ASDA"},
		{"id": "morrisons", "name": "Morrisons"},
		{"id": "aldi", "name": "Aldi"},
		{"id": "lidl", "name": "Lidl"},
		{"id": "waitrose", "name": "Waitrose"},
		{"id": "coop", "name": "Co-op"},
		{"id": "iceland", "name": "Iceland"},
		{"id": "ocado", "name": "Ocado"},
		{"id": "amazon_fresh", "name": "Amazon Fresh"},
	}
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Assisted.APIKey == "" {
		return fmt.Errorf("assisted lookup API key is required (set PRICELENS_ASSISTED_API_KEY)")
	}

	if config.Quotes.APIKey == "" {
		return fmt.Errorf("price quote API key is required (set PRICELENS_QUOTES_API_KEY)")
	}

	switch config.Cache.Type {
	case "memory":
	case "redis":
		if config.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when cache type is 'redis'")
		}
	case "postgres":
		if config.Cache.PostgresURL == "" {
			return fmt.Errorf("Postgres URL is required when cache type is 'postgres'")
		}
	default:
		return fmt.Errorf("cache type must be 'memory', 'redis' or 'postgres', got: %s", config.Cache.Type)
	}

	if len(config.Retailers) == 0 {
		return fmt.Errorf("retailer catalog must not be empty")
	}
	seen := make(map[string]bool, len(config.Retailers))
	for _, r := range config.Retailers {
		if r.ID == "" {
			return fmt.Errorf("retailer entries must have an id")
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate retailer id: %s", r.ID)
		}
		seen[r.ID] = true
	}

	return nil
}
