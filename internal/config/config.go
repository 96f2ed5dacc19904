package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/bher20/tariffmanager/internal/billing"
)

// EnvPrefix prefixes every environment override, e.g.
// TARIFFMANAGER_STORAGE_DRIVER for storage.driver.
const EnvPrefix = "TARIFFMANAGER"

// Config holds all application configuration
type Config struct {
	App       AppConfig         `mapstructure:"app"`
	Server    ServerConfig      `mapstructure:"server"`
	Storage   StorageConfig     `mapstructure:"storage"`
	Logging   LoggingConfig     `mapstructure:"logging"`
	Backend   BackendConfig     `mapstructure:"backend"`
	Regulated billing.Regulated `mapstructure:"regulated"`
	Catalog   CatalogConfig     `mapstructure:"catalog"`
	Sync      SyncConfig        `mapstructure:"sync"`
	Auth      AuthConfig        `mapstructure:"auth"`
	Email     EmailConfig       `mapstructure:"email"`
	Alerting  AlertingConfig    `mapstructure:"alerting"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`
	WriteTimeout   int      `mapstructure:"write_timeout"`
	RequestTimeout int      `mapstructure:"request_timeout"`
	EnableSwagger  bool     `mapstructure:"enable_swagger"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
	// RateLimit is requests per minute per client IP; 0 disables it.
	RateLimit int `mapstructure:"rate_limit"`
}

type StorageConfig struct {
	// Driver is one of memory, sqlite, postgres, postgrespool.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BackendConfig points at the REST API that owns company records.
type BackendConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	Token           string `mapstructure:"token"`
	Timeout         int    `mapstructure:"timeout"`
	InsecureSkipTLS bool   `mapstructure:"insecure_skip_tls"`
}

type CatalogConfig struct {
	// SeedFile is a YAML catalog loaded into an empty store at startup.
	SeedFile string `mapstructure:"seed_file"`
	// SeedPresets adds zero-priced presets for known companies when the
	// store is still empty after SeedFile.
	SeedPresets bool `mapstructure:"seed_presets"`
}

type SyncConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Schedule is a standard cron expression or a number of seconds.
	Schedule string `mapstructure:"schedule"`
}

type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type EmailConfig struct {
	SendGridAPIKey string `mapstructure:"sendgrid_api_key"`
	FromAddress    string `mapstructure:"from_address"`
	FromName       string `mapstructure:"from_name"`
}

// AlertingConfig points failed job alerts at a webhook. An empty URL
// disables alerts.
type AlertingConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	// WebhookType is slack, discord or generic; detected from the URL when
	// empty.
	WebhookType string `mapstructure:"webhook_type"`
	MinFailures int    `mapstructure:"min_failures"`
	Timeout     int    `mapstructure:"timeout"`
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// TimeoutDuration returns the backend client timeout.
func (b *BackendConfig) TimeoutDuration() time.Duration {
	return time.Duration(b.Timeout) * time.Second
}

// Load reads .env, then config.yaml from . or ./config, then environment
// overrides.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "sqlite", "postgres", "postgrespool":
	default:
		return fmt.Errorf("config: unsupported storage driver %q", c.Storage.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	r := c.Regulated
	for name, v := range map[string]float64{
		"regulated.vat_rate":                 r.VATRate,
		"regulated.electricity_tax_rate":     r.ElectricityTaxRate,
		"regulated.equipment_rental_per_day": r.EquipmentRentalPerDay,
		"regulated.social_bonus_per_day":     r.SocialBonusPerDay,
		"regulated.hydrocarbon_tax_per_kwh":  r.HydrocarbonTaxPerKWh,
	} {
		if v < 0 {
			return fmt.Errorf("config: %s must not be negative", name)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "tariffmanager")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.request_timeout", 30)
	v.SetDefault("server.enable_swagger", true)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit", 120)

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.dsn", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("backend.base_url", "")
	v.SetDefault("backend.token", "")
	v.SetDefault("backend.timeout", 10)
	v.SetDefault("backend.insecure_skip_tls", false)

	// Spanish regulated charges as of 2024; override per jurisdiction.
	v.SetDefault("regulated.electricity_tax_rate", 0.0511269632)
	v.SetDefault("regulated.equipment_rental_per_day", 0.026666)
	v.SetDefault("regulated.social_bonus_per_day", 0.012742)
	v.SetDefault("regulated.hydrocarbon_tax_per_kwh", 0.00234)
	v.SetDefault("regulated.vat_rate", 0.21)
	v.SetDefault("regulated.cap_surplus_credit", false)

	v.SetDefault("catalog.seed_file", "")
	v.SetDefault("catalog.seed_presets", true)

	v.SetDefault("sync.enabled", false)
	v.SetDefault("sync.schedule", "0 */6 * * *")

	v.SetDefault("auth.enabled", false)

	v.SetDefault("email.sendgrid_api_key", "")
	v.SetDefault("email.from_address", "")
	v.SetDefault("email.from_name", "Tariff Manager")

	v.SetDefault("alerting.webhook_url", "")
	v.SetDefault("alerting.webhook_type", "")
	v.SetDefault("alerting.min_failures", 1)
	v.SetDefault("alerting.timeout", 10)
}
