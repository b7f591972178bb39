package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Booking       BookingConfig
	RateLimit     RateLimitConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	NATS          NATSConfig
	Mailer        MailerConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	AllowedOrigins []string
	TrustedProxies []string
	MaxBodyBytes   int64
}

// BookingConfig describes the cabin-side parameters of the inquiry flow
type BookingConfig struct {
	Timezone     string
	ContactEmail string
	OwnerEmail   string
	PropertyName string
}

type RateLimitConfig struct {
	Backend       string // memory or redis
	Requests      int
	WindowSeconds int
}

type DatabaseConfig struct {
	URL        string
	MaxConns   int32
	MinConns   int32
	CACertPath string
}

type RedisConfig struct {
	URL       string
	KeyPrefix string
}

type NATSConfig struct {
	URL     string
	Subject string
}

type MailerConfig struct {
	Enabled   bool
	APIKey    string
	FromEmail string
	FromName  string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8081")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "https://wanderlust-cottage.com")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "*")
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("MAX_BODY_BYTES", 64*1024)
	v.SetDefault("BOOKING_TIMEZONE", "Europe/Bucharest")
	v.SetDefault("CONTACT_EMAIL", "office@wanderlust-cottage.com")
	v.SetDefault("OWNER_EMAIL", "office@wanderlust-cottage.com")
	v.SetDefault("PROPERTY_NAME", "Wanderlust Cottage")
	v.SetDefault("RATE_LIMIT_BACKEND", "memory")
	v.SetDefault("INQUIRY_RATE_LIMIT_REQUESTS", 5)
	v.SetDefault("INQUIRY_RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("REDIS_KEY_PREFIX", "booking-api:ratelimit:")
	v.SetDefault("NATS_SUBJECT", "inquiry.received")
	v.SetDefault("NOTIFICATIONS_ENABLED", false)
	v.SetDefault("MAILER_FROM_NAME", "Wanderlust Cottage")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_BE_SERVICE_NAME", "booking-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "wanderlust-cottage")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "booking-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        v.GetString("BASE_URL"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
			TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
			MaxBodyBytes:   v.GetInt64("MAX_BODY_BYTES"),
		},
		Booking: BookingConfig{
			Timezone:     v.GetString("BOOKING_TIMEZONE"),
			ContactEmail: v.GetString("CONTACT_EMAIL"),
			OwnerEmail:   v.GetString("OWNER_EMAIL"),
			PropertyName: v.GetString("PROPERTY_NAME"),
		},
		RateLimit: RateLimitConfig{
			Backend:       strings.ToLower(v.GetString("RATE_LIMIT_BACKEND")),
			Requests:      v.GetInt("INQUIRY_RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("INQUIRY_RATE_LIMIT_WINDOW_SECONDS"),
		},
		Database: DatabaseConfig{
			URL:        v.GetString("DATABASE_URL"),
			MaxConns:   10,
			MinConns:   1,
			CACertPath: v.GetString("DATABASE_CA_CERT"),
		},
		Redis: RedisConfig{
			URL:       v.GetString("REDIS_URL"),
			KeyPrefix: v.GetString("REDIS_KEY_PREFIX"),
		},
		NATS: NATSConfig{
			URL:     v.GetString("NATS_URL"),
			Subject: v.GetString("NATS_SUBJECT"),
		},
		Mailer: MailerConfig{
			Enabled:   v.GetBool("NOTIFICATIONS_ENABLED"),
			APIKey:    v.GetString("MAILERSEND_API_KEY"),
			FromEmail: v.GetString("MAILER_FROM_EMAIL"),
			FromName:  v.GetString("MAILER_FROM_NAME"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// splitList parses a comma-separated list, dropping blanks
func splitList(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("BOOKING_TIMEZONE is invalid: %w", err)
	}

	if c.RateLimit.Requests <= 0 {
		return fmt.Errorf("INQUIRY_RATE_LIMIT_REQUESTS must be positive")
	}
	if c.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("INQUIRY_RATE_LIMIT_WINDOW_SECONDS must be positive")
	}
	switch c.RateLimit.Backend {
	case "memory":
	case "redis":
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required when RATE_LIMIT_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unsupported RATE_LIMIT_BACKEND %q", c.RateLimit.Backend)
	}

	if c.Mailer.Enabled && c.Booking.OwnerEmail == "" {
		return fmt.Errorf("OWNER_EMAIL is required when notifications are enabled")
	}
	if c.Mailer.APIKey != "" && c.Mailer.FromEmail == "" {
		return fmt.Errorf("MAILER_FROM_EMAIL is required when MAILERSEND_API_KEY is set")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// Location returns the time zone used to decide what "today" means for check-in dates
func (c *Config) Location() (*time.Location, error) {
	if c.Booking.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Booking.Timezone)
}

// RateLimitWindow returns the inquiry rate-limit window
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

// AllowAllOrigins reports whether CORS should answer with a wildcard origin
func (c *Config) AllowAllOrigins() bool {
	for _, origin := range c.Server.AllowedOrigins {
		if origin == "*" {
			return true
		}
	}
	return len(c.Server.AllowedOrigins) == 0
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
