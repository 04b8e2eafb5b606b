package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Database   DatabaseConfig   `mapstructure:"database"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Valkey     ValkeyConfig     `mapstructure:"valkey"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Temporal   TemporalConfig   `mapstructure:"temporal"`
	Routing    RoutingConfig    `mapstructure:"routing"`
	Navigation NavigationConfig `mapstructure:"navigation"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// TemporalConfig points at the Temporal frontend. When Enabled, sessions are
// planned through the navigation workflow instead of in-process.
type TemporalConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

// RoutingConfig selects and configures the external routing service.
type RoutingConfig struct {
	Provider        string `mapstructure:"provider"` // tmap or google
	TmapAppKey      string `mapstructure:"tmap_app_key"`
	TmapBaseURL     string `mapstructure:"tmap_base_url"`
	GoogleAPIKey    string `mapstructure:"google_api_key"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
}

// NavigationConfig tunes live guidance.
type NavigationConfig struct {
	ProximityThresholdM float64 `mapstructure:"proximity_threshold_m"`
	ArrivalRadiusM      float64 `mapstructure:"arrival_radius_m"`
	HeadingToleranceDeg float64 `mapstructure:"heading_tolerance_deg"`
}

// Load reads configuration from .env, an optional config file and
// environment variables, in increasing order of precedence.
func Load(service string) (*Config, error) {
	_ = godotenv.Load(".env") // OK if missing

	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "pathpal")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "pathpal")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("temporal.enabled", false)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "pathpal-navigation")
	v.SetDefault("routing.provider", "tmap")
	v.SetDefault("routing.tmap_app_key", "")
	v.SetDefault("routing.tmap_base_url", "https://apis.openapi.sk.com")
	v.SetDefault("routing.google_api_key", "")
	v.SetDefault("routing.timeout_seconds", 10)
	v.SetDefault("routing.cache_ttl_seconds", 600)
	v.SetDefault("navigation.proximity_threshold_m", 10.0)
	v.SetDefault("navigation.arrival_radius_m", 50.0)
	v.SetDefault("navigation.heading_tolerance_deg", 5.0)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: PATHPAL_ROUTING_TMAP_APP_KEY → routing.tmap_app_key
	v.SetEnvPrefix("PATHPAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Database.MaxConns < 0 {
		errs = append(errs, "database.max_conns must not be negative")
	}
	if c.Temporal.Enabled && c.Temporal.TaskQueue == "" {
		errs = append(errs, "temporal.task_queue is required when temporal is enabled")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}

	switch c.Routing.Provider {
	case "tmap":
		if c.Routing.TmapBaseURL == "" {
			errs = append(errs, "routing.tmap_base_url is required")
		}
	case "google":
		if c.Routing.GoogleAPIKey == "" {
			errs = append(errs, "routing.google_api_key is required for the google provider")
		}
	default:
		errs = append(errs, fmt.Sprintf("routing.provider must be tmap or google, got %q", c.Routing.Provider))
	}
	if c.Routing.TimeoutSeconds <= 0 {
		errs = append(errs, "routing.timeout_seconds must be positive")
	}
	if c.Routing.CacheTTLSeconds < 0 {
		errs = append(errs, "routing.cache_ttl_seconds must not be negative")
	}

	if c.Navigation.ProximityThresholdM <= 0 {
		errs = append(errs, "navigation.proximity_threshold_m must be positive")
	}
	if c.Navigation.ArrivalRadiusM <= 0 {
		errs = append(errs, "navigation.arrival_radius_m must be positive")
	}
	if c.Navigation.HeadingToleranceDeg <= 0 || c.Navigation.HeadingToleranceDeg >= 180 {
		errs = append(errs, fmt.Sprintf("navigation.heading_tolerance_deg must be in (0, 180), got %v", c.Navigation.HeadingToleranceDeg))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
