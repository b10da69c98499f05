package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Source      SourceConfig
	Collector   CollectorConfig
	Aggregator  AggregatorConfig
	Calibration CalibrationConfig
	Targets     TargetDefaults
	Auth        AuthConfig
	Reports     ReportsConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	CORSOrigin      string        `mapstructure:"cors_origin"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SourceConfig describes the external telemetry endpoint the collector polls.
type SourceConfig struct {
	URL     string        `mapstructure:"url"`
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CollectorConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	Retention time.Duration `mapstructure:"retention"`
}

type AggregatorConfig struct {
	SunlightLuxThreshold float64 `mapstructure:"sunlight_lux_threshold"`
	UVIndexThreshold     float64 `mapstructure:"uv_index_threshold"`
}

type CalibrationConfig struct {
	DefaultDays     int    `mapstructure:"default_days"`
	DefaultStrategy string `mapstructure:"default_strategy"`
}

// TargetDefaults are the lowest-priority condition targets. Plant profiles and
// calibrations override them per metric during target resolution.
type TargetDefaults struct {
	SunlightLux     float64 `mapstructure:"sunlight_lux"`
	MoisturePercent float64 `mapstructure:"moisture_percent"`
	TemperatureC    float64 `mapstructure:"temperature_c"`
	HumidityPercent float64 `mapstructure:"humidity_percent"`
	UVIndex         float64 `mapstructure:"uv_index"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type ReportsConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("SOILSAGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Load config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.cors_origin", "*")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")

	// Redis defaults
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	// Telemetry source defaults
	viper.SetDefault("source.path", "/trial.json")
	viper.SetDefault("source.timeout", "10s")

	// Pipeline defaults
	viper.SetDefault("collector.interval", "10m")
	viper.SetDefault("collector.retention", "24h")
	viper.SetDefault("aggregator.sunlight_lux_threshold", 1000.0)
	viper.SetDefault("aggregator.uv_index_threshold", 3.0)
	viper.SetDefault("calibration.default_days", 7)
	viper.SetDefault("calibration.default_strategy", "median")

	// Base condition targets, overridden by plant profiles and calibrations
	viper.SetDefault("targets.sunlight_lux", 10000.0)
	viper.SetDefault("targets.moisture_percent", 45.0)
	viper.SetDefault("targets.temperature_c", 24.0)
	viper.SetDefault("targets.humidity_percent", 60.0)
	viper.SetDefault("targets.uv_index", 4.0)

	// Auth defaults
	viper.SetDefault("auth.token_ttl", "24h")

	// Reports defaults
	viper.SetDefault("reports.dir", "./reports")
}

func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if config.Source.URL == "" {
		return fmt.Errorf("telemetry source URL is required")
	}
	if config.Auth.JWTSecret == "" {
		return fmt.Errorf("auth JWT secret is required")
	}
	if config.Collector.Interval <= 0 {
		return fmt.Errorf("collector interval must be positive")
	}
	return nil
}
