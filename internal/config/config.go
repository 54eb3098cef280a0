package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
// Values come from defaults, then the YAML file named by CONFIG_FILE, then environment variables.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Cache    CacheConfig    `yaml:"cache"`
	I18n     I18nConfig     `yaml:"i18n"`
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // SQLite database file path
}

// GRPCConfig contains gRPC server settings.
type GRPCConfig struct {
	Address string `yaml:"address"` // gRPC server listen address (e.g., ":50051")
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"` // JWT signing secret
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// MetricsConfig controls the Prometheus endpoint. An empty address disables it.
type MetricsConfig struct {
	Address string `yaml:"address"`
}

// CacheConfig selects the status registry cache backend ("memory" or "redis").
type CacheConfig struct {
	Driver        string        `yaml:"driver"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	StatusTTL     time.Duration `yaml:"status_ttl"`
}

type I18nConfig struct {
	DefaultLocale string `yaml:"default_locale"`
}

func defaults(jwtSecret string) *Config {
	return &Config{
		Database: DatabaseConfig{Path: "orders.db"},
		GRPC:     GRPCConfig{Address: ":50051"},
		Auth:     AuthConfig{JWTSecret: jwtSecret},
		Log:      LogConfig{Level: "info"},
		Metrics:  MetricsConfig{Address: ":9090"},
		Cache:    CacheConfig{Driver: "memory", RedisAddr: "localhost:6379", StatusTTL: 10 * 24 * time.Hour},
		I18n:     I18nConfig{DefaultLocale: "en"},
	}
}

// Load loads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg, err := load(defaults(""))
	if err != nil {
		return nil, err
	}

	// Validate critical settings
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for JWT_SECRET in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return load(defaults("dev-secret-change-me"))
}

func load(cfg *Config) (*Config, error) {
	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Database.Path = getEnv("DB_PATH", cfg.Database.Path)
	cfg.GRPC.Address = getEnv("GRPC_ADDRESS", cfg.GRPC.Address)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Metrics.Address = getEnv("METRICS_ADDRESS", cfg.Metrics.Address)
	cfg.Cache.Driver = getEnv("CACHE_DRIVER", cfg.Cache.Driver)
	cfg.Cache.RedisAddr = getEnv("REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Cache.RedisPassword = getEnv("REDIS_PASSWORD", cfg.Cache.RedisPassword)
	cfg.I18n.DefaultLocale = getEnv("DEFAULT_LOCALE", cfg.I18n.DefaultLocale)

	var err error
	if cfg.Cache.RedisDB, err = getEnvInt("REDIS_DB", cfg.Cache.RedisDB); err != nil {
		return nil, err
	}
	if cfg.Cache.StatusTTL, err = getEnvDuration("STATUS_CACHE_TTL", cfg.Cache.StatusTTL); err != nil {
		return nil, err
	}

	switch cfg.Cache.Driver {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("unsupported CACHE_DRIVER %q", cfg.Cache.Driver)
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, gRPC: %s, cache: %s, Auth: *** (masked) ***}", c.Database.Path, c.GRPC.Address, c.Cache.Driver)
}
