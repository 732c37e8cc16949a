package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// CatalogConfig configures the remote catalog client
type CatalogConfig struct {
	SparkURL     string        `yaml:"spark_url" toml:"spark_url" env:"UMA_SPARK_URL"`
	UmamusumeURL string        `yaml:"umamusume_url" toml:"umamusume_url" env:"UMA_UMAMUSUME_URL"`
	Timeout      time.Duration `yaml:"timeout" toml:"timeout" env:"UMA_CATALOG_TIMEOUT"`
	RateLimit    float64       `yaml:"rate_limit" toml:"rate_limit" env:"UMA_RATE_LIMIT"`
	Burst        int           `yaml:"burst" toml:"burst" env:"UMA_RATE_BURST"`
	CacheSize    int           `yaml:"cache_size" toml:"cache_size" env:"UMA_CACHE_SIZE"`
}

// FavouritesConfig selects and configures the favourites backend
type FavouritesConfig struct {
	Backend       string        `yaml:"backend" toml:"backend" env:"UMA_FAVOURITES_BACKEND"`
	DatabaseURL   string        `yaml:"database_url" toml:"database_url" env:"DATABASE_URL"`
	SQLitePath    string        `yaml:"sqlite_path" toml:"sqlite_path" env:"UMA_SQLITE_PATH"`
	RedisAddr     string        `yaml:"redis_addr" toml:"redis_addr" env:"UMA_REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" toml:"redis_password" env:"UMA_REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" toml:"redis_db" env:"UMA_REDIS_DB"`
	RedisKey      string        `yaml:"redis_key" toml:"redis_key" env:"UMA_REDIS_KEY"`
	WriteTimeout  time.Duration `yaml:"write_timeout" toml:"write_timeout" env:"UMA_FAVOURITES_WRITE_TIMEOUT"`
}

// RefreshConfig schedules catalog reloads; an empty schedule disables them
type RefreshConfig struct {
	Schedule string `yaml:"schedule" toml:"schedule" env:"UMA_REFRESH_SCHEDULE"`
}

// LoggerConfig contains logging configuration
type LoggerConfig struct {
	Level    string `yaml:"level" toml:"level" env:"UMA_LOG_LEVEL"`
	Format   string `yaml:"format" toml:"format" env:"UMA_LOG_FORMAT"`
	SaveToDB bool   `yaml:"save_to_db" toml:"save_to_db" env:"UMA_LOG_SAVE_DB"`
}

// DiscordConfig configures the bot front-end
type DiscordConfig struct {
	Token   string `yaml:"token" toml:"token" env:"DISCORD_TOKEN"`
	Prefix  string `yaml:"prefix" toml:"prefix" env:"UMA_PREFIX"`
	OwnerID string `yaml:"owner_id" toml:"owner_id" env:"OWNER_ID"`
}

// HealthConfig configures the health check server
type HealthConfig struct {
	Addr string `yaml:"addr" toml:"addr" env:"UMA_HEALTH_ADDR"`
}

// Config represents the complete configuration structure for YAML/TOML files
type Config struct {
	Catalog    CatalogConfig    `yaml:"catalog" toml:"catalog"`
	Favourites FavouritesConfig `yaml:"favourites" toml:"favourites"`
	Refresh    RefreshConfig    `yaml:"refresh" toml:"refresh"`
	Logger     LoggerConfig     `yaml:"logger" toml:"logger"`
	Discord    DiscordConfig    `yaml:"discord" toml:"discord"`
	Health     HealthConfig     `yaml:"health" toml:"health"`

	// Source records where the values came from: "yaml", "toml" or "env"
	Source string `yaml:"-" toml:"-"`
}

// Favourites backends
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Default values
const (
	DefaultCatalogTimeout  = 15 * time.Second
	DefaultBurst           = 2
	DefaultCacheSize       = 16
	DefaultSQLitePath      = "umaroster.db"
	DefaultRedisAddr       = "localhost:6379"
	DefaultRedisKey        = "favourite_umamusumes"
	DefaultWriteTimeout    = 5 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultPrefix          = "!uma"
	DefaultHealthAddr      = ":8080"
	DefaultSparkURL        = "https://raw.githubusercontent.com/Marco-Poelsma/UmamuAPI/refs/heads/master/data/spark.data.json"
	DefaultUmamusumeURL    = "https://raw.githubusercontent.com/Marco-Poelsma/UmamuAPI/refs/heads/master/data/umamusume.data.json"
	DefaultFavouritesStore = BackendSQLite
)

// LoadConfig loads configuration relative to the working directory
func LoadConfig() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom loads configuration from dir in order of preference:
// config/uma.yaml, config/uma.toml, then environment variables (after .env).
// Secrets set in the environment override file values. Zero values are
// filled with defaults before validation.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{}

	if err := loadYAMLConfig(dir, cfg); err == nil {
		cfg.Source = "yaml"
	} else if err := loadTOMLConfig(dir, cfg); err == nil {
		cfg.Source = "toml"
	} else {
		if err := loadEnvConfig(dir, cfg); err != nil {
			return nil, err
		}
		cfg.Source = "env"
	}

	applySecretOverrides(cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadYAMLConfig attempts to load configuration from YAML file
func loadYAMLConfig(dir string, cfg *Config) error {
	yamlPath := filepath.Join(dir, "config", "uma.yaml")
	if _, err := os.Stat(yamlPath); os.IsNotExist(err) {
		return fmt.Errorf("YAML config file not found: %s", yamlPath)
	}

	data, err := os.ReadFile(yamlPath)
	if err != nil {
		return fmt.Errorf("failed to read YAML config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return nil
}

// loadTOMLConfig attempts to load configuration from TOML file
func loadTOMLConfig(dir string, cfg *Config) error {
	tomlPath := filepath.Join(dir, "config", "uma.toml")
	if _, err := os.Stat(tomlPath); os.IsNotExist(err) {
		return fmt.Errorf("TOML config file not found: %s", tomlPath)
	}

	if _, err := toml.DecodeFile(tomlPath, cfg); err != nil {
		return fmt.Errorf("failed to parse TOML config: %w", err)
	}

	return nil
}

// loadEnvConfig loads configuration from environment variables
func loadEnvConfig(dir string, cfg *Config) error {
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg.Catalog = CatalogConfig{
		SparkURL:     getEnvString("UMA_SPARK_URL", ""),
		UmamusumeURL: getEnvString("UMA_UMAMUSUME_URL", ""),
		Timeout:      getEnvDuration("UMA_CATALOG_TIMEOUT", 0),
		RateLimit:    getEnvFloat("UMA_RATE_LIMIT", 0),
		Burst:        getEnvInt("UMA_RATE_BURST", 0),
		CacheSize:    getEnvInt("UMA_CACHE_SIZE", 0),
	}

	cfg.Favourites = FavouritesConfig{
		Backend:       getEnvString("UMA_FAVOURITES_BACKEND", ""),
		DatabaseURL:   getEnvString("DATABASE_URL", ""),
		SQLitePath:    getEnvString("UMA_SQLITE_PATH", ""),
		RedisAddr:     getEnvString("UMA_REDIS_ADDR", ""),
		RedisPassword: getEnvString("UMA_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("UMA_REDIS_DB", 0),
		RedisKey:      getEnvString("UMA_REDIS_KEY", ""),
		WriteTimeout:  getEnvDuration("UMA_FAVOURITES_WRITE_TIMEOUT", 0),
	}

	cfg.Refresh = RefreshConfig{
		Schedule: getEnvString("UMA_REFRESH_SCHEDULE", ""),
	}

	cfg.Logger = LoggerConfig{
		Level:    getEnvString("UMA_LOG_LEVEL", ""),
		Format:   getEnvString("UMA_LOG_FORMAT", ""),
		SaveToDB: getEnvBool("UMA_LOG_SAVE_DB", false),
	}

	cfg.Discord = DiscordConfig{
		Token:   getEnvString("DISCORD_TOKEN", ""),
		Prefix:  getEnvString("UMA_PREFIX", ""),
		OwnerID: getEnvString("OWNER_ID", ""),
	}

	cfg.Health = HealthConfig{
		Addr: getEnvString("UMA_HEALTH_ADDR", ""),
	}

	return nil
}

// applySecretOverrides keeps credentials out of committed config files
func applySecretOverrides(cfg *Config) {
	cfg.Discord.Token = getEnvString("DISCORD_TOKEN", cfg.Discord.Token)
	cfg.Favourites.DatabaseURL = getEnvString("DATABASE_URL", cfg.Favourites.DatabaseURL)
	cfg.Favourites.RedisPassword = getEnvString("UMA_REDIS_PASSWORD", cfg.Favourites.RedisPassword)
}

// applyDefaults fills zero values
func (c *Config) applyDefaults() {
	if c.Catalog.SparkURL == "" {
		c.Catalog.SparkURL = DefaultSparkURL
	}
	if c.Catalog.UmamusumeURL == "" {
		c.Catalog.UmamusumeURL = DefaultUmamusumeURL
	}
	if c.Catalog.Timeout == 0 {
		c.Catalog.Timeout = DefaultCatalogTimeout
	}
	if c.Catalog.Burst == 0 {
		c.Catalog.Burst = DefaultBurst
	}
	if c.Catalog.CacheSize == 0 {
		c.Catalog.CacheSize = DefaultCacheSize
	}

	if c.Favourites.Backend == "" {
		c.Favourites.Backend = DefaultFavouritesStore
	}
	if c.Favourites.SQLitePath == "" {
		c.Favourites.SQLitePath = DefaultSQLitePath
	}
	if c.Favourites.RedisAddr == "" {
		c.Favourites.RedisAddr = DefaultRedisAddr
	}
	if c.Favourites.RedisKey == "" {
		c.Favourites.RedisKey = DefaultRedisKey
	}
	if c.Favourites.WriteTimeout == 0 {
		c.Favourites.WriteTimeout = DefaultWriteTimeout
	}

	if c.Logger.Level == "" {
		c.Logger.Level = DefaultLogLevel
	}
	if c.Logger.Format == "" {
		c.Logger.Format = DefaultLogFormat
	}

	if c.Discord.Prefix == "" {
		c.Discord.Prefix = DefaultPrefix
	}
	if c.Health.Addr == "" {
		c.Health.Addr = DefaultHealthAddr
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog timeout must be positive, got %v", c.Catalog.Timeout)
	}
	if c.Catalog.RateLimit < 0 {
		return fmt.Errorf("catalog rate_limit must be non-negative, got %v", c.Catalog.RateLimit)
	}
	if c.Catalog.Burst < 0 {
		return fmt.Errorf("catalog burst must be non-negative, got %d", c.Catalog.Burst)
	}
	if c.Catalog.CacheSize < 0 {
		return fmt.Errorf("catalog cache_size must be non-negative, got %d", c.Catalog.CacheSize)
	}

	switch c.Favourites.Backend {
	case BackendMemory, BackendSQLite, BackendRedis:
	case BackendPostgres:
		if c.Favourites.DatabaseURL == "" {
			return fmt.Errorf("favourites database_url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("invalid favourites backend: %s (must be memory, sqlite, postgres, or redis)", c.Favourites.Backend)
	}
	if c.Favourites.RedisDB < 0 {
		return fmt.Errorf("favourites redis_db must be non-negative, got %d", c.Favourites.RedisDB)
	}
	if c.Favourites.WriteTimeout < 0 {
		return fmt.Errorf("favourites write_timeout must be non-negative, got %v", c.Favourites.WriteTimeout)
	}

	if c.Refresh.Schedule != "" {
		if _, err := cron.ParseStandard(c.Refresh.Schedule); err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", c.Refresh.Schedule, err)
		}
	}

	if !isValidLogLevel(c.Logger.Level) {
		return fmt.Errorf("invalid logger level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}
	if !isValidLogFormat(c.Logger.Format) {
		return fmt.Errorf("invalid logger format: %s (must be json or text)", c.Logger.Format)
	}
	if c.Logger.SaveToDB && c.Favourites.Backend != BackendSQLite && c.Favourites.Backend != BackendPostgres {
		return fmt.Errorf("logger save_to_db needs a sql favourites backend, got %s", c.Favourites.Backend)
	}

	if strings.TrimSpace(c.Discord.Prefix) == "" {
		return fmt.Errorf("discord prefix cannot be empty")
	}

	return nil
}

// UsesSQL reports whether the configured backend keeps favourites in a SQL database
func (c *Config) UsesSQL() bool {
	return c.Favourites.Backend == BackendSQLite || c.Favourites.Backend == BackendPostgres
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validation helper functions
func isValidLogLevel(level string) bool {
	validLevels := []string{"debug", "info", "warn", "error"}
	for _, valid := range validLevels {
		if strings.ToLower(level) == valid {
			return true
		}
	}
	return false
}

func isValidLogFormat(format string) bool {
	validFormats := []string{"json", "text"}
	for _, valid := range validFormats {
		if strings.ToLower(format) == valid {
			return true
		}
	}
	return false
}
