// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StorageSQLite   = "sqlite"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Cart modes
const (
	CartModeLocal  = "local"
	CartModeRemote = "remote"
)

// Config holds all configuration for the storefront
type Config struct {
	App      AppConfig
	Server   ServerConfig
	API      APIConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Session  SessionConfig
	Cart     CartConfig
	Checkout CheckoutConfig
	Courses  CoursesConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// ServerConfig contains the local UI API server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// APIConfig points at the bakery backend
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StorageConfig selects the durable key/value backend
type StorageConfig struct {
	Driver     string
	SQLitePath string
	Namespace  string
	Watch      bool
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// DatabaseConfig contains postgres connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// SessionConfig controls the client-side session lifetime
type SessionConfig struct {
	TTL time.Duration
}

// CartConfig selects between the local and the network-backed cart
type CartConfig struct {
	Mode string
}

// CheckoutConfig contains order submission configuration
type CheckoutConfig struct {
	OrderSheetURL string
	DeliveryFee   float64
}

// CoursesConfig contains baking course inquiry configuration
type CoursesConfig struct {
	InquirySheetURL string
}

// SecurityConfig contains CORS configuration for the UI API
type SecurityConfig struct {
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Gurukul Bakery Storefront"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:3001"),
			Timeout: getEnvAsDuration("API_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Driver:     getEnv("STORAGE_DRIVER", StorageSQLite),
			SQLitePath: getEnv("STORAGE_SQLITE_PATH", "storefront.db"),
			Namespace:  getEnv("STORAGE_NAMESPACE", "default"),
			Watch:      getEnvAsBool("STORAGE_WATCH", false),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "storefront"),
			User:         getEnv("DB_USER", "storefront"),
			Password:     getEnv("DB_PASSWORD", "storefront"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 5),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Session: SessionConfig{
			TTL: getEnvAsDuration("SESSION_TTL", 15*time.Minute),
		},
		Cart: CartConfig{
			Mode: getEnv("CART_MODE", CartModeLocal),
		},
		Checkout: CheckoutConfig{
			OrderSheetURL: getEnv("ORDER_SHEET_URL", ""),
			DeliveryFee:   getEnvAsFloat("DELIVERY_FEE", 50),
		},
		Courses: CoursesConfig{
			InquirySheetURL: getEnv("COURSE_SHEET_URL", ""),
		},
		Security: SecurityConfig{
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept"}),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
			File:   getEnv("LOG_FILE", ""),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("STORAGE_SQLITE_PATH is required for the sqlite driver")
		}
	case StorageRedis:
		if c.Redis.Host == "" {
			return fmt.Errorf("REDIS_HOST is required for the redis driver")
		}
	case StoragePostgres:
		if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" {
			return fmt.Errorf("DB_HOST, DB_NAME and DB_USER are required for the postgres driver")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER: %q", c.Storage.Driver)
	}

	if c.Cart.Mode != CartModeLocal && c.Cart.Mode != CartModeRemote {
		return fmt.Errorf("unsupported CART_MODE: %q", c.Cart.Mode)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if c.Checkout.DeliveryFee < 0 {
		return fmt.Errorf("DELIVERY_FEE cannot be negative")
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
