package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Supported token formats
const (
	TokenFormatOpaque = "opaque"
	TokenFormatJWT    = "jwt"
)

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Environment string `json:"environment"`
	Port        int    `json:"port"`
	Host        string `json:"host"`

	// Database configuration
	DBDriver    string `json:"db_driver"`
	DatabaseURL string `json:"database_url"`
	DBHost      string `json:"db_host"`
	DBPort      string `json:"db_port"`
	DBName      string `json:"db_name"`
	DBUser      string `json:"db_user"`
	DBPassword  string `json:"db_password"`
	DBSSLMode   string `json:"db_sslmode"`
	DBPath      string `json:"db_path"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	TokenFormat   string `json:"token_format"`
	TokenSecret   string `json:"token_secret"`
	TokenTTLHours int    `json:"token_ttl_hours"`
	BcryptCost    int    `json:"bcrypt_cost"`

	// Media configuration
	MediaRoot   string `json:"media_root"`
	MediaURL    string `json:"media_url"`
	MaxUploadMB int    `json:"max_upload_mb"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Environment: %s, Port: %d, Host: %s, DBDriver: %s, DatabaseURL: %s, DBHost: %s, DBPort: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], DBPath: %s, LogLevel: %s, TokenFormat: %s, TokenSecret: [REDACTED], TokenTTLHours: %d, MediaRoot: %s, MediaURL: %s, MaxUploadMB: %d}",
		c.Environment, c.Port, c.Host, c.DBDriver, maskDatabaseURL(c.DatabaseURL), c.DBHost, c.DBPort, c.DBName, c.DBUser,
		c.DBPath, c.LogLevel, c.TokenFormat, c.TokenTTLHours, c.MediaRoot, c.MediaURL, c.MaxUploadMB)
}

// maskDatabaseURL masks password in database URL
func maskDatabaseURL(dbURL string) string {
	if dbURL == "" {
		return ""
	}

	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		// Replace password with [REDACTED]
		parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
	}

	return parsed.String()
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// It validates numeric values, the database driver, the optional DATABASE_URL and the token settings
// Returns an error if any environment variable is invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	ttl, err := strconv.Atoi(GetEnvWithDefault("TOKEN_TTL_HOURS", "168"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL_HOURS must be a positive integer")
	}

	maxUpload, err := strconv.Atoi(GetEnvWithDefault("MAX_UPLOAD_MB", "10"))
	if err != nil || maxUpload <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be a positive integer")
	}

	driver := strings.ToLower(GetEnvWithDefault("DB_DRIVER", "sqlite"))
	switch driver {
	case "sqlite", "postgres", "postgresql", "mysql":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: sqlite, postgres, mysql)", driver)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL != "" {
		// validate URL with net/url
		if _, err := url.ParseRequestURI(dbURL); err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL format: %w", err)
		}
	}

	tokenFormat := strings.ToLower(GetEnvWithDefault("TOKEN_FORMAT", TokenFormatOpaque))
	if tokenFormat != TokenFormatOpaque && tokenFormat != TokenFormatJWT {
		return nil, fmt.Errorf("unsupported TOKEN_FORMAT %q (supported: opaque, jwt)", tokenFormat)
	}

	config := &Config{
		Environment:   GetEnvWithDefault("APP_ENV", "development"),
		Port:          port,
		Host:          GetEnvWithDefault("APP_HOST", "localhost"),
		DBDriver:      driver,
		DatabaseURL:   dbURL,
		DBHost:        GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:        GetEnvWithDefault("DB_PORT", "5432"),
		DBName:        GetEnvWithDefault("DB_NAME", "recipes"),
		DBUser:        GetEnvWithDefault("DB_USER", "recipes"),
		DBPassword:    GetEnvWithDefault("DB_PASSWORD", "password"),
		DBSSLMode:     GetEnvWithDefault("DB_SSLMODE", "disable"),
		DBPath:        GetEnvWithDefault("DB_PATH", "recipes.sqlite"),
		LogLevel:      GetEnvWithDefault("LOG_LEVEL", "info"),
		TokenFormat:   tokenFormat,
		TokenSecret:   GetEnvWithDefault("TOKEN_SECRET", "secret"),
		TokenTTLHours: ttl,
		BcryptCost:    GetEnvAsType("BCRYPT_COST", 10),
		MediaRoot:     GetEnvWithDefault("MEDIA_ROOT", "media"),
		MediaURL:      GetEnvWithDefault("MEDIA_URL", "/media/"),
		MaxUploadMB:   maxUpload,
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value", key)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
