package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Storage driver names
const (
	DriverFile     = "file"
	DriverDynamoDB = "dynamodb"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"serverAddress"`
	Environment   string `yaml:"environment"`

	// Storage configuration
	StorageDriver string `yaml:"storageDriver"`
	DataDir       string `yaml:"dataDir"`
	WatchDataDir  bool   `yaml:"watchDataDir"`

	// AWS configuration (dynamodb driver)
	AWSRegion     string `yaml:"awsRegion"`
	ElementsTable string `yaml:"elementsTable"`
	TimelineTable string `yaml:"timelineTable"`

	// Logging
	LogLevel string `yaml:"logLevel"`

	// Feature flags
	EnableCORS     bool `yaml:"enableCORS"`
	MigrateOnStart bool `yaml:"migrateOnStart"`
}

// LoadConfig loads configuration from an optional YAML file (CONFIG_FILE)
// with environment variables taking precedence over file values.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress:  ":8080",
		Environment:    "development",
		StorageDriver:  DriverFile,
		DataDir:        "./data",
		WatchDataDir:   true,
		AWSRegion:      "us-west-2",
		ElementsTable:  "atlas-elements",
		TimelineTable:  "atlas-timeline",
		LogLevel:       "info",
		EnableCORS:     true,
		MigrateOnStart: true,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.ServerAddress = getEnv("SERVER_ADDRESS", cfg.ServerAddress)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.StorageDriver = getEnv("STORAGE_DRIVER", cfg.StorageDriver)
	cfg.DataDir = getEnv("DATA_DIR", cfg.DataDir)
	cfg.WatchDataDir = getEnvBool("WATCH_DATA_DIR", cfg.WatchDataDir)
	cfg.AWSRegion = getEnv("AWS_REGION", cfg.AWSRegion)
	cfg.ElementsTable = getEnv("ELEMENTS_TABLE", cfg.ElementsTable)
	cfg.TimelineTable = getEnv("TIMELINE_TABLE", cfg.TimelineTable)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.EnableCORS = getEnvBool("ENABLE_CORS", cfg.EnableCORS)
	cfg.MigrateOnStart = getEnvBool("MIGRATE_ON_START", cfg.MigrateOnStart)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverFile:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the file storage driver")
		}
	case DriverDynamoDB:
		if c.ElementsTable == "" || c.TimelineTable == "" {
			return fmt.Errorf("ELEMENTS_TABLE and TIMELINE_TABLE are required for the dynamodb storage driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
