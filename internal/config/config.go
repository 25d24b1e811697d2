// Package config loads the pipeline configuration from the environment, with
// an optional YAML file underneath (env values win).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backend selectors.
const (
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"
	BackendMemory    = "memory"
)

// Config holds everything the pipeline needs for one process lifetime. It is
// read once at startup and passed down explicitly.
type Config struct {
	ProjectID           string `yaml:"project_id"`
	FirestoreDatabase   string `yaml:"firestore_database"`
	FirestoreCollection string `yaml:"firestore_collection"`

	StorageBackend string `yaml:"storage_backend"`
	MongoURI       string `yaml:"mongo_uri"`

	ExternalAPIURL string `yaml:"external_api_url"`
	ResourcePath   string `yaml:"resource_path"`

	RetryMaxAttempts int           `yaml:"retry_max_attempts"`
	RetryDelay       time.Duration `yaml:"retry_delay"`
	APITimeout       time.Duration `yaml:"api_timeout"`

	MaxItems  int `yaml:"max_items"`
	BatchSize int `yaml:"batch_size"`

	ServerAddr string `yaml:"server_addr"`
	LogLevel   string `yaml:"log_level"`
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if set), then environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		FirestoreDatabase:   "(default)",
		FirestoreCollection: "api_data",
		StorageBackend:      BackendFirestore,
		ExternalAPIURL:      "https://jsonplaceholder.typicode.com",
		ResourcePath:        "/posts",
		RetryMaxAttempts:    3,
		RetryDelay:          2 * time.Second,
		APITimeout:          30 * time.Second,
		MaxItems:            10,
		BatchSize:           5,
		ServerAddr:          ":8080",
		LogLevel:            "info",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.ProjectID = getEnv("PROJECT_ID", cfg.ProjectID)
	cfg.FirestoreDatabase = getEnv("FIRESTORE_DATABASE", cfg.FirestoreDatabase)
	cfg.FirestoreCollection = getEnv("FIRESTORE_COLLECTION", cfg.FirestoreCollection)
	cfg.StorageBackend = getEnv("STORAGE_BACKEND", cfg.StorageBackend)
	cfg.MongoURI = getEnv("MONGO_URI", cfg.MongoURI)
	cfg.ExternalAPIURL = getEnv("EXTERNAL_API_URL", cfg.ExternalAPIURL)
	cfg.RetryMaxAttempts = getEnvInt("API_RETRY_MAX_ATTEMPTS", cfg.RetryMaxAttempts)
	cfg.RetryDelay = getEnvSeconds("API_RETRY_DELAY", cfg.RetryDelay)
	cfg.APITimeout = getEnvSeconds("API_TIMEOUT", cfg.APITimeout)
	cfg.MaxItems = getEnvInt("MAX_ITEMS_TO_PROCESS", cfg.MaxItems)
	cfg.BatchSize = getEnvInt("BATCH_SIZE", cfg.BatchSize)
	cfg.ServerAddr = getEnv("SERVER_ADDR", cfg.ServerAddr)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports missing or malformed required values. It is fatal at
// startup: an invocation never proceeds on a broken configuration.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendFirestore:
		if c.ProjectID == "" {
			return fmt.Errorf("missing required configuration: PROJECT_ID")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("missing required configuration: MONGO_URI")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unsupported storage backend: %s", c.StorageBackend)
	}
	if c.RetryMaxAttempts < 1 {
		return fmt.Errorf("API_RETRY_MAX_ATTEMPTS must be >= 1, got %d", c.RetryMaxAttempts)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("BATCH_SIZE must be >= 1, got %d", c.BatchSize)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvSeconds reads an integer number of seconds, matching how the
// deployment supplies retry tuning.
func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
