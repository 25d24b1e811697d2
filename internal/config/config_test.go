package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PROJECT_ID", "test-project")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-project", cfg.ProjectID)
	assert.Equal(t, "(default)", cfg.FirestoreDatabase)
	assert.Equal(t, "api_data", cfg.FirestoreCollection)
	assert.Equal(t, BackendFirestore, cfg.StorageBackend)
	assert.Equal(t, "https://jsonplaceholder.typicode.com", cfg.ExternalAPIURL)
	assert.Equal(t, "/posts", cfg.ResourcePath)
	assert.Equal(t, 3, cfg.RetryMaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, 10, cfg.MaxItems)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_MissingProjectID(t *testing.T) {
	t.Setenv("PROJECT_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROJECT_ID")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PROJECT_ID", "p")
	t.Setenv("API_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("API_RETRY_DELAY", "1")
	t.Setenv("BATCH_SIZE", "20")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.RetryMaxAttempts)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, 20, cfg.BatchSize)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MongoBackendRequiresURI(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "mongo")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URI")
}

func TestLoad_YAMLFileWithEnvWinning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"project_id: from-file\nbatch_size: 7\nlog_level: warn\n"), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.ProjectID)
	assert.Equal(t, 7, cfg.BatchSize)
	assert.Equal(t, "error", cfg.LogLevel) // env beats file
}

func TestValidate_Bounds(t *testing.T) {
	cfg := &Config{StorageBackend: BackendMemory, RetryMaxAttempts: 0, BatchSize: 5}
	assert.Error(t, cfg.Validate())

	cfg = &Config{StorageBackend: BackendMemory, RetryMaxAttempts: 3, BatchSize: 0}
	assert.Error(t, cfg.Validate())

	cfg = &Config{StorageBackend: "cassandra", RetryMaxAttempts: 3, BatchSize: 5}
	assert.Error(t, cfg.Validate())
}
