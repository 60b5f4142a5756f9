package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for k := range defaults {
		t.Setenv(strings.ToUpper(k), "")
		os.Unsetenv(strings.ToUpper(k))
	}
	t.Setenv("NOTES_CONFIG", "")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.False(t, cfg.NeedsAWS())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "notes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
store_driver: sqlite
sqlite_path: /tmp/notes.db
store_timeout: 2s
log_format: json
`), 0o600))

	t.Setenv("PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port, "env wins over file")
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "/tmp/notes.db", cfg.SQLitePath)
	assert.Equal(t, 2*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_ValidatesDriver(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":       {"STORE_DRIVER": "mongo"},
		"postgres needs dsn":   {"STORE_DRIVER": "postgres"},
		"dynamo needs table":   {"STORE_DRIVER": "dynamodb"},
		"non positive timeout": {"STORE_TIMEOUT": "0s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_DynamoNeedsAWS(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "DynamoDB")
	t.Setenv("NOTES_TABLE", "contact-notes")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverDynamoDB, cfg.StoreDriver)
	assert.True(t, cfg.NeedsAWS())
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
