package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	config := NewDefaultConfig()
	require.NoError(t, config.Validate())
	assert.Equal(t, 3600, config.Cache.DefaultTTLSeconds)
	assert.Equal(t, "info", config.Logging.Level)
}

func TestLoadFromFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quantlens.toml")
	content := `
[provider]
base_url = "https://data.example.com"
rate_limit = 5

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://data.example.com", config.Provider.BaseURL)
	assert.Equal(t, 5, config.Provider.RateLimit)
	assert.Equal(t, "debug", config.Logging.Level)
	// Untouched sections keep their defaults.
	assert.Equal(t, 3600, config.Cache.DefaultTTLSeconds)
}

func TestLoadFromFileMissingFileKeepsDefaults(t *testing.T) {
	config, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, NewDefaultConfig().Provider.BaseURL, config.Provider.BaseURL)
}

func TestEnvOverridesBeatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quantlens.toml")
	content := `
[logging]
level = "info"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("QUANTLENS_LOG_LEVEL", "error")
	t.Setenv("QUANTLENS_CACHE_DEFAULT_TTL_SECONDS", "60")
	t.Setenv("QUANTLENS_LOG_OUTPUT", "stdout,file")

	config, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "error", config.Logging.Level)
	assert.Equal(t, 60, config.Cache.DefaultTTLSeconds)
	assert.Equal(t, []string{"stdout", "file"}, config.Logging.Output)
}

func TestInvalidLogLevelFailsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quantlens.toml")
	content := `
[logging]
level = "verbose"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
