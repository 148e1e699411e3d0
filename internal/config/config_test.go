package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/degiro/internal/export"
	"github.com/aristath/degiro/pkg/degiro"
)

// chdirTemp runs the test in an empty directory so no stray .env is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DEGIRO_USERNAME", "DEGIRO_PASSWORD", "DEGIRO_BASE_URL", "LOG_LEVEL", "LOG_PRETTY", "OUTPUT_FORMAT"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)
	t.Setenv("DEGIRO_USERNAME", "jdoe")
	t.Setenv("DEGIRO_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "jdoe", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, degiro.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, export.FormatJSON, cfg.OutputFormat)
}

func TestLoad_FromEnvironment(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)
	t.Setenv("DEGIRO_USERNAME", "jdoe")
	t.Setenv("DEGIRO_PASSWORD", "secret")
	t.Setenv("DEGIRO_BASE_URL", "http://localhost:9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "false")
	t.Setenv("OUTPUT_FORMAT", "msgpack")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.BaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
	assert.Equal(t, export.FormatMsgpack, cfg.OutputFormat)
}

func TestLoad_FromDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	clearEnv(t)
	// godotenv does not override variables that are already set, even to "".
	os.Unsetenv("DEGIRO_USERNAME")
	os.Unsetenv("DEGIRO_PASSWORD")

	content := "DEGIRO_USERNAME=fromfile\nDEGIRO_PASSWORD=filesecret\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("DEGIRO_USERNAME")
		os.Unsetenv("DEGIRO_PASSWORD")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.Username)
	assert.Equal(t, "filesecret", cfg.Password)
}

func TestLoad_MissingCredentials(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadFormat(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)
	t.Setenv("DEGIRO_USERNAME", "jdoe")
	t.Setenv("DEGIRO_PASSWORD", "secret")
	t.Setenv("OUTPUT_FORMAT", "xml")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvAsBool_InvalidFallsBack(t *testing.T) {
	t.Setenv("LOG_PRETTY", "sometimes")
	assert.True(t, getEnvAsBool("LOG_PRETTY", true))
}
