package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"SERVER_HOST", "SERVER_PORT", "UPLOAD_DIR", "MAX_UPLOAD_MB",
		"CORS_ALLOWED_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	assert.Equal(t, 8000, ServerPort())
	assert.Equal(t, ":8000", ServerAddr())
	assert.Equal(t, "uploads", UploadDir())
	assert.Equal(t, int64(512<<20), MaxUploadBytes())
	assert.Equal(t, []string{"*"}, CORSAllowedOrigins())
	assert.Equal(t, 100.0, RateLimitRPS())
	assert.Equal(t, 20, RateLimitBurst())
	assert.Equal(t, "info", LogLevel())
}

func TestOverrides(t *testing.T) {
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("UPLOAD_DIR", "/tmp/up")
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://localhost:3000 , ,https://example.com")
	t.Setenv("RATE_LIMIT_RPS", "5.5")
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("LOG_LEVEL", "debug")

	assert.Equal(t, "127.0.0.1:9090", ServerAddr())
	assert.Equal(t, "/tmp/up", UploadDir())
	assert.Equal(t, int64(2<<20), MaxUploadBytes())
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, CORSAllowedOrigins())
	assert.Equal(t, 5.5, RateLimitRPS())
	assert.Equal(t, 3, RateLimitBurst())
	assert.Equal(t, "debug", LogLevel())
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "-1")
	t.Setenv("MAX_UPLOAD_MB", "lots")
	t.Setenv("RATE_LIMIT_RPS", "0")
	t.Setenv("RATE_LIMIT_BURST", "x")
	t.Setenv("CORS_ALLOWED_ORIGINS", " , ")

	assert.Equal(t, 8000, ServerPort())
	assert.Equal(t, int64(512<<20), MaxUploadBytes())
	assert.Equal(t, 100.0, RateLimitRPS())
	assert.Equal(t, 20, RateLimitBurst())
	assert.Equal(t, []string{"*"}, CORSAllowedOrigins())
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("UPLOAD_DIR=from-file\n"), 0o600))
	require.NoError(t, os.WriteFile(envFile+".secret", []byte("LOG_LEVEL=warn\n"), 0o600))

	t.Setenv("DEEPFAKE_ENV", envFile)
	// godotenv does not override existing values, so start from empty
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("UPLOAD_DIR"))
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	require.NoError(t, Load())
	assert.Equal(t, "from-file", UploadDir())
	assert.Equal(t, "warn", LogLevel())
}
