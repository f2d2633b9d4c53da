package jaegerconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validKey = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_KEY", validKey)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 5*time.Second, cfg.DBOpTimeout)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "jaeger", cfg.JWTIssuer)
	assert.Equal(t, "jaeger-clients", cfg.JWTAudience)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
	require.NoError(t, cfg.Validate())
}

func TestLoadReadsEnvFileWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("JWT_KEY="+validKey+"\nHTTP_ADDR=:9090\nJWT_EXPIRY=15m\n"), 0o600))
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("JWT_KEY", "")
	os.Unsetenv("JWT_KEY")
	t.Cleanup(func() { os.Unsetenv("JWT_EXPIRY") })

	cfg, err := Load(filepath.Join(dir, "nope.env"), envFile)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, validKey, cfg.JWTKey)
	assert.Equal(t, 15*time.Minute, cfg.JWTExpiry)
}

func TestValidate(t *testing.T) {
	t.Setenv("JWT_KEY", "too-short")
	t.Setenv("BCRYPT_COST", "99")
	t.Setenv("LOG_LEVEL", "chatty")
	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_KEY")
	assert.Contains(t, err.Error(), "BCRYPT_COST")
	assert.Contains(t, err.Error(), `LOG_LEVEL "chatty"`)

	cfg = Config{JWTKey: validKey, JWTExpiry: time.Hour, DBOpTimeout: time.Second, BcryptCost: 10, AuthRateLimit: 1, AuthRateBurst: 1, LogLevel: "debug"}
	require.NoError(t, cfg.Validate())
	cfg.LogLevel = "verbose"
	assert.ErrorContains(t, cfg.Validate(), "LOG_LEVEL")
}

func TestAllowedOrigins(t *testing.T) {
	cfg := Config{CORSAllowedOrigins: " https://a.example , ,https://b.example"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}
