package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("NODE_ENV", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("MEDIA_MAX_IMAGE_PIXELS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.False(t, cfg.App.IsProduction())
	assert.Equal(t, "0.0.0.0:5001", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "token", cfg.Auth.CookieName)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LoginLockout())
	assert.Equal(t, 40_000_000, cfg.Media.MaxImagePixels)
}

func TestLoad_LegacyKeys(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("NODE_ENV", "Production")
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "8080")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("JWT_ACCESS_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("JWT_ACCESS_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvAsInt_Fallback(t *testing.T) {
	t.Setenv("SOME_INT", "nope")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
	t.Setenv("SOME_INT", "12")
	assert.Equal(t, 12, getEnvAsInt("SOME_INT", 7))
}

func TestMediaConfig_Enabled(t *testing.T) {
	assert.False(t, MediaConfig{}.Enabled())
	assert.True(t, MediaConfig{Endpoint: "minio:9000"}.Enabled())
}
