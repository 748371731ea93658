package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":3000", cfg.Server.Address)
	assert.Equal(t, 30*24*time.Hour, cfg.Middleware.JWT.ExpireDuration)
	assert.Equal(t, time.Hour, cfg.Middleware.JWT.ResetExpireDuration)
	assert.Equal(t, "HS256", cfg.Middleware.JWT.SigningMethod)
	assert.False(t, cfg.IsProd())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("JWT_EXPIRATION", "1h")
	t.Setenv("JWT_RESET_EXPIRATION", "10m")
	t.Setenv("DB_PORT", "3307")

	cfg := Load()

	assert.True(t, cfg.IsProd())
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "env-secret", cfg.Middleware.JWT.Secret)
	assert.Equal(t, time.Hour, cfg.Middleware.JWT.ExpireDuration)
	assert.Equal(t, 10*time.Minute, cfg.Middleware.JWT.ResetExpireDuration)
	assert.Equal(t, 3307, cfg.Database.Port)
}

func TestLoadJWTAlgorithm(t *testing.T) {
	t.Setenv("JWT_ALGORITHM", " hs512 ")
	cfg := Load()
	assert.Equal(t, "HS512", cfg.Middleware.JWT.SigningMethod)
}

func TestLoadJWTAlgorithmRejectsUnsupported(t *testing.T) {
	t.Setenv("JWT_ALGORITHM", "none")
	cfg := Load()
	// 非法算法被忽略，保持默认
	assert.Equal(t, "HS256", cfg.Middleware.JWT.SigningMethod)
}
