//go:build !integration

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("APP_SHARE_CODE_KEY", "0123456789abcdef")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 0, cfg.Redis.RedisDB)
	assert.Equal(t, 5*time.Minute, cfg.Recommendation.CacheTTL)
	assert.Equal(t, 10, cfg.Recommendation.MaxResults)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:8080"}, cfg.Server.AllowOrigins)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RECOMMEND_CACHE_TTL", "30s")
	t.Setenv("LOG_MAX_BACKUPS", "9")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Redis.RedisDB)
	assert.Equal(t, 30*time.Second, cfg.Recommendation.CacheTTL)
	assert.Equal(t, 9, cfg.Log.MaxBackups)
}

func TestLoadMissingSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("APP_SHARE_CODE_KEY", "0123456789abcdef")

	_, err := Load()
	assert.EqualError(t, err, "missing jwt secret")

	setRequired(t)
	t.Setenv("APP_SHARE_CODE_KEY", "short")
	_, err = Load()
	assert.Error(t, err)

	setRequired(t)
	t.Setenv("REDIS_DB", "abc")
	_, err = Load()
	assert.EqualError(t, err, "invalid redis database")
}
