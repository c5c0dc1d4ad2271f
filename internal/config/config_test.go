package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "STORAGE_DRIVER", "TOKEN_CACHE_TTL_MINUTES", "ALLOWED_ORIGINS", "BCRYPT_COST", "REDIS_URL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 15*time.Minute, cfg.TokenCacheTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Nil(t, cfg.AllowedOrigins)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("TOKEN_CACHE_TTL_MINUTES", "5")
	t.Setenv("AUTH_RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("REDIS_URL", "")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 5*time.Minute, cfg.TokenCacheTTL)
	assert.Equal(t, 30, cfg.AuthRateLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.RedisURL)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "auth:token:abc", CacheKey.AuthTokenKey("abc"))
	assert.Equal(t, "ratelimit:auth:10.0.0.1:42", CacheKey.RateLimitKey("auth", "10.0.0.1", 42))
}
