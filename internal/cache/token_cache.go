// Package cache keeps disposable Redis copies of hot lookups.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/academic-records/internal/config"
)

// revokedMarker replaces the account id of a logged-out token.
const revokedMarker = "revoked"

// ErrRevoked is returned by Get for a token that was logged out.
var ErrRevoked = errors.New("token revoked")

// TokenCache maps token keys to account ids in Redis. Entries expire after
// ttl. Logout leaves a revocation marker for ttl so a fill racing the logout
// cannot bring the token back; the auth_tokens table stays authoritative.
type TokenCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTokenCache creates a new TokenCache.
func NewTokenCache(rdb *redis.Client, ttl time.Duration) *TokenCache {
	return &TokenCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached account id. ok is false on a miss and err is
// ErrRevoked for a logged-out token.
func (c *TokenCache) Get(ctx context.Context, tokenKey string) (accountID int, ok bool, err error) {
	raw, err := c.rdb.Get(ctx, config.CacheKey.AuthTokenKey(tokenKey)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get cached token: %w", err)
	}
	if raw == revokedMarker {
		return 0, false, ErrRevoked
	}
	accountID, err = strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("decode cached token: %w", err)
	}
	return accountID, true, nil
}

// Set caches the account id unless the key already holds an entry, so a
// revocation marker is never overwritten.
func (c *TokenCache) Set(ctx context.Context, tokenKey string, accountID int) error {
	if err := c.rdb.SetNX(ctx, config.CacheKey.AuthTokenKey(tokenKey), accountID, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache token: %w", err)
	}
	return nil
}

// Revoke replaces any cached entry with a revocation marker.
func (c *TokenCache) Revoke(ctx context.Context, tokenKey string) error {
	if err := c.rdb.Set(ctx, config.CacheKey.AuthTokenKey(tokenKey), revokedMarker, c.ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
