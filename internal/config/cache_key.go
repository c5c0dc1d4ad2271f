package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AuthTokenKey returns the cache key mapping a token key to its account id.
func (r *CacheKeyStruct) AuthTokenKey(tokenKey string) string {
	return fmt.Sprintf("auth:token:%s", tokenKey)
}

// RateLimitKey returns the counter key for a client within one fixed window.
func (r *CacheKeyStruct) RateLimitKey(scope, clientIP string, window int64) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", scope, clientIP, window)
}

var CacheKey = NewCacheKeyStruct()
