// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"glsalliance/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient caches public backend reads (categories, site content).
	CacheClient *redis.Client
	// AuthCacheClient holds bearer tokens, cached users and reset tokens.
	AuthCacheClient *redis.Client
	// SessionClient holds registration wizard sessions and pending uploads.
	SessionClient *redis.Client
)

func newClient(db int, purpose string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", purpose, err)
	}
	return client
}

// InitRedis connects every Redis client the server needs.
func InitRedis() {
	GetCacheClient()
	GetAuthCacheClient()
	GetSessionClient()
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		CacheClient = newClient(config.AppConfig.RedisCacheDB, "Cache")
	}
	return CacheClient
}

// GetAuthCacheClient returns the Redis client for auth session state.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		AuthCacheClient = newClient(config.AppConfig.RedisAuthDB, "Auth Cache")
	}
	return AuthCacheClient
}

// GetSessionClient returns the Redis client for wizard sessions.
func GetSessionClient() *redis.Client {
	if SessionClient == nil {
		SessionClient = newClient(config.AppConfig.RedisSessionDB, "Sessions")
	}
	return SessionClient
}

// CloseRedis closes all initialised clients.
func CloseRedis() {
	for _, c := range []*redis.Client{CacheClient, AuthCacheClient, SessionClient} {
		if c != nil {
			_ = c.Close()
		}
	}
}
