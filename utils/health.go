package utils

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Redis     []bool    `json:"redis"`
	Backend   bool      `json:"backend"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Healthy is true when every dependency answered the last probe.
func (h HealthStatus) Healthy() bool {
	if h.CheckedAt.IsZero() {
		return true
	}
	for _, ok := range h.Redis {
		if !ok {
			return false
		}
	}
	return h.Backend
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth probes every Redis client and the backend once and stores the result.
func CheckHealth(ctx context.Context, redisClients []*redis.Client, backendURL string, httpClient *http.Client) HealthStatus {
	var redisHealth []bool
	for _, client := range redisClients {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		redisHealth = append(redisHealth, err == nil)
	}

	// Any HTTP answer means the backend is reachable.
	backendHealthy := backendURL == ""
	if backendURL != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, backendURL, nil)
		if err == nil {
			if resp, err := httpClient.Do(req); err == nil {
				resp.Body.Close()
				backendHealthy = true
			}
		}
	}

	status := HealthStatus{
		Redis:     redisHealth,
		Backend:   backendHealthy,
		CheckedAt: time.Now(),
	}
	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is done.
func StartHealthMonitor(ctx context.Context, interval time.Duration, redisClients []*redis.Client, backendURL string) {
	httpClient := &http.Client{Timeout: 5 * time.Second}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		CheckHealth(ctx, redisClients, backendURL, httpClient)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CheckHealth(ctx, redisClients, backendURL, httpClient)
			}
		}
	}()
}
