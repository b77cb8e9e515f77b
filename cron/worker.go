package cron

import (
	"context"
	"time"

	"glsalliance/services/directory"
	"glsalliance/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	// EngineSweepInterval is how often idle directory engines are evicted.
	EngineSweepInterval = time.Minute
	// HealthCheckInterval is how often Redis and the backend are probed.
	HealthCheckInterval = 60 * time.Second
)

// StartWorkers runs the background jobs of the server until ctx is done.
func StartWorkers(ctx context.Context, registry *directory.Registry, redisClients []*redis.Client, backendURL string) {
	logger := utils.GetLogger()

	go func() {
		logger.Info("[Worker] Starting directory engine sweeper", zap.Duration("interval", EngineSweepInterval))
		registry.Run(ctx, EngineSweepInterval)
		logger.Info("[Worker] Directory engine sweeper stopped")
	}()

	utils.StartHealthMonitor(ctx, HealthCheckInterval, redisClients, backendURL)
	go monitorRedisConnection(ctx, redisClients)
}

// monitorRedisConnection logs when a Redis database stops answering or comes back.
func monitorRedisConnection(ctx context.Context, clients []*redis.Client) {
	logger := utils.GetLogger()
	down := make([]bool, len(clients))

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		for i, client := range clients {
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			err := client.Ping(pingCtx).Err()
			cancel()
			switch {
			case err != nil && !down[i]:
				down[i] = true
				logger.Error("[Worker] Redis unavailable", zap.Int("db", client.Options().DB), zap.Error(err))
			case err == nil && down[i]:
				down[i] = false
				logger.Info("[Worker] Redis connection restored", zap.Int("db", client.Options().DB))
			}
		}
	}
}
