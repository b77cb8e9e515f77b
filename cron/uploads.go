package cron

import (
	"context"
	"time"

	"glsalliance/config"
	"glsalliance/services/tasks"
	"glsalliance/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt points asynq at the queue database.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// StartUploadWorker runs the uploads:release consumer until ctx is done.
func StartUploadWorker(ctx context.Context, releaser tasks.UploadReleaser) {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Named("asynq").Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeReleaseUploads, tasks.HandleReleaseUploads(releaser))

	go func() {
		logger.Info("[UploadWorker] Starting upload release worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				break
			}
			logger.Error("[UploadWorker] Failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("[UploadWorker] Giving up; abandoned uploads will not be released")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}

		<-ctx.Done()
		srv.Shutdown()
		logger.Info("[UploadWorker] Upload release worker stopped")
	}()
}
