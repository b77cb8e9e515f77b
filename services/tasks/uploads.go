package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TypeReleaseUploads frees the pending uploads of an abandoned wizard.
const TypeReleaseUploads = "uploads:release"

type ReleaseUploadsPayload struct {
	SessionID string `json:"sessionId"`
}

func NewReleaseUploadsTask(sessionID string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ReleaseUploadsPayload{SessionID: sessionID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReleaseUploads, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt), asynq.MaxRetry(5)}

	return task, opts, nil
}

// Enqueuer is the part of *asynq.Client the scheduler uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// UploadScheduler queues deferred upload releases.
type UploadScheduler struct {
	client Enqueuer
}

func NewUploadScheduler(client Enqueuer) *UploadScheduler {
	return &UploadScheduler{client: client}
}

// ScheduleRelease queues a release check for sessionID at fireAt.
func (s *UploadScheduler) ScheduleRelease(ctx context.Context, sessionID string, fireAt time.Time) error {
	task, opts, err := NewReleaseUploadsTask(sessionID, fireAt)
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", TypeReleaseUploads, err)
	}
	return nil
}

// UploadReleaser frees a session's uploads once its wizard is gone.
type UploadReleaser interface {
	ReleaseIfExpired(ctx context.Context, sessionID string) error
}

// HandleReleaseUploads runs an uploads:release task.
func HandleReleaseUploads(releaser UploadReleaser) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ReleaseUploadsPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return fmt.Errorf("invalid %s payload: %v: %w", TypeReleaseUploads, err, asynq.SkipRetry)
		}
		if p.SessionID == "" {
			return fmt.Errorf("%s payload has no session: %w", TypeReleaseUploads, asynq.SkipRetry)
		}
		return releaser.ReleaseIfExpired(ctx, p.SessionID)
	}
}
