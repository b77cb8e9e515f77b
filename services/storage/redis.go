package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glsalliance/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const uploadPrefix = "upload:"

// ErrUploadGone is returned when a payload expired or was released.
var ErrUploadGone = errors.New("upload no longer available")

// RedisStore keeps payloads in Redis next to the wizard session.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	// previewBase is the route serving previews, e.g. "/api/registration/uploads/".
	previewBase string
}

func NewRedisStore(client *redis.Client, ttl time.Duration, previewBase string) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, previewBase: previewBase}
}

func uploadKey(sessionID, id string) string {
	return fmt.Sprintf("%s%s:%s", uploadPrefix, sessionID, id)
}

func (s *RedisStore) Put(ctx context.Context, sessionID string, field models.UploadField, fileName, contentType string, data []byte) (*models.PendingUpload, error) {
	id := uuid.New().String()
	key := uploadKey(sessionID, id)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("RedisStore: failed to store upload: %w", err)
	}
	return &models.PendingUpload{
		ID:          id,
		Field:       field,
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(data)),
		PreviewURL:  s.previewBase + id,
		StoreRef:    key,
	}, nil
}

func (s *RedisStore) Open(ctx context.Context, sessionID string, upload *models.PendingUpload) ([]byte, error) {
	data, err := s.client.Get(ctx, uploadKey(sessionID, upload.ID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrUploadGone
	}
	if err != nil {
		return nil, fmt.Errorf("RedisStore: failed to read upload: %w", err)
	}
	return data, nil
}

func (s *RedisStore) Release(ctx context.Context, sessionID string, upload *models.PendingUpload) error {
	if upload == nil {
		return nil
	}
	return s.client.Del(ctx, uploadKey(sessionID, upload.ID)).Err()
}

func (s *RedisStore) ReleaseAll(ctx context.Context, sessionID string) error {
	iter := s.client.Scan(ctx, 0, uploadKey(sessionID, "*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("RedisStore: failed to list uploads: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Touch extends the payload TTLs of a session together with the wizard.
func (s *RedisStore) Touch(ctx context.Context, sessionID string, uploads []*models.PendingUpload) {
	for _, u := range uploads {
		s.client.Expire(ctx, uploadKey(sessionID, u.ID), s.ttl)
	}
}
