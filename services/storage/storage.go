package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"glsalliance/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	cloudinaryIndexPrefix = "uploadidx:"
	// indexGrace keeps the index readable after the wizard expires, so the
	// deferred release can still find the assets.
	indexGrace = 24 * time.Hour
)

// CloudinaryStore parks pending uploads in a temporary Cloudinary folder. The
// preview URL is the asset's secure URL. Public IDs are indexed per session in
// Redis so an abandoned wizard can be cleaned up.
type CloudinaryStore struct {
	cld        *cloudinary.Cloudinary
	folder     string
	index      *redis.Client
	ttl        time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

func NewCloudinaryStore(cld *cloudinary.Cloudinary, folder string, index *redis.Client, ttl time.Duration, logger *zap.Logger) *CloudinaryStore {
	return &CloudinaryStore{
		cld:        cld,
		folder:     folder,
		index:      index,
		ttl:        ttl,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (s *CloudinaryStore) Put(ctx context.Context, sessionID string, field models.UploadField, fileName, contentType string, data []byte) (*models.PendingUpload, error) {
	id := uuid.New().String()
	uploadParams := uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     sessionID + "_" + id,
		ResourceType: "auto",
	}
	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploadParams)
	if err != nil {
		return nil, fmt.Errorf("CloudinaryStore: failed to upload file: %w", err)
	}
	if result.PublicID == "" {
		return nil, fmt.Errorf("CloudinaryStore: no public ID returned: %s", result.Error.Message)
	}

	idxKey := cloudinaryIndexPrefix + sessionID
	if err := s.index.SAdd(ctx, idxKey, result.PublicID).Err(); err != nil {
		s.logger.Warn("CloudinaryStore: failed to index upload", zap.String("publicId", result.PublicID), zap.Error(err))
	}
	s.index.Expire(ctx, idxKey, s.ttl+indexGrace)

	return &models.PendingUpload{
		ID:          id,
		Field:       field,
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(data)),
		PreviewURL:  result.SecureURL,
		StoreRef:    result.PublicID,
	}, nil
}

// Open downloads the asset back so it can be forwarded to the backend.
func (s *CloudinaryStore) Open(ctx context.Context, sessionID string, upload *models.PendingUpload) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, upload.PreviewURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CloudinaryStore: failed to fetch upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrUploadGone
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CloudinaryStore: fetch returned %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, MaxDocumentBytes+1))
}

func (s *CloudinaryStore) Release(ctx context.Context, sessionID string, upload *models.PendingUpload) error {
	if upload == nil || upload.StoreRef == "" {
		return nil
	}
	if err := s.destroy(ctx, upload.StoreRef); err != nil {
		return err
	}
	s.index.SRem(ctx, cloudinaryIndexPrefix+sessionID, upload.StoreRef)
	return nil
}

func (s *CloudinaryStore) ReleaseAll(ctx context.Context, sessionID string) error {
	idxKey := cloudinaryIndexPrefix + sessionID
	publicIDs, err := s.index.SMembers(ctx, idxKey).Result()
	if err != nil {
		return fmt.Errorf("CloudinaryStore: failed to list uploads: %w", err)
	}
	var firstErr error
	for _, publicID := range publicIDs {
		if err := s.destroy(ctx, publicID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.index.Del(ctx, idxKey)
	return firstErr
}

// Touch keeps the session index alive for as long as the wizard is.
func (s *CloudinaryStore) Touch(ctx context.Context, sessionID string, uploads []*models.PendingUpload) {
	if len(uploads) == 0 {
		return
	}
	if err := s.index.Expire(ctx, cloudinaryIndexPrefix+sessionID, s.ttl+indexGrace).Err(); err != nil {
		s.logger.Warn("CloudinaryStore: failed to refresh upload index", zap.String("sessionId", sessionID), zap.Error(err))
	}
}

func (s *CloudinaryStore) destroy(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("CloudinaryStore: failed to delete file: %w", err)
	}
	return nil
}
