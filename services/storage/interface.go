package storage

import (
	"context"

	"glsalliance/models"
)

// UploadStore keeps the payload of pending uploads between the moment a file is
// chosen and the moment the registration is submitted or abandoned.
type UploadStore interface {
	// Put stores data and returns the upload handle that owns it.
	Put(ctx context.Context, sessionID string, field models.UploadField, fileName, contentType string, data []byte) (*models.PendingUpload, error)
	// Open returns the payload of a stored upload.
	Open(ctx context.Context, sessionID string, upload *models.PendingUpload) ([]byte, error)
	// Release drops one upload. Releasing an unknown upload is not an error.
	Release(ctx context.Context, sessionID string, upload *models.PendingUpload) error
	// ReleaseAll drops every upload of a session.
	ReleaseAll(ctx context.Context, sessionID string) error
}
