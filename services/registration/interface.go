package registration

import (
	"context"
	"encoding/json"

	"glsalliance/models"
	"glsalliance/services/backend"
)

// RegistrationService owns every visitor's wizard state. Handlers change the
// form only through it.
type RegistrationService interface {
	Start(ctx context.Context, sessionID string) (*Session, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	Patch(ctx context.Context, sessionID string, step Step, patch StepPatch) (*Session, error)
	AddContact(ctx context.Context, sessionID string) (*Session, error)
	RemoveContact(ctx context.Context, sessionID string, index int) (*Session, error)
	AddAffiliation(ctx context.Context, sessionID string) (*Session, error)
	RemoveAffiliation(ctx context.Context, sessionID string, index int) (*Session, error)
	Next(ctx context.Context, sessionID string) (*Session, error)
	Back(ctx context.Context, sessionID string) (*Session, error)
	Jump(ctx context.Context, sessionID string, target Step) (*Session, error)
	AttachUpload(ctx context.Context, sessionID string, field models.UploadField, fileName, contentType string, data []byte) (*Session, error)
	RemoveUpload(ctx context.Context, sessionID string, field models.UploadField) (*Session, error)
	FindUpload(ctx context.Context, sessionID, uploadID string) (*models.PendingUpload, error)
	OpenUpload(ctx context.Context, sessionID, uploadID string) (*models.PendingUpload, []byte, error)
	Review(ctx context.Context, sessionID string) (Review, error)
	Submit(ctx context.Context, sessionID, bearerToken string) (json.RawMessage, error)
	Abandon(ctx context.Context, sessionID string) error
}

// Submitter sends a finished application to the backend.
type Submitter interface {
	SubmitRegistration(ctx context.Context, token string, payload backend.MultipartBody) (json.RawMessage, error)
}
