package storage

import (
	"fmt"
	"strings"

	"glsalliance/models"
)

const (
	MaxCoverPhotoBytes = 5 << 20
	MaxDocumentBytes   = 10 << 20
)

// UploadError rejects a file at selection time.
type UploadError struct {
	Field   models.UploadField
	Message string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a candidate file for field. Cover photos must be images of
// at most 5 MiB; documents may be any type up to 10 MiB.
func Validate(field models.UploadField, contentType string, size int64) error {
	if !field.Valid() {
		return &UploadError{Field: field, Message: "Unknown upload field."}
	}
	if size <= 0 {
		return &UploadError{Field: field, Message: "The selected file is empty."}
	}
	if field == models.UploadCoverPhoto {
		if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
			return &UploadError{Field: field, Message: "Please upload a valid image file (JPG/PNG/WebP)."}
		}
		if size > MaxCoverPhotoBytes {
			return &UploadError{Field: field, Message: "Image too large. Max 5MB."}
		}
		return nil
	}
	if size > MaxDocumentBytes {
		return &UploadError{Field: field, Message: "File too large. Max 10MB."}
	}
	return nil
}
