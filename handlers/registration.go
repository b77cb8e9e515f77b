package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"glsalliance/models"
	"glsalliance/services/registration"
	"glsalliance/services/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegistrationHandler serves the membership registration wizard.
type RegistrationHandler struct {
	Svc registration.RegistrationService
}

func NewRegistrationHandler(svc registration.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{Svc: svc}
}

func (h *RegistrationHandler) respond(c *gin.Context, status int, sess *registration.Session, err error) {
	if err != nil {
		var stepErr *registration.StepError
		if sess != nil && errors.As(err, &stepErr) {
			// The stepper moved as far as it could; hand back where it stopped.
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message":      stepErr.Message,
				"field":        stepErr.Field,
				"step":         stepErr.Step,
				"registration": sess.View(),
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(status, sess.View())
}

// StartHandler opens a fresh wizard.
func (h *RegistrationHandler) StartHandler(c *gin.Context) {
	sess, err := h.Svc.Start(c.Request.Context(), sessionID(c))
	h.respond(c, http.StatusCreated, sess, err)
}

func (h *RegistrationHandler) GetHandler(c *gin.Context) {
	sess, err := h.Svc.Get(c.Request.Context(), sessionID(c))
	h.respond(c, http.StatusOK, sess, err)
}

// AbandonHandler drops the wizard and its uploads.
func (h *RegistrationHandler) AbandonHandler(c *gin.Context) {
	if err := h.Svc.Abandon(c.Request.Context(), sessionID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PatchHandler applies edits owned by the step named in the path.
func (h *RegistrationHandler) PatchHandler(c *gin.Context) {
	logger := getLogger(c)
	step, ok := registration.StepFromSlug(c.Param("step"))
	if !ok {
		respondError(c, registration.ErrInvalidStep)
		return
	}
	var patch registration.StepPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		logger.Warn("Invalid registration patch", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	sess, err := h.Svc.Patch(c.Request.Context(), sessionID(c), step, patch)
	h.respond(c, http.StatusOK, sess, err)
}

func indexParam(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil || i < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be a non-negative integer"})
		return 0, false
	}
	return i, true
}

func (h *RegistrationHandler) AddContactHandler(c *gin.Context) {
	sess, err := h.Svc.AddContact(c.Request.Context(), sessionID(c))
	h.respond(c, http.StatusOK, sess, err)
}

func (h *RegistrationHandler) RemoveContactHandler(c *gin.Context) {
	i, ok := indexParam(c)
	if !ok {
		return
	}
	sess, err := h.Svc.RemoveContact(c.Request.Context(), sessionID(c), i)
	h.respond(c, http.StatusOK, sess, err)
}

func (h *RegistrationHandler) AddAffiliationHandler(c *gin.Context) {
	sess, err := h.Svc.AddAffiliation(c.Request.Context(), sessionID(c))
	h.respond(c, http.StatusOK, sess, err)
}

func (h *RegistrationHandler) RemoveAffiliationHandler(c *gin.Context) {
	i, ok := indexParam(c)
	if !ok {
		return
	}
	sess, err := h.Svc.RemoveAffiliation(c.Request.Context(), sessionID(c), i)
	h.respond(c, http.StatusOK, sess, err)
}

func (h *RegistrationHandler) NextHandler(c *gin.Context) {
	sess, err := h.Svc.Next(c.Request.Context(), sessionID(c))
	h.respond(c, http.StatusOK, sess, err)
}

func (h *RegistrationHandler) BackHandler(c *gin.Context) {
	sess, err := h.Svc.Back(c.Request.Context(), sessionID(c))
	h.respond(c, http.StatusOK, sess, err)
}

// JumpHandler moves to a step picked on the progress bar.
func (h *RegistrationHandler) JumpHandler(c *gin.Context) {
	step, ok := registration.StepFromSlug(c.Param("index"))
	if !ok {
		respondError(c, registration.ErrInvalidStep)
		return
	}
	sess, err := h.Svc.Jump(c.Request.Context(), sessionID(c), step)
	h.respond(c, http.StatusOK, sess, err)
}

// readUpload reads the "file" part, capped one byte past the largest
// accepted size so oversize files are still reported as such.
func readUpload(c *gin.Context) (name, contentType string, data []byte, err error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", "", nil, err
	}
	f, err := fileHeader.Open()
	if err != nil {
		return "", "", nil, err
	}
	defer f.Close()

	data, err = io.ReadAll(io.LimitReader(f, storage.MaxDocumentBytes+1))
	if err != nil {
		return "", "", nil, err
	}
	contentType = fileHeader.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return fileHeader.Filename, contentType, data, nil
}

// UploadHandler attaches a file to one of the form's upload slots.
func (h *RegistrationHandler) UploadHandler(c *gin.Context) {
	logger := getLogger(c)
	field := models.UploadField(c.Param("field"))
	if !field.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown upload field"})
		return
	}
	name, contentType, data, err := readUpload(c)
	if err != nil {
		logger.Warn("Upload not readable", zap.String("field", string(field)), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "details": err.Error()})
		return
	}
	sess, err := h.Svc.AttachUpload(c.Request.Context(), sessionID(c), field, name, contentType, data)
	h.respond(c, http.StatusOK, sess, err)
}

func (h *RegistrationHandler) RemoveUploadHandler(c *gin.Context) {
	field := models.UploadField(c.Param("field"))
	if !field.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown upload field"})
		return
	}
	sess, err := h.Svc.RemoveUpload(c.Request.Context(), sessionID(c), field)
	h.respond(c, http.StatusOK, sess, err)
}

// PreviewHandler serves a pending upload back to its owner. Uploads hosted
// elsewhere are redirected to their delivery URL.
func (h *RegistrationHandler) PreviewHandler(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	upload, err := h.Svc.FindUpload(ctx, sessionID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if strings.HasPrefix(upload.PreviewURL, "https://") || strings.HasPrefix(upload.PreviewURL, "http://") {
		c.Redirect(http.StatusFound, upload.PreviewURL)
		return
	}
	_, data, err := h.Svc.OpenUpload(ctx, sessionID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", previewDisposition(contentType), upload.FileName))
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, contentType, data)
}

// previewDisposition shows images and PDFs in the browser and downloads
// everything else.
func previewDisposition(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "image/svg+xml" {
		return "attachment"
	}
	if strings.HasPrefix(ct, "image/") || ct == "application/pdf" {
		return "inline"
	}
	return "attachment"
}

func (h *RegistrationHandler) ReviewHandler(c *gin.Context) {
	review, err := h.Svc.Review(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// SubmitHandler sends the application. The backend's answer is passed
// through untouched.
func (h *RegistrationHandler) SubmitHandler(c *gin.Context) {
	logger := getLogger(c)
	ctx := c.Request.Context()

	var token string
	if auth, ok := authSession(c); ok {
		token = auth.Token
	}

	raw, err := h.Svc.Submit(ctx, sessionID(c), token)
	if err != nil {
		logger.Warn("Registration submission failed", zap.Error(err))
		respondError(c, err)
		return
	}
	sess, err := h.Svc.Get(ctx, sessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": raw, "registration": sess.View()})
}

// CatalogHandler lists the static option sets the wizard offers.
func (h *RegistrationHandler) CatalogHandler(c *gin.Context) {
	c.JSON(http.StatusOK, registration.GetCatalog())
}
