package registration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"glsalliance/models"
	"glsalliance/services/backend"
	"glsalliance/services/storage"
	"glsalliance/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	sessionPrefix = "regsession:"
	// SessionTTL is how long an idle wizard survives.
	SessionTTL = 2 * time.Hour
	// staleSubmitAfter frees a submit lock left by a crashed request.
	staleSubmitAfter = 2 * time.Minute
	maxTxRetries     = 5
)

// ErrAlreadySubmitted blocks a second submission of a finished wizard.
var ErrAlreadySubmitted = errors.New("this registration has already been submitted")

// CleanupScheduler defers the release of a wizard's uploads.
type CleanupScheduler interface {
	ScheduleRelease(ctx context.Context, sessionID string, fireAt time.Time) error
}

// Service is the Redis backed RegistrationService.
type Service struct {
	sessions  *redis.Client
	uploads   storage.UploadStore
	submitter Submitter
	cleanup   CleanupScheduler
	ttl       time.Duration
	logger    *zap.Logger
}

func NewService(sessions *redis.Client, uploads storage.UploadStore, submitter Submitter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sessions:  sessions,
		uploads:   uploads,
		submitter: submitter,
		ttl:       SessionTTL,
		logger:    logger,
	}
}

var _ RegistrationService = (*Service)(nil)

// SetCleanup makes the service queue a release of every wizard's uploads
// for when the wizard would expire.
func (s *Service) SetCleanup(c CleanupScheduler) {
	s.cleanup = c
}

func (s *Service) scheduleRelease(ctx context.Context, sessionID string, fireAt time.Time) {
	if s.cleanup == nil {
		return
	}
	if err := s.cleanup.ScheduleRelease(ctx, sessionID, fireAt); err != nil {
		s.logger.Warn("Failed to schedule upload release", zap.String("sessionId", sessionID), zap.Error(err))
	}
}

// ReleaseIfExpired frees the uploads of a wizard that no longer exists. A
// live wizard is checked again when its current TTL runs out.
func (s *Service) ReleaseIfExpired(ctx context.Context, sessionID string) error {
	ttl, err := s.sessions.TTL(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("failed to read registration session TTL: %w", err)
	}
	if ttl > 0 {
		s.scheduleRelease(ctx, sessionID, time.Now().Add(ttl))
		return nil
	}
	if err := s.uploads.ReleaseAll(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info("Released uploads of expired wizard", zap.String("sessionId", sessionID))
	return nil
}

func sessionKey(sessionID string) string { return sessionPrefix + sessionID }

func (s *Service) load(ctx context.Context, tx redis.Cmdable, sessionID string) (*Session, error) {
	raw, err := tx.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load registration session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode registration session: %w", err)
	}
	return &sess, nil
}

func (s *Service) save(ctx context.Context, tx redis.Cmdable, sess *Session) error {
	sess.UpdatedAt = time.Now()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode registration session: %w", err)
	}
	return tx.Set(ctx, sessionKey(sess.ID), data, s.ttl).Err()
}

// update applies fn to the stored session inside an optimistic transaction.
// fn must not perform I/O; it may be re-run when the key changes underneath.
func (s *Service) update(ctx context.Context, sessionID string, fn func(*Session) error) (*Session, error) {
	var out *Session
	txf := func(tx *redis.Tx) error {
		sess, err := s.load(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		sess.Notice = ""
		if err := fn(sess); err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			return s.save(ctx, pipe, sess)
		})
		if err == nil {
			out = sess
		}
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.sessions.Watch(ctx, txf, sessionKey(sessionID))
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.touchUploads(ctx, out)
		return out, nil
	}
	return nil, fmt.Errorf("registration session %s: too much contention", sessionID)
}

type toucher interface {
	Touch(ctx context.Context, sessionID string, uploads []*models.PendingUpload)
}

func (s *Service) touchUploads(ctx context.Context, sess *Session) {
	if t, ok := s.uploads.(toucher); ok {
		t.Touch(ctx, sess.ID, sess.Form.Uploads())
	}
}

// Start opens a fresh wizard, discarding any previous one and its uploads.
func (s *Service) Start(ctx context.Context, sessionID string) (*Session, error) {
	if err := s.uploads.ReleaseAll(ctx, sessionID); err != nil {
		s.logger.Warn("Failed to release previous uploads", zap.String("sessionId", sessionID), zap.Error(err))
	}
	now := time.Now()
	sess := &Session{
		ID:        sessionID,
		Form:      models.NewRegistrationForm(),
		CreatedAt: now,
	}
	if err := s.save(ctx, s.sessions, sess); err != nil {
		return nil, err
	}
	s.scheduleRelease(ctx, sessionID, now.Add(s.ttl))
	s.logger.Info("Registration wizard started", zap.String("sessionId", sessionID))
	return sess, nil
}

// Get returns the wizard, starting one when none exists.
func (s *Service) Get(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := s.load(ctx, s.sessions, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return s.Start(ctx, sessionID)
	}
	return sess, err
}

func (s *Service) requireStep(sess *Session, step Step) error {
	if sess.Submitting {
		return ErrSubmitInFlight
	}
	if sess.Stepper.Current != step {
		return ErrStepNotActive
	}
	return nil
}

func (s *Service) Patch(ctx context.Context, sessionID string, step Step, patch StepPatch) (*Session, error) {
	if !step.Valid() {
		return nil, ErrInvalidStep
	}
	var dropped []*models.PendingUpload
	sess, err := s.update(ctx, sessionID, func(sess *Session) error {
		if err := s.requireStep(sess, step); err != nil {
			return err
		}
		form, notice, err := applyPatch(sess.Form, step, patch)
		if err != nil {
			return err
		}
		dropped = droppedUploads(sess.Form.Uploads(), form.Uploads())
		sess.Form = form
		sess.Notice = notice
		return nil
	})
	if err != nil {
		return nil, err
	}
	// A profile type switch can clear the cover photo slot.
	for _, u := range dropped {
		s.release(ctx, sessionID, u)
	}
	return sess, nil
}

// droppedUploads lists the uploads in before that are no longer in after.
func droppedUploads(before, after []*models.PendingUpload) []*models.PendingUpload {
	kept := make(map[string]bool, len(after))
	for _, u := range after {
		kept[u.ID] = true
	}
	var out []*models.PendingUpload
	for _, u := range before {
		if !kept[u.ID] {
			out = append(out, u)
		}
	}
	return out
}

func (s *Service) AddContact(ctx context.Context, sessionID string) (*Session, error) {
	return s.update(ctx, sessionID, func(sess *Session) error {
		if err := s.requireStep(sess, StepCompanyInfo); err != nil {
			return err
		}
		sess.Form = AddContact(sess.Form)
		return nil
	})
}

func (s *Service) RemoveContact(ctx context.Context, sessionID string, index int) (*Session, error) {
	return s.update(ctx, sessionID, func(sess *Session) error {
		if err := s.requireStep(sess, StepCompanyInfo); err != nil {
			return err
		}
		form, err := RemoveContact(sess.Form, index)
		if err != nil {
			return err
		}
		sess.Form = form
		return nil
	})
}

func (s *Service) AddAffiliation(ctx context.Context, sessionID string) (*Session, error) {
	return s.update(ctx, sessionID, func(sess *Session) error {
		if err := s.requireStep(sess, StepBusinessReg); err != nil {
			return err
		}
		sess.Form = AddAffiliation(sess.Form)
		return nil
	})
}

func (s *Service) RemoveAffiliation(ctx context.Context, sessionID string, index int) (*Session, error) {
	return s.update(ctx, sessionID, func(sess *Session) error {
		if err := s.requireStep(sess, StepBusinessReg); err != nil {
			return err
		}
		form, err := RemoveAffiliation(sess.Form, index)
		if err != nil {
			return err
		}
		sess.Form = form
		return nil
	})
}

// arrive runs the on-enter effects of the step just reached.
func arrive(sess *Session) {
	if sess.Stepper.Current == StepBusinessReg {
		sess.Form = SeedAffiliations(sess.Form)
	}
}

// navigate moves the stepper. A failed guard is returned after the new
// position has been stored, since a forward jump may stop part way.
func (s *Service) navigate(ctx context.Context, sessionID string, move func(*Session) error) (*Session, error) {
	var guardErr error
	sess, err := s.update(ctx, sessionID, func(sess *Session) error {
		guardErr = nil
		if sess.Submitting {
			return ErrSubmitInFlight
		}
		err := move(sess)
		var stepErr *StepError
		if err != nil && !errors.As(err, &stepErr) {
			return err
		}
		guardErr = err
		arrive(sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sess, guardErr
}

func (s *Service) Next(ctx context.Context, sessionID string) (*Session, error) {
	return s.navigate(ctx, sessionID, func(sess *Session) error {
		st, err := sess.Stepper.Next(&sess.Form)
		sess.Stepper = st
		return err
	})
}

func (s *Service) Back(ctx context.Context, sessionID string) (*Session, error) {
	return s.navigate(ctx, sessionID, func(sess *Session) error {
		sess.Stepper = sess.Stepper.Back()
		return nil
	})
}

func (s *Service) Jump(ctx context.Context, sessionID string, target Step) (*Session, error) {
	return s.navigate(ctx, sessionID, func(sess *Session) error {
		st, err := sess.Stepper.Jump(target, &sess.Form)
		sess.Stepper = st
		if err == nil && target != StepReview {
			sess.Banner = nil
		}
		return err
	})
}

// AttachUpload validates and stores a file, then swaps it into its slot. The
// displaced upload, or the new one when the swap fails, is released.
func (s *Service) AttachUpload(ctx context.Context, sessionID string, field models.UploadField, fileName, contentType string, data []byte) (*Session, error) {
	if err := storage.Validate(field, contentType, int64(len(data))); err != nil {
		return nil, err
	}
	current, err := s.load(ctx, s.sessions, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireStep(current, uploadStep(field)); err != nil {
		return nil, err
	}
	if field == models.UploadCoverPhoto && current.Form.ProfileType != models.ProfileImporterExporter {
		return nil, ErrNotApplicable
	}

	upload, err := s.uploads.Put(ctx, sessionID, field, fileName, contentType, data)
	if err != nil {
		return nil, err
	}

	var displaced *models.PendingUpload
	sess, err := s.update(ctx, sessionID, func(sess *Session) error {
		if err := s.requireStep(sess, uploadStep(field)); err != nil {
			return err
		}
		form, prev, err := SetUpload(sess.Form, field, upload)
		if err != nil {
			return err
		}
		sess.Form = form
		displaced = prev
		return nil
	})
	if err != nil {
		s.release(ctx, sessionID, upload)
		return nil, err
	}
	s.release(ctx, sessionID, displaced)
	s.scheduleRelease(ctx, sessionID, time.Now().Add(s.ttl))
	return sess, nil
}

func (s *Service) RemoveUpload(ctx context.Context, sessionID string, field models.UploadField) (*Session, error) {
	if !field.Valid() {
		return nil, ErrUnknownOption
	}
	var removed *models.PendingUpload
	sess, err := s.update(ctx, sessionID, func(sess *Session) error {
		if err := s.requireStep(sess, uploadStep(field)); err != nil {
			return err
		}
		form, prev, err := SetUpload(sess.Form, field, nil)
		if err != nil {
			return err
		}
		sess.Form = form
		removed = prev
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.release(ctx, sessionID, removed)
	return sess, nil
}

func (s *Service) release(ctx context.Context, sessionID string, u *models.PendingUpload) {
	if u == nil {
		return
	}
	if err := s.uploads.Release(ctx, sessionID, u); err != nil {
		s.logger.Warn("Failed to release upload", zap.String("uploadId", u.ID), zap.Error(err))
	}
}

// FindUpload returns the metadata of one of the session's uploads.
func (s *Service) FindUpload(ctx context.Context, sessionID, uploadID string) (*models.PendingUpload, error) {
	sess, err := s.load(ctx, s.sessions, sessionID)
	if err != nil {
		return nil, err
	}
	for _, u := range sess.Form.Uploads() {
		if u.ID == uploadID {
			return u, nil
		}
	}
	return nil, ErrUploadNotFound
}

// OpenUpload returns an upload of the session together with its payload.
func (s *Service) OpenUpload(ctx context.Context, sessionID, uploadID string) (*models.PendingUpload, []byte, error) {
	u, err := s.FindUpload(ctx, sessionID, uploadID)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.uploads.Open(ctx, sessionID, u)
	if err != nil {
		return nil, nil, err
	}
	return u, data, nil
}

func (s *Service) Review(ctx context.Context, sessionID string) (Review, error) {
	sess, err := s.load(ctx, s.sessions, sessionID)
	if err != nil {
		return Review{}, err
	}
	return BuildReview(&sess.Form), nil
}

// Submit sends the application exactly once. On failure the form is kept as
// it was and the error becomes the session banner.
func (s *Service) Submit(ctx context.Context, sessionID, bearerToken string) (json.RawMessage, error) {
	sess, err := s.update(ctx, sessionID, func(sess *Session) error {
		if sess.Stepper.Current != StepReview {
			return ErrNotOnReview
		}
		if sess.Submitted {
			return ErrAlreadySubmitted
		}
		if sess.Submitting && time.Since(sess.SubmitStartedAt) < staleSubmitAfter {
			return ErrSubmitInFlight
		}
		sess.Submitting = true
		sess.SubmitStartedAt = time.Now()
		sess.Banner = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	profileType := string(sess.Form.ProfileType)
	raw, submitErr := s.send(ctx, sess, bearerToken)

	outcome := "ok"
	if submitErr != nil {
		outcome = submitOutcome(submitErr)
	}
	utils.RegistrationSubmissions.WithLabelValues(profileType, outcome).Inc()

	// The request context may be gone by now; the lock must still be cleared.
	finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	_, err = s.update(finishCtx, sessionID, func(sess *Session) error {
		sess.Submitting = false
		if submitErr != nil {
			sess.Banner = errorBanner(submitErr)
			return nil
		}
		sess.Submitted = true
		sess.SubmissionResult = raw
		sess.Banner = &Banner{Kind: "success", Message: successMessage(raw)}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to record submission outcome", zap.String("sessionId", sessionID), zap.Error(err))
	}

	if submitErr != nil {
		s.logger.Info("Registration submission failed", zap.String("sessionId", sessionID), zap.Error(submitErr))
		return nil, submitErr
	}

	if err := s.uploads.ReleaseAll(finishCtx, sessionID); err != nil {
		s.logger.Warn("Failed to release uploads after submission", zap.String("sessionId", sessionID), zap.Error(err))
	}
	s.logger.Info("Registration submitted", zap.String("sessionId", sessionID), zap.String("profileType", profileType))
	return raw, nil
}

func (s *Service) send(ctx context.Context, sess *Session, bearerToken string) (json.RawMessage, error) {
	payload, err := BuildPayload(ctx, &sess.Form, func(ctx context.Context, u *models.PendingUpload) ([]byte, error) {
		return s.uploads.Open(ctx, sess.ID, u)
	})
	if err != nil {
		return nil, err
	}
	return s.submitter.SubmitRegistration(ctx, bearerToken, payload)
}

func submitOutcome(err error) string {
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Status == 422:
		return "invalid"
	case errors.As(err, &apiErr):
		return "rejected"
	case errors.Is(err, backend.ErrTransport):
		return "transport_error"
	}
	return "error"
}

func errorBanner(err error) *Banner {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		b := &Banner{Kind: "error", Message: apiErr.Message}
		if len(apiErr.Fields) > 0 {
			b.Lines = apiErr.Lines()
		}
		return b
	}
	if errors.Is(err, backend.ErrTransport) {
		return &Banner{Kind: "error", Message: backend.ErrTransport.Error()}
	}
	if errors.Is(err, storage.ErrUploadGone) {
		return &Banner{Kind: "error", Message: "An attached file has expired. Please upload it again."}
	}
	return &Banner{Kind: "error", Message: "Something went wrong. Please try again."}
}

func successMessage(raw json.RawMessage) string {
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		return body.Message
	}
	return "Registration submitted successfully."
}

// Abandon drops the wizard and every upload it holds.
func (s *Service) Abandon(ctx context.Context, sessionID string) error {
	if err := s.uploads.ReleaseAll(ctx, sessionID); err != nil {
		s.logger.Warn("Failed to release uploads", zap.String("sessionId", sessionID), zap.Error(err))
	}
	return s.sessions.Del(ctx, sessionKey(sessionID)).Err()
}
