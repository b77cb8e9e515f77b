package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"glsalliance/models"
	"glsalliance/services/backend"
	"glsalliance/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	// SessionTTL keeps a login alive across browser restarts.
	SessionTTL = 30 * 24 * time.Hour
	// ResetTokenTTL bounds the OTP password reset flow.
	ResetTokenTTL = 15 * time.Minute
)

// Backend is the part of the REST client auth depends on.
type Backend interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*models.AuthUser, error)
	RequestPasswordOTP(ctx context.Context, email string) (json.RawMessage, error)
	VerifyPasswordOTP(ctx context.Context, email, otp string) (string, json.RawMessage, error)
	ChangePassword(ctx context.Context, resetToken, password, confirmation string) (json.RawMessage, error)
}

// SessionService is the only reader and writer of a visitor's auth state.
type SessionService interface {
	Login(ctx context.Context, sessionID, email, password string) (models.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Refresh(ctx context.Context, sessionID string) (models.Session, error)
	Snapshot(ctx context.Context, sessionID string) (models.Session, error)
	RequestPasswordOTP(ctx context.Context, email string) (json.RawMessage, error)
	VerifyPasswordOTP(ctx context.Context, sessionID, email, otp string) (json.RawMessage, error)
	ChangePassword(ctx context.Context, sessionID, password, confirmation string) (json.RawMessage, error)
}

type Service struct {
	backend Backend
	client  *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
}

func NewService(b Backend, client *redis.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: b, client: client, ttl: SessionTTL, logger: logger}
}

var _ SessionService = (*Service)(nil)

func snapshotOf(s *utils.AuthSession) models.Session {
	if s == nil || s.Token == "" {
		return models.Session{}
	}
	var user *models.AuthUser
	if s.User != nil {
		u := *s.User
		user = &u
	}
	// Only an active account counts as signed in.
	return models.Session{Token: s.Token, User: user, Authenticated: user.IsActive()}
}

func (s *Service) load(ctx context.Context, sessionID string) (*utils.AuthSession, error) {
	sess, err := utils.GetAuthSession(ctx, s.client, sessionID)
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return sess, err
}

// Login checks the credentials with the backend. An account that is not
// active is signed straight back out and never stored.
func (s *Service) Login(ctx context.Context, sessionID, email, password string) (models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.Session{}, ErrMissingCredentials
	}

	res, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return models.Session{}, err
	}

	if !res.User.IsActive() {
		if err := s.backend.Logout(ctx, res.Token); err != nil {
			s.logger.Debug("Logout of inactive account failed", zap.Error(err))
		}
		if err := utils.DeleteAuthSession(ctx, s.client, sessionID); err != nil {
			s.logger.Warn("Failed to clear auth session", zap.Error(err))
		}
		s.logger.Info("Rejected login for inactive account",
			zap.String("email", email), zap.String("status", string(res.User.Status)))
		return models.Session{}, ErrAccountInactive
	}

	user := res.User
	session := utils.AuthSession{Token: res.Token, User: &user, CreatedAt: time.Now()}
	if err := utils.SaveAuthSession(ctx, s.client, sessionID, session, s.ttl); err != nil {
		return models.Session{}, err
	}
	s.logger.Info("User logged in", zap.String("userId", user.ID.String()))
	return snapshotOf(&session), nil
}

// Logout always clears local state; the backend call is best effort.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		s.logger.Warn("Failed to read auth session on logout", zap.Error(err))
	}
	if sess != nil && sess.Token != "" {
		if err := s.backend.Logout(ctx, sess.Token); err != nil {
			s.logger.Debug("Backend logout failed", zap.Error(err))
		}
	}
	return utils.DeleteAuthSession(ctx, s.client, sessionID)
}

// Refresh reloads the user from the backend. A failed reload keeps the
// cached user; it never signs the visitor out.
func (s *Service) Refresh(ctx context.Context, sessionID string) (models.Session, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil || sess == nil || sess.Token == "" {
		return models.Session{}, err
	}

	user, err := s.backend.Me(ctx, sess.Token)
	if err != nil {
		s.logger.Debug("Session refresh failed, keeping cached user", zap.Error(err))
		return snapshotOf(sess), nil
	}
	sess.User = user
	if err := utils.SaveAuthSession(ctx, s.client, sessionID, *sess, s.ttl); err != nil {
		s.logger.Warn("Failed to store refreshed user", zap.Error(err))
	}
	return snapshotOf(sess), nil
}

func (s *Service) Snapshot(ctx context.Context, sessionID string) (models.Session, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return models.Session{}, err
	}
	return snapshotOf(sess), nil
}

func (s *Service) RequestPasswordOTP(ctx context.Context, email string) (json.RawMessage, error) {
	return s.backend.RequestPasswordOTP(ctx, strings.TrimSpace(email))
}

// VerifyPasswordOTP stores the reset token the backend hands out.
func (s *Service) VerifyPasswordOTP(ctx context.Context, sessionID, email, otp string) (json.RawMessage, error) {
	token, raw, err := s.backend.VerifyPasswordOTP(ctx, strings.TrimSpace(email), strings.TrimSpace(otp))
	if err != nil {
		return nil, err
	}
	if token != "" {
		if err := utils.SaveResetToken(ctx, s.client, sessionID, token, ResetTokenTTL); err != nil {
			return nil, err
		}
	}
	return raw, nil
}

// ChangePassword finishes the reset flow. The reset token is dropped once
// the backend accepts the new password.
func (s *Service) ChangePassword(ctx context.Context, sessionID, password, confirmation string) (json.RawMessage, error) {
	token, err := utils.GetResetToken(ctx, s.client, sessionID)
	if errors.Is(err, redis.Nil) || (err == nil && token == "") {
		return nil, ErrResetTokenMissing
	}
	if err != nil {
		return nil, err
	}

	raw, err := s.backend.ChangePassword(ctx, token, password, confirmation)
	if err != nil {
		return nil, err
	}
	if err := utils.DeleteResetToken(ctx, s.client, sessionID); err != nil {
		s.logger.Warn("Failed to drop reset token", zap.Error(err))
	}
	return raw, nil
}
