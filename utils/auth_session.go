// File: utils/auth_session.go
package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"glsalliance/models"

	"github.com/go-redis/redis/v8"
)

const (
	AuthSessionPrefix = "auth:"
	ResetTokenPrefix  = "reset:"
)

// AuthSession is the server side half of a signed-in browser session.
type AuthSession struct {
	Token         string           `json:"token"`
	User          *models.AuthUser `json:"user,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	LastUpdatedAt time.Time        `json:"lastUpdatedAt"`
}

// SaveAuthSession saves the authentication session in Redis with a TTL.
func SaveAuthSession(ctx context.Context, client *redis.Client, sessionID string, session AuthSession, ttl time.Duration) error {
	session.LastUpdatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal auth session: %w", err)
	}
	if err := client.Set(ctx, AuthSessionPrefix+sessionID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save auth session: %w", err)
	}
	return nil
}

// GetAuthSession retrieves the authentication session from Redis. A missing
// session is reported as redis.Nil.
func GetAuthSession(ctx context.Context, client *redis.Client, sessionID string) (*AuthSession, error) {
	data, err := client.Get(ctx, AuthSessionPrefix+sessionID).Bytes()
	if err != nil {
		return nil, err
	}
	var session AuthSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth session: %w", err)
	}
	return &session, nil
}

// DeleteAuthSession removes an authentication session and any pending reset token.
func DeleteAuthSession(ctx context.Context, client *redis.Client, sessionID string) error {
	return client.Del(ctx, AuthSessionPrefix+sessionID, ResetTokenPrefix+sessionID).Err()
}

// SaveResetToken keeps a password reset token for the rest of the reset flow.
func SaveResetToken(ctx context.Context, client *redis.Client, sessionID, token string, ttl time.Duration) error {
	return client.Set(ctx, ResetTokenPrefix+sessionID, token, ttl).Err()
}

// GetResetToken returns the pending reset token or redis.Nil.
func GetResetToken(ctx context.Context, client *redis.Client, sessionID string) (string, error) {
	return client.Get(ctx, ResetTokenPrefix+sessionID).Result()
}

func DeleteResetToken(ctx context.Context, client *redis.Client, sessionID string) error {
	return client.Del(ctx, ResetTokenPrefix+sessionID).Err()
}
