package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// SessionSigner issues and verifies the tokens carried by the web session cookie.
// The token only wraps the opaque session ID; all state stays server side.
type SessionSigner struct {
	secret []byte
}

// NewSessionSigner builds a signer. An empty secret yields a random per-process
// key, which invalidates every cookie on restart.
func NewSessionSigner(secret string) *SessionSigner {
	if secret == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic("utils: cannot generate session key: " + err.Error())
		}
		GetLogger().Warn("SESSION_SECRET not set; using an ephemeral signing key")
		return &SessionSigner{secret: key}
	}
	return &SessionSigner{secret: []byte(secret)}
}

// Sign creates a signed JWT with the session ID as subject.
func (s *SessionSigner) Sign(sessionID string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// SessionID validates a token and returns its subject.
func (s *SessionSigner) SessionID(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}
	return sub, nil
}

// HashToken computes a SHA-256 hash of the token string. Used to refer to
// bearer tokens in logs without writing them out.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
