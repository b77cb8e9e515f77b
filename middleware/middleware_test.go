package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"glsalliance/models"
	"glsalliance/services/auth"
	"glsalliance/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==========================
// SessionMiddleware
// ==========================

func sessionRouter(signer *utils.SessionSigner) *gin.Engine {
	r := gin.New()
	r.Use(SessionMiddleware(signer, time.Hour, true))
	r.GET("/sid", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(utils.ContextSessionID))
	})
	return r
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == utils.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSessionMiddleware_IssuesCookie(t *testing.T) {
	r := sessionRouter(utils.NewSessionSigner("secret"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sid", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.NotEmpty(t, w.Body.String())
}

func TestSessionMiddleware_KeepsValidCookie(t *testing.T) {
	signer := utils.NewSessionSigner("secret")
	token, err := signer.Sign("sid-42", time.Hour)
	require.NoError(t, err)

	r := sessionRouter(signer)
	req := httptest.NewRequest(http.MethodGet, "/sid", nil)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "sid-42", w.Body.String())
	assert.Nil(t, sessionCookie(w))
}

func TestSessionMiddleware_ReplacesForeignCookie(t *testing.T) {
	token, err := utils.NewSessionSigner("other").Sign("sid-42", time.Hour)
	require.NoError(t, err)

	r := sessionRouter(utils.NewSessionSigner("secret"))
	req := httptest.NewRequest(http.MethodGet, "/sid", nil)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEqual(t, "sid-42", w.Body.String())
	assert.NotNil(t, sessionCookie(w))
}

// ==========================
// LoadAuth / RequireActive
// ==========================

type stubSessions struct {
	auth.SessionService
	sessions map[string]models.Session
}

func (s *stubSessions) Snapshot(_ context.Context, sid string) (models.Session, error) {
	return s.sessions[sid], nil
}

func authRouter(sessions map[string]models.Session) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(utils.ContextSessionID, c.GetHeader("X-Test-Session"))
		c.Next()
	})
	r.Use(LoadAuth(&stubSessions{sessions: sessions}))
	r.GET("/open", func(c *gin.Context) {
		_, signedIn := c.Get(utils.ContextAuth)
		c.JSON(http.StatusOK, gin.H{"signedIn": signedIn})
	})
	r.GET("/closed", RequireActive(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequireActive(t *testing.T) {
	sessions := map[string]models.Session{
		"active":  {Token: "tok", Authenticated: true, User: &models.AuthUser{ID: "7", Status: models.StatusActive}},
		"idle":    {Token: "tok", Authenticated: true, User: &models.AuthUser{ID: "8", Status: models.StatusInactive}},
		"demoted": {Token: "tok", Authenticated: false, User: &models.AuthUser{ID: "9", Status: "blocked"}},
	}
	tests := []struct {
		name    string
		session string
		status  int
		message string
	}{
		{"anonymous", "", http.StatusUnauthorized, "Login required."},
		{"unknown session", "nope", http.StatusUnauthorized, "Login required."},
		{"inactive account", "idle", http.StatusUnauthorized, auth.ErrAccountInactive.Error()},
		{"account blocked after sign in", "demoted", http.StatusUnauthorized, auth.ErrAccountInactive.Error()},
		{"active account", "active", http.StatusNoContent, ""},
	}
	r := authRouter(sessions)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/closed", nil)
			req.Header.Set("X-Test-Session", tt.session)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.message == "" {
				return
			}
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["error"])
			assert.Equal(t, utils.LoginPath, body["redirect"])
		})
	}
}

func TestLoadAuth_NeverRejects(t *testing.T) {
	r := authRouter(map[string]models.Session{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"signedIn":false}`, w.Body.String())
}

// ==========================
// RateLimitMiddleware
// ==========================

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))
}

func TestRateLimiterStore_SweepsIdleEntries(t *testing.T) {
	s := newRateLimiterStore(10)
	s.getLimiter("10.0.0.1")
	s.limiters["10.0.0.1"].lastSeen = time.Now().Add(-2 * limiterIdleTTL)
	s.lastSweep = time.Now().Add(-2 * limiterIdleTTL)

	s.getLimiter("10.0.0.2")

	assert.NotContains(t, s.limiters, "10.0.0.1")
	assert.Contains(t, s.limiters, "10.0.0.2")
}

// ==========================
// RequestLogger
// ==========================

func TestRequestLogger_EchoesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(utils.GetLogger()))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(utils.ContextRequestID))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-1", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
