package handlers

import (
	"context"
	"errors"
	"net/http"

	"glsalliance/models"
	"glsalliance/services/backend"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileSource loads the signed-in member's registration.
type ProfileSource interface {
	GetMemberByUser(ctx context.Context, userID, token string) (*models.MemberRegistration, error)
}

// MemberAreaHandler serves the pages behind login.
type MemberAreaHandler struct {
	Profiles ProfileSource
}

func NewMemberAreaHandler(profiles ProfileSource) *MemberAreaHandler {
	return &MemberAreaHandler{Profiles: profiles}
}

// MeHandler returns the auth snapshot of the caller.
func (h *MemberAreaHandler) MeHandler(c *gin.Context) {
	sess, _ := authSession(c)
	c.JSON(http.StatusOK, sess)
}

func (h *MemberAreaHandler) ProfileHandler(c *gin.Context) {
	sess, _ := authSession(c)
	profile, err := h.Profiles.GetMemberByUser(c.Request.Context(), currentUserID(c), sess.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DashboardSummary is the landing view of the member area.
type DashboardSummary struct {
	User          *models.AuthUser `json:"user"`
	HasProfile    bool             `json:"hasProfile"`
	ProfileStatus string           `json:"profileStatus,omitempty"`
	CompanyName   string           `json:"companyName,omitempty"`
	ProfileType   string           `json:"profileType,omitempty"`
	RefCode       string           `json:"refCode,omitempty"`
	// ProfileError is set when the profile could not be loaded.
	ProfileError string `json:"profileError,omitempty"`
}

// DashboardHandler summarises the account. A missing or unreachable profile
// does not fail the page.
func (h *MemberAreaHandler) DashboardHandler(c *gin.Context) {
	logger := getLogger(c)
	sess, _ := authSession(c)

	summary := DashboardSummary{User: sess.User}
	if sess.User != nil {
		summary.RefCode = sess.User.RefCode
		if summary.RefCode == "" {
			summary.RefCode = sess.User.ReferenceCode
		}
	}

	profile, err := h.Profiles.GetMemberByUser(c.Request.Context(), currentUserID(c), sess.Token)
	var apiErr *backend.APIError
	switch {
	case err == nil:
		summary.HasProfile = true
		summary.ProfileStatus = profile.Status
		summary.CompanyName = profile.CompanyName
		summary.ProfileType = profile.ProfileType
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound:
	default:
		logger.Warn("Dashboard profile unavailable", zap.Error(err))
		summary.ProfileError = "Could not load your company profile."
	}
	c.JSON(http.StatusOK, summary)
}
