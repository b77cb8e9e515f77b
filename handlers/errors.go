package handlers

import (
	"context"
	"errors"
	"net/http"

	"glsalliance/services/auth"
	"glsalliance/services/backend"
	"glsalliance/services/content"
	"glsalliance/services/payment"
	"glsalliance/services/registration"
	"glsalliance/services/storage"
	"glsalliance/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

// respondError writes err with the status its type calls for.
func respondError(c *gin.Context, err error) {
	logger := getLogger(c)

	var (
		stepErr   *registration.StepError
		scopeErr  *registration.PatchScopeError
		uploadErr *storage.UploadError
		payErr    *payment.ValidationError
		apiErr    *backend.APIError
		schemaErr *backend.SchemaError
		transErr  *backend.TransportError
		stripeErr *stripe.Error
	)

	switch {
	case errors.As(err, &stepErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": stepErr.Message,
			"field":   stepErr.Field,
			"step":    stepErr.Step,
		})
	case errors.As(err, &scopeErr):
		utils.JSONError(c, http.StatusUnprocessableEntity, "Patch touches another step", scopeErr.Error())
	case errors.As(err, &uploadErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": uploadErr.Message, "field": uploadErr.Field})
	case errors.As(err, &payErr):
		utils.JSONError(c, http.StatusUnprocessableEntity, payErr.Message, "")

	case errors.As(err, &apiErr):
		switch apiErr.Status {
		case http.StatusUnprocessableEntity, http.StatusBadRequest:
			utils.JSONErrorLines(c, http.StatusUnprocessableEntity, apiErr.Message, apiErr.Lines())
		case http.StatusUnauthorized:
			c.JSON(http.StatusUnauthorized, gin.H{"message": apiErr.Message, "redirect": utils.LoginPath})
		case http.StatusForbidden, http.StatusNotFound:
			utils.JSONError(c, apiErr.Status, apiErr.Message, "")
		default:
			logger.Error("Backend error", zap.Int("status", apiErr.Status), zap.String("message", apiErr.Message))
			utils.JSONErrorLines(c, http.StatusBadGateway, apiErr.Message, apiErr.Lines())
		}
	case errors.As(err, &schemaErr):
		logger.Error("Backend response failed schema validation", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Unexpected response from server", schemaErr.Endpoint)
	case errors.As(err, &transErr) && transErr.Timeout, errors.Is(err, context.DeadlineExceeded):
		logger.Warn("Backend timed out", zap.Error(err))
		utils.JSONError(c, http.StatusGatewayTimeout, backend.ErrTransport.Error(), "The server took too long to respond.")
	case errors.Is(err, backend.ErrTransport):
		logger.Warn("Backend unreachable", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, backend.ErrTransport.Error(), "")
	case errors.As(err, &stripeErr):
		logger.Error("Stripe error", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Card payment failed", stripeErr.Msg)

	case errors.Is(err, registration.ErrSubmitInFlight),
		errors.Is(err, registration.ErrAlreadySubmitted),
		errors.Is(err, registration.ErrStepNotActive),
		errors.Is(err, registration.ErrNotOnReview),
		errors.Is(err, payment.ErrIntentNotSettled),
		errors.Is(err, payment.ErrIntentUsed):
		utils.JSONError(c, http.StatusConflict, err.Error(), "")
	case errors.Is(err, registration.ErrInvalidIndex),
		errors.Is(err, registration.ErrUnknownOption),
		errors.Is(err, registration.ErrNotApplicable),
		errors.Is(err, auth.ErrMissingCredentials),
		errors.Is(err, auth.ErrResetTokenMissing):
		utils.JSONError(c, http.StatusUnprocessableEntity, err.Error(), "")
	case errors.Is(err, registration.ErrInvalidStep):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, auth.ErrAccountInactive), errors.Is(err, auth.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error(), "redirect": utils.LoginPath})
	case errors.Is(err, payment.ErrIntentNotYours), errors.Is(err, payment.ErrIntentPurpose):
		utils.JSONError(c, http.StatusForbidden, err.Error(), "")
	case errors.Is(err, payment.ErrCardsDisabled):
		utils.JSONError(c, http.StatusServiceUnavailable, err.Error(), "")
	case errors.Is(err, registration.ErrSessionNotFound),
		errors.Is(err, registration.ErrUploadNotFound),
		errors.Is(err, storage.ErrUploadGone),
		errors.Is(err, content.ErrConferenceNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the answer.
		c.Status(499)
	default:
		logger.Error("Unhandled error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred. Please try again later.")
	}
}
