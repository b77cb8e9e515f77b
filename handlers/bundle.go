// File: handlers/bundle.go
package handlers

import (
	"glsalliance/services/auth"
	"glsalliance/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	AuthSvc auth.SessionService
	Signer  *utils.SessionSigner

	// Auth endpoints
	LoginHandler          gin.HandlerFunc
	LogoutHandler         gin.HandlerFunc
	SessionHandler        gin.HandlerFunc
	RequestOTPHandler     gin.HandlerFunc
	VerifyOTPHandler      gin.HandlerFunc
	ChangePasswordHandler gin.HandlerFunc

	// Registration wizard endpoints
	StartRegistrationHandler   gin.HandlerFunc
	GetRegistrationHandler     gin.HandlerFunc
	AbandonRegistrationHandler gin.HandlerFunc
	PatchRegistrationHandler   gin.HandlerFunc
	AddContactHandler          gin.HandlerFunc
	RemoveContactHandler       gin.HandlerFunc
	AddAffiliationHandler      gin.HandlerFunc
	RemoveAffiliationHandler   gin.HandlerFunc
	NextStepHandler            gin.HandlerFunc
	BackStepHandler            gin.HandlerFunc
	JumpStepHandler            gin.HandlerFunc
	UploadHandler              gin.HandlerFunc
	RemoveUploadHandler        gin.HandlerFunc
	PreviewUploadHandler       gin.HandlerFunc
	ReviewHandler              gin.HandlerFunc
	SubmitRegistrationHandler  gin.HandlerFunc
	CatalogHandler             gin.HandlerFunc

	// Directory endpoints
	DirectoryQueryHandler   gin.HandlerFunc
	DirectorySessionHandler gin.HandlerFunc
	DirectoryChangeHandler  gin.HandlerFunc
	DirectoryNextHandler    gin.HandlerFunc
	DirectoryPrevHandler    gin.HandlerFunc
	DirectoryResetHandler   gin.HandlerFunc
	CategoriesHandler       gin.HandlerFunc
	MemberHandler           gin.HandlerFunc

	// Member area endpoints
	MeHandler        gin.HandlerFunc
	ProfileHandler   gin.HandlerFunc
	DashboardHandler gin.HandlerFunc

	// Payment endpoints
	PaymentHandler       gin.HandlerFunc
	CardIntentHandler    gin.HandlerFunc
	PaymentConfigHandler gin.HandlerFunc

	// Content endpoints
	ConferencesHandler    gin.HandlerFunc
	ConferenceHandler     gin.HandlerFunc
	ContactDetailsHandler gin.HandlerFunc
	HomeHeroesHandler     gin.HandlerFunc
	TestimonialsHandler   gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}
