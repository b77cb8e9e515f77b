package routes

import (
	"time"

	"glsalliance/config"
	"glsalliance/handlers"
	"glsalliance/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultOrigin = "http://localhost:5173"

// RegisterAuthRoutes registers sign-in and password reset endpoints.
func RegisterAuthRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", hb.LoginHandler)
		authGroup.POST("/logout", hb.LogoutHandler)
		authGroup.GET("/session", hb.SessionHandler)
		authGroup.POST("/password/request-otp", hb.RequestOTPHandler)
		authGroup.POST("/password/verify-otp", hb.VerifyOTPHandler)
		authGroup.POST("/password/change", hb.ChangePasswordHandler)
	}
}

// RegisterRegistrationRoutes registers the membership wizard.
func RegisterRegistrationRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	reg := api.Group("/registration")
	{
		reg.POST("", hb.StartRegistrationHandler)
		reg.GET("", hb.GetRegistrationHandler)
		reg.DELETE("", hb.AbandonRegistrationHandler)
		reg.GET("/catalog", hb.CatalogHandler)
		reg.GET("/review", hb.ReviewHandler)
		reg.POST("/submit", hb.SubmitRegistrationHandler)

		reg.POST("/next", hb.NextStepHandler)
		reg.POST("/back", hb.BackStepHandler)
		reg.POST("/jump/:index", hb.JumpStepHandler)

		reg.POST("/contacts", hb.AddContactHandler)
		reg.DELETE("/contacts/:index", hb.RemoveContactHandler)
		reg.POST("/affiliations", hb.AddAffiliationHandler)
		reg.DELETE("/affiliations/:index", hb.RemoveAffiliationHandler)

		reg.POST("/uploads/:field", hb.UploadHandler)
		reg.DELETE("/uploads/:field", hb.RemoveUploadHandler)
		reg.GET("/uploads/:id", hb.PreviewUploadHandler)

		reg.PATCH("/:step", hb.PatchRegistrationHandler)
	}
}

// RegisterDirectoryRoutes registers the public member directories.
func RegisterDirectoryRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	dir := api.Group("/directory/:kind")
	{
		dir.GET("", hb.DirectoryQueryHandler)
		dir.GET("/session", hb.DirectorySessionHandler)
		dir.PATCH("/session", hb.DirectoryChangeHandler)
		dir.POST("/session/next", hb.DirectoryNextHandler)
		dir.POST("/session/prev", hb.DirectoryPrevHandler)
		dir.POST("/session/reset", hb.DirectoryResetHandler)
	}
	api.GET("/categories", hb.CategoriesHandler)
	api.GET("/members/:id", hb.MemberHandler)
}

// RegisterMemberRoutes registers the pages behind login.
func RegisterMemberRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	protected := api.Group("")
	protected.Use(middleware.RequireActive())
	{
		protected.GET("/me", hb.MeHandler)
		protected.GET("/me/profile", hb.ProfileHandler)
		protected.GET("/dashboard", hb.DashboardHandler)
		protected.GET("/payment/config", hb.PaymentConfigHandler)
		protected.POST("/payment", hb.PaymentHandler)
		protected.POST("/payment/card-intent", hb.CardIntentHandler)
	}
}

// RegisterContentRoutes registers the public site data.
func RegisterContentRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	content := api.Group("/content")
	{
		content.GET("/conferences", hb.ConferencesHandler)
		content.GET("/conferences/:slug", hb.ConferenceHandler)
		content.GET("/contact-details", hb.ContactDetailsHandler)
		content.GET("/home-heroes", hb.HomeHeroesHandler)
		content.GET("/testimonials", hb.TestimonialsHandler)
	}
}

// RegisterHealthRoute registers the health check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// The browser sends the session cookie cross-origin, so origins are listed.
	origins := config.AppConfig.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{defaultOrigin}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Accept", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)

	api := r.Group("/api")
	api.Use(
		middleware.SessionMiddleware(hb.Signer, config.AppConfig.SessionTTL, config.AppConfig.SecureCookies),
		middleware.LoadAuth(hb.AuthSvc),
	)
	RegisterAuthRoutes(api, hb)
	RegisterRegistrationRoutes(api, hb)
	RegisterDirectoryRoutes(api, hb)
	RegisterMemberRoutes(api, hb)
	RegisterContentRoutes(api, hb)
}
