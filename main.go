// File: glsalliance/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"glsalliance/config"
	"glsalliance/cron"
	"glsalliance/handlers"
	"glsalliance/middleware"
	"glsalliance/routes"
	"glsalliance/services/auth"
	"glsalliance/services/backend"
	"glsalliance/services/content"
	"glsalliance/services/directory"
	"glsalliance/services/payment"
	"glsalliance/services/registration"
	"glsalliance/services/storage"
	"glsalliance/services/tasks"
	"glsalliance/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

const previewRoute = "/api/registration/uploads/"

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	utils.InitRedis()
	defer utils.CloseRedis()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create the Gin router.
	router := gin.New()
	router.MaxMultipartMemory = 16 << 20
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	// Alliance REST backend.
	client := backend.NewClient(config.AppConfig.BackendBaseURL, config.AppConfig.BackendTimeout, logger.Named("backend"))

	uploads := newUploadStore(logger)

	// Cards are offered only when Stripe is configured.
	var cards payment.CardGateway
	if config.AppConfig.StripeKey != "" {
		stripe.Key = config.AppConfig.StripeKey
		cards = payment.NewStripeGateway()
	} else {
		logger.Info("main: STRIPE_KEY not set, card payments disabled")
	}

	// services.
	authService := auth.NewService(client, utils.GetAuthCacheClient(), logger.Named("auth"))
	registrationService := registration.NewService(utils.GetSessionClient(), uploads, client, logger.Named("registration"))
	queue := asynq.NewClient(cron.QueueRedisOpt())
	defer queue.Close()
	registrationService.SetCleanup(tasks.NewUploadScheduler(queue))
	directoryService := directory.NewService(client, utils.GetCacheClient(),
		config.AppConfig.DirectoryPerPage, config.AppConfig.DirectoryDebounce, logger.Named("directory"))
	registry := directory.NewRegistry(directoryService, directory.EngineIdleTTL)
	paymentService := payment.NewService(client, cards, utils.GetAuthCacheClient(), config.AppConfig.PaymentCurrency,
		config.AppConfig.PaymentSlipField, logger.Named("payment"))
	contentService := content.NewService(client, utils.GetCacheClient(), logger.Named("content"))

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	cron.StartWorkers(workerCtx, registry,
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient(), utils.GetSessionClient()},
		config.AppConfig.BackendBaseURL)
	cron.StartUploadWorker(workerCtx, registrationService)

	authHandler := handlers.NewAuthHandler(authService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	directoryHandler := handlers.NewDirectoryHandler(directoryService, registry)
	memberHandler := handlers.NewMemberAreaHandler(client)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	contentHandler := handlers.NewContentHandler(contentService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		AuthSvc: authService,
		Signer:  utils.NewSessionSigner(config.AppConfig.SessionSecret),

		// Auth endpoints.
		LoginHandler:          authHandler.LoginHandler,
		LogoutHandler:         authHandler.LogoutHandler,
		SessionHandler:        authHandler.SessionHandler,
		RequestOTPHandler:     authHandler.RequestOTPHandler,
		VerifyOTPHandler:      authHandler.VerifyOTPHandler,
		ChangePasswordHandler: authHandler.ChangePasswordHandler,

		// Registration wizard endpoints.
		StartRegistrationHandler:   registrationHandler.StartHandler,
		GetRegistrationHandler:     registrationHandler.GetHandler,
		AbandonRegistrationHandler: registrationHandler.AbandonHandler,
		PatchRegistrationHandler:   registrationHandler.PatchHandler,
		AddContactHandler:          registrationHandler.AddContactHandler,
		RemoveContactHandler:       registrationHandler.RemoveContactHandler,
		AddAffiliationHandler:      registrationHandler.AddAffiliationHandler,
		RemoveAffiliationHandler:   registrationHandler.RemoveAffiliationHandler,
		NextStepHandler:            registrationHandler.NextHandler,
		BackStepHandler:            registrationHandler.BackHandler,
		JumpStepHandler:            registrationHandler.JumpHandler,
		UploadHandler:              registrationHandler.UploadHandler,
		RemoveUploadHandler:        registrationHandler.RemoveUploadHandler,
		PreviewUploadHandler:       registrationHandler.PreviewHandler,
		ReviewHandler:              registrationHandler.ReviewHandler,
		SubmitRegistrationHandler:  registrationHandler.SubmitHandler,
		CatalogHandler:             registrationHandler.CatalogHandler,

		// Directory endpoints.
		DirectoryQueryHandler:   directoryHandler.QueryHandler,
		DirectorySessionHandler: directoryHandler.SessionHandler,
		DirectoryChangeHandler:  directoryHandler.ChangeHandler,
		DirectoryNextHandler:    directoryHandler.NextHandler,
		DirectoryPrevHandler:    directoryHandler.PrevHandler,
		DirectoryResetHandler:   directoryHandler.ResetHandler,
		CategoriesHandler:       directoryHandler.CategoriesHandler,
		MemberHandler:           directoryHandler.MemberHandler,

		// Member area endpoints.
		MeHandler:        memberHandler.MeHandler,
		ProfileHandler:   memberHandler.ProfileHandler,
		DashboardHandler: memberHandler.DashboardHandler,

		// Payment endpoints.
		PaymentHandler:       paymentHandler.SubmitHandler,
		CardIntentHandler:    paymentHandler.CardIntentHandler,
		PaymentConfigHandler: paymentHandler.ConfigHandler,

		// Content endpoints.
		ConferencesHandler:    contentHandler.ConferencesHandler,
		ConferenceHandler:     contentHandler.ConferenceHandler,
		ContactDetailsHandler: contentHandler.ContactDetailsHandler,
		HomeHeroesHandler:     contentHandler.HomeHeroesHandler,
		TestimonialsHandler:   contentHandler.TestimonialsHandler,

		HealthHandler: handlers.HealthHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	stopWorkers()

	logger.Sugar().Info("main: server stopped gracefully")
}

// newUploadStore picks where pending registration files are kept.
func newUploadStore(logger *zap.Logger) storage.UploadStore {
	if strings.EqualFold(config.AppConfig.UploadStore, "cloudinary") {
		cld, err := utils.Cloudinary()
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
		}
		return storage.NewCloudinaryStore(cld, config.AppConfig.CloudinaryFolder,
			utils.GetSessionClient(), registration.SessionTTL, logger.Named("uploads"))
	}
	return storage.NewRedisStore(utils.GetSessionClient(), registration.SessionTTL, previewRoute)
}
