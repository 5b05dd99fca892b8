package main

import (
	"context"
	"net/http"

	"github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/propserve/brokerage-api/internal/app"
	"github.com/propserve/brokerage-api/internal/cache"
	"github.com/propserve/brokerage-api/internal/config"
	"github.com/propserve/brokerage-api/internal/controllers"
	"github.com/propserve/brokerage-api/internal/middleware"
	"github.com/propserve/brokerage-api/internal/repositories"
	"github.com/propserve/brokerage-api/internal/routes"
	"github.com/propserve/brokerage-api/internal/services"
	"github.com/propserve/brokerage-api/internal/utils"
)

func main() {
	cfg := config.Load()
	utils.InitLogger(cfg.AppName)

	ctx := context.Background()
	application, err := app.New(ctx, cfg)
	if err != nil {
		utils.Logger.Fatalf("Failed to start: %v", err)
	}
	defer application.Close()

	adminRepo := repositories.NewAdminRepository(application.DB)
	agentRepo := repositories.NewAgentRepository(application.DB)
	vendorRepo := repositories.NewVendorRepository(application.DB)
	serviceRepo := repositories.NewServiceRepository(application.DB)
	propertyRepo := repositories.NewPropertyRepository(application.DB)
	assignmentRepo := repositories.NewAssignmentRepository(application.DB)

	otpStore := cache.NewMemory()

	mailer := services.NewSendgridMailer(cfg.SendgridAPIKey, cfg.SendgridFromEmail, cfg.AppName)
	authSvc := services.NewAuthService(adminRepo, agentRepo, vendorRepo,
		cfg.JWTSecret, cfg.TokenExpiry, services.NewGoogleVerifier(cfg.GoogleClientID))
	otpSvc := services.NewOTPService(vendorRepo, otpStore, mailer, authSvc, cfg.OTPExpiry)
	assignmentSvc := services.NewAssignmentService(vendorRepo, serviceRepo, assignmentRepo, mailer)
	identitySvc := services.NewIdentityService(adminRepo, agentRepo, vendorRepo, serviceRepo, mailer)
	catalogSvc := services.NewCatalogService(serviceRepo)
	propertySvc := services.NewPropertyService(propertyRepo, assignmentRepo, vendorRepo, serviceRepo, assignmentSvc)
	statsSvc := services.NewStatsService(assignmentRepo, propertyRepo, vendorRepo, agentRepo, serviceRepo)

	authn := middleware.NewAuthenticator(authSvc)
	healthCtrl := controllers.NewHealthController(application.HealthCheck)
	authCtrl := controllers.NewAuthController(authSvc)
	adminCtrl := controllers.NewAdminController(identitySvc, catalogSvc, propertySvc, statsSvc)
	agentCtrl := controllers.NewAgentController(catalogSvc, identitySvc, propertySvc)
	vendorCtrl := controllers.NewVendorController(otpSvc, propertySvc)

	router := routes.NewRouter(authn, healthCtrl, authCtrl, adminCtrl, agentCtrl, vendorCtrl)

	// Hourly sweep of expired login codes; reads already reject expired
	// entries, this just reclaims memory.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", otpStore.DeleteExpired); err != nil {
		utils.Logger.Fatalf("Failed to schedule cache cleanup: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	addr := ":" + cfg.AppPort
	utils.Logger.Infof("Listening on %s", addr)
	if err := http.ListenAndServe(addr, corsHandler.Handler(router)); err != nil {
		utils.Logger.Fatalf("Server stopped: %v", err)
	}
}
