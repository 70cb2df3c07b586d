package routes

import (
	"clinicsales/internal/adapters/http/handlers"
	"clinicsales/internal/adapters/http/middleware"
	"clinicsales/internal/adapters/persistence/repositories"
	"clinicsales/internal/config"
	"clinicsales/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application. The expiry service is
// constructed in main so its cron lifecycle outlives the route setup.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, proposalService *services.ProposalService, expiryService *services.ExpiryService) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	regionRepo := repositories.NewRegionRepository(db)
	clinicRepo := repositories.NewClinicRepository(db)
	proposalRepo := repositories.NewProposalRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo, regionRepo)
	reportService := services.NewReportService(proposalRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	proposalHandler := handlers.NewProposalHandler(proposalService, expiryService)
	masterHandler := handlers.NewMasterHandler(regionRepo, clinicRepo)
	dashboardHandler := handlers.NewDashboardHandler(reportService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, userHandler, proposalHandler,
		masterHandler, dashboardHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	proposalHandler *handlers.ProposalHandler,
	masterHandler *handlers.MasterHandler,
	dashboardHandler *handlers.DashboardHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// User management routes (Admin only)
	userRoutes := router.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.AdminOnly())
	setupUserRoutes(userRoutes, userHandler)

	// Profile routes (Authenticated users)
	profileRoutes := router.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProfileRoutes(profileRoutes, userHandler)

	// Proposal routes (Authenticated users; visibility is enforced in the engine)
	proposalRoutes := router.Group("/proposals")
	proposalRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProposalRoutes(proposalRoutes, proposalHandler)

	// Master data routes
	masterRoutes := router.Group("/master")
	masterRoutes.Use(middleware.AuthMiddleware(cfg))
	setupMasterRoutes(masterRoutes, masterHandler)

	// Dashboard routes
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	setupDashboardRoutes(dashboardRoutes, dashboardHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user management routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Delete("/:id", handler.DeleteUser)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Post("/change-password", handler.ChangePassword)
}

// setupProposalRoutes configures proposal lifecycle routes
func setupProposalRoutes(router fiber.Router, handler *handlers.ProposalHandler) {
	// All authenticated roles; the engine scopes reads and gates writes
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Put("/:id", handler.Update)
	router.Post("/:id/transition", handler.Transition)

	// Decision shortcuts (role gate here is the coarse filter; the region
	// check for regional managers happens in the transition authority)
	approverRoutes := router.Group("")
	approverRoutes.Use(middleware.ApproverOnly())
	approverRoutes.Post("/:id/approve", handler.Approve)
	approverRoutes.Post("/:id/reject", handler.Reject)

	// Admin only
	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.Delete("/:id", handler.Delete)
	adminRoutes.Post("/expiry-sweep", handler.RunExpirySweep)
}

// setupMasterRoutes configures directory master data routes
func setupMasterRoutes(router fiber.Router, handler *handlers.MasterHandler) {
	// Reads (all authenticated users, cacheable)
	router.Get("/regions", middleware.MasterDataCache(), handler.ListRegions)
	router.Get("/clinics", middleware.MasterDataCache(), handler.ListClinics)
	router.Get("/clinics/:id", handler.GetClinic)

	// Writes (Admin only)
	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.Post("/regions", handler.CreateRegion)
	adminRoutes.Put("/regions/:id", handler.UpdateRegion)
	adminRoutes.Delete("/regions/:id", handler.DeleteRegion)
	adminRoutes.Post("/clinics", handler.CreateClinic)
	adminRoutes.Put("/clinics/:id", handler.UpdateClinic)
	adminRoutes.Delete("/clinics/:id", handler.DeleteClinic)
}

// setupDashboardRoutes configures dashboard routes
func setupDashboardRoutes(router fiber.Router, handler *handlers.DashboardHandler) {
	router.Get("/summary", middleware.NoCacheHeaders(), handler.GetSummary)
}
