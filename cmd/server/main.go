package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"clinicsales/internal/adapters/http/middleware"
	"clinicsales/internal/adapters/http/routes"
	"clinicsales/internal/adapters/persistence/models"
	"clinicsales/internal/adapters/persistence/repositories"
	"clinicsales/internal/config"
	"clinicsales/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "clinicsales/docs" // Swagger docs
)

// @title ClinicSales API
// @version 1.0
// @description Sales proposal lifecycle API for medical clinic sales teams
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@clinicsales.app

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.clinicsales.app
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed master data (regions, clinics)
	if err := config.SeedMasterData(db); err != nil {
		log.Printf("⚠️ Warning: Failed to seed master data: %v", err)
	}

	// Seed initial admin
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to run seeders: %v", err)
	}

	// Proposal lifecycle engine + nightly expiry sweep
	proposalRepo := repositories.NewProposalRepository(db)
	clinicRepo := repositories.NewClinicRepository(db)
	proposalService := services.NewProposalService(proposalRepo, clinicRepo, cfg.Expiry.RetentionDays)

	expiryService := services.NewExpiryService(proposalService, cfg.Expiry.CronSpec)
	if err := expiryService.Start(); err != nil {
		log.Fatalf("❌ Failed to start expiry service: %v", err)
	}
	defer expiryService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "ClinicSales API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg, proposalService, expiryService)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
