package main

import (
	"claim_flow_app_go/config"
	"claim_flow_app_go/db"
	"claim_flow_app_go/handlers"
	"claim_flow_app_go/middleware"
	"claim_flow_app_go/models"
	"claim_flow_app_go/services"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.SequenceCounter{},
		&models.ClaimRequest{},
		&models.Assessment{},
		&models.Appointment{},
		&models.TyreRecord{},
		&models.DamageRecord{},
		&models.ValuationRecord{},
		&models.PreIncidentEstimate{},
		&models.Estimate{},
		&models.Inspection{},
		&models.InspectionPhoto{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize photo storage (R2 with local fallback)
	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes (no authentication required)
	e.POST("/api/login", handlers.LoginHandler)
	e.POST("/api/claim-requests", handlers.SubmitClaimRequestHandler)

	// Protected routes
	protected := e.Group("/api")
	protected.Use(middleware.RequireAuth())
	{
		protected.POST("/logout", handlers.LogoutHandler)
		protected.GET("/me", handlers.MeHandler)

		// Assessments (scoping enforced in the service layer)
		protected.GET("/assessments/:id", handlers.GetAssessmentHandler)
		protected.POST("/assessments/:id/start", handlers.StartAssessmentHandler)
		protected.POST("/assessments/:id/advance", handlers.AdvanceStageHandler)
		protected.POST("/assessments/:id/cancel", handlers.CancelAssessmentHandler)
		protected.GET("/assessments/:id/records", handlers.GetAssessmentRecordsHandler)
		protected.GET("/assessments/:id/audit", handlers.GetAssessmentAuditHandler)

		// Inspections
		protected.POST("/assessments/:id/inspection", handlers.StartInspectionHandler)
		protected.POST("/inspections/:id/photos", handlers.UploadInspectionPhotoHandler)
		protected.POST("/inspections/:id/complete", handlers.CompleteInspectionHandler)

		// Appointments
		protected.GET("/appointments", handlers.MyAppointmentsHandler)
		protected.GET("/appointments/:id", handlers.GetAppointmentHandler)
		protected.POST("/appointments/:id/cancel", handlers.CancelAppointmentHandler)

		// Admin-only routes
		adminRoutes := protected.Group("")
		adminRoutes.Use(middleware.RequireRole("admin"))
		{
			adminRoutes.GET("/claim-requests", handlers.ListClaimRequestsHandler)
			adminRoutes.GET("/claim-requests/:id", handlers.GetClaimRequestHandler)
			adminRoutes.POST("/claim-requests/:id/accept", handlers.AcceptClaimRequestHandler)
			adminRoutes.POST("/claim-requests/:id/reject", handlers.RejectClaimRequestHandler)
			adminRoutes.GET("/claim-requests/:id/assessment", handlers.FindAssessmentByRequestHandler)
			adminRoutes.POST("/appointments", handlers.ScheduleAppointmentHandler)
			adminRoutes.GET("/audit-logs", handlers.ListAuditLogsHandler)
		}
	}

	// Start background cleanup jobs (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			// Clean up expired sessions
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
