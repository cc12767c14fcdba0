package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/factuurdesk/factuur-api/docs" // Swagger docs
	"github.com/factuurdesk/factuur-api/internal/config"
	"github.com/factuurdesk/factuur-api/internal/database"
	"github.com/factuurdesk/factuur-api/internal/handlers"
	"github.com/factuurdesk/factuur-api/internal/jobs"
	"github.com/factuurdesk/factuur-api/internal/middleware"
	"github.com/factuurdesk/factuur-api/internal/repository"
	"github.com/factuurdesk/factuur-api/internal/services"
	"github.com/factuurdesk/factuur-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Factuur API
// @version 1.0
// @description REST API for the Factuurdesk freelancer invoicing and financial metrics platform

// @contact.name API Support
// @contact.email support@factuurdesk.nl

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn: cfg.SentryDSN,
			// Set TracesSampleRate to 1.0 to capture 100% of transactions for performance monitoring.
			// Set to a lower value (e.g. 0.2) in production if needed.
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, cfg)

	// Schedule recurring jobs (overdue sweep, cache cleanup)
	svcs.StartScheduledJobs(worker)
	logger.Info("Scheduled recurring jobs")

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Redirect root to swagger
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})

		// Swagger documentation
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/register", h.Auth.Register)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Dashboard metrics and statistics
			protected.GET("/invoices/dashboard-metrics", h.Metrics.DashboardMetrics)
			protected.GET("/invoices/stats", h.Metrics.InvoiceStats)
			protected.GET("/time-entries/stats", h.Metrics.TimeStats)
			protected.GET("/dashboard/health-score", h.Metrics.HealthScore)
			protected.GET("/metrics/export", h.Metrics.Export)

			// Invoice lifecycle
			invoices := protected.Group("/invoices")
			{
				invoices.GET("", h.Invoice.Index)
				invoices.POST("", h.Invoice.Create)
				invoices.GET("/:invoice_id", h.Invoice.Show)
				invoices.POST("/:invoice_id/send", h.Invoice.Send)
				invoices.POST("/:invoice_id/cancel", h.Invoice.Cancel)
				invoices.POST("/:invoice_id/payments", h.Invoice.RecordPayment)
			}

			// Tax reports
			protected.GET("/reports/vat", h.Tax.QuarterlyVAT)
		}
	}

	return router
}
