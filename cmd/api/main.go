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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mitrahse/vendorhr-api/docs" // Swagger docs
	"github.com/mitrahse/vendorhr-api/internal/config"
	"github.com/mitrahse/vendorhr-api/internal/database"
	"github.com/mitrahse/vendorhr-api/internal/handlers"
	"github.com/mitrahse/vendorhr-api/internal/jobs"
	"github.com/mitrahse/vendorhr-api/internal/middleware"
	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/mitrahse/vendorhr-api/internal/repository"
	"github.com/mitrahse/vendorhr-api/internal/services"
	"github.com/mitrahse/vendorhr-api/internal/storage"
	"github.com/mitrahse/vendorhr-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title VendorHR API
// @version 1.0
// @description Contract, HSE and document records of vendor-company employees
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@vendorhr.id

// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment, cfg.LogLevel)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.ResendAPIKey == "" || len(cfg.ReminderRecipients) == 0 {
		logger.Warn("Reminder email disabled: RESEND_API_KEY or REMINDER_RECIPIENTS not set")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.Environment)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	store, err := openStorage(cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized file storage", "driver", store.Driver())

	repos := repository.NewRepositories(db)

	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	svcs := services.NewServices(repos, worker, store, cfg)

	if err := scheduleJobs(worker, svcs, cfg); err != nil {
		logger.Error("Failed to schedule jobs", "error", err)
		os.Exit(1)
	}

	h := handlers.NewHandlers(svcs)
	router := setupRouter(h, svcs, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "tenants", cfg.Tenants)
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func openStorage(cfg *config.Config) (storage.FileStore, error) {
	if cfg.StorageDriver == config.StorageDrive {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return storage.NewDriveStorage(ctx, cfg.DriveCredentialsFile, cfg.DriveFolders)
	}
	return storage.NewLocalStorage(cfg.StoragePath)
}

func setupRouter(h *handlers.Handlers, svcs *services.Services, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	secrets := middleware.Secrets{Admin: cfg.JWTSecret, User: cfg.UserJWTSecret}
	adminAuth := middleware.AdminAuth(cfg.JWTSecret)

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", h.Health.Index)

	api := router.Group("/api")
	{
		// Admin realm
		account := api.Group("/account")
		{
			account.POST("/login", h.Auth.Login)
			account.POST("/refresh", h.Auth.Refresh)
			account.POST("/logout", h.Auth.Logout)
			account.GET("/verify", adminAuth, h.Auth.Verify)
			account.GET("/users", adminAuth, h.Account.IndexAccounts)
			account.POST("/users", adminAuth, middleware.RequireRole(models.RoleSuperAdmin), h.Account.CreateAccount)
		}

		// Company-user realm
		accountUser := api.Group("/accountuser")
		{
			accountUser.POST("/login", h.Auth.LoginUser)
			accountUser.POST("/logout", h.Auth.LogoutUser)
			accountUser.GET("/verify", middleware.UserAuth(cfg.UserJWTSecret), h.Auth.VerifyUser)

			users := accountUser.Group("/users", adminAuth)
			{
				users.GET("", h.Account.IndexUsers)
				users.POST("", h.Account.CreateUser)
				users.GET("/:id", h.Account.ShowUser)
				users.PUT("/:id", h.Account.UpdateUser)
				users.DELETE("/:id", h.Account.DeleteUser)
			}
		}

		// Admin-only operations
		api.GET("/jobs/status", adminAuth, h.Job.Status)
		api.POST("/jobs/reminder/run", adminAuth, h.Job.RunReminder)
		api.GET("/audits", adminAuth, h.Audit.Index)
		api.GET("/files/:category", adminAuth, h.Attachment.StoredFiles)

		// Tenant routes: admins everywhere, company users on their own
		// tenant and permitted pages only
		tenant := api.Group("/:tenant",
			middleware.AnyAuth(secrets),
			middleware.TenantAccess(cfg.HasTenant),
			middleware.PageGuard(svcs.Auth.Verifier),
		)
		{
			tenant.GET("/users", h.Employee.Index)
			tenant.POST("/users", h.Employee.Create)
			tenant.GET("/users/export", h.Report.ExportEmployees)
			tenant.GET("/users/:id", h.Employee.Show)
			tenant.PUT("/users/:id", h.Employee.Update)
			tenant.DELETE("/users/:id", h.Employee.Delete)
			tenant.POST("/users/:id/deactivate", h.Employee.Deactivate)
			tenant.POST("/users/:id/reactivate", h.Employee.Reactivate)
			tenant.GET("/users/:id/history", h.Employee.History)

			tenant.GET("/users/:id/hse", h.Employee.ShowHSE)
			tenant.PUT("/users/:id/hse", h.Employee.UpdateHSE)
			tenant.GET("/users/:id/hse/pdf", h.Report.HSESheet)

			tenant.POST("/users/:id/files", h.Attachment.Upload)
			tenant.GET("/users/:id/files", h.Attachment.Index)
			tenant.GET("/users/:id/files/:file_id/download", h.Attachment.Download)
			tenant.DELETE("/users/:id/files/:file_id", h.Attachment.Delete)

			tenant.GET("/na", h.Employee.NonActive)
			tenant.GET("/contracts/summary", h.Employee.ContractSummary)
			tenant.GET("/hse/expiring", h.Employee.ExpiringHSE)

			tenant.POST("/upload-bulk", h.Import.Upload)
			tenant.GET("/upload-bulk/template", h.Import.Template)
		}
	}

	// Landing-page content
	dashboard := router.Group("/dashboard/api/data")
	{
		dashboard.GET("", h.Dashboard.Index)
		dashboard.GET("/:id/image", h.Dashboard.Image)
		dashboard.GET("/all", adminAuth, h.Dashboard.All)
		dashboard.POST("", adminAuth, h.Dashboard.Create)
		dashboard.PUT("/:id", adminAuth, h.Dashboard.Update)
		dashboard.DELETE("/:id", adminAuth, h.Dashboard.Delete)
		dashboard.POST("/:id/image", adminAuth, h.Dashboard.UploadImage)
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) error {
	if err := worker.ScheduleCron(services.ReminderJobName, cfg.ReminderCron, svcs.Job.ReminderJob); err != nil {
		return err
	}

	worker.ScheduleEvery("refresh-token-cleanup", 6*time.Hour, svcs.Auth.CleanupExpiredTokens)

	// fill the bucket gauges now instead of waiting for the first tick
	worker.Enqueue(services.ContractGaugesJobName, svcs.Reminder.RefreshGauges)
	worker.ScheduleEvery(services.ContractGaugesJobName, time.Hour, svcs.Reminder.RefreshGauges)

	logger.Info("Scheduled recurring jobs", "reminder_cron", cfg.ReminderCron)
	return nil
}
