package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vaccine-reminder-backend/config"
	deliveryHttp "vaccine-reminder-backend/internal/delivery/http"
	"vaccine-reminder-backend/internal/delivery/http/handler"
	"vaccine-reminder-backend/internal/delivery/http/middleware"
	"vaccine-reminder-backend/internal/infrastructure/cache"
	"vaccine-reminder-backend/internal/infrastructure/database"
	"vaccine-reminder-backend/internal/infrastructure/messaging"
	"vaccine-reminder-backend/internal/repository"
	"vaccine-reminder-backend/internal/service"
	"vaccine-reminder-backend/internal/usecase"
	"vaccine-reminder-backend/pkg/validator"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Scheduler   *service.ReminderScheduler
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Run migrations before opening the gorm pool
	if err := database.RunMigrations(cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logrus.Info("Migrations applied")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis. The sweep lock degrades to unguarded sweeps when
	// Redis is down, so this is non-fatal.
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		logrus.Warnf("Redis unavailable, sweeps run without overlap guard: %+v", err)
		redisClient = nil
	} else {
		logrus.Info("Redis connected successfully")
	}
	app.RedisClient = redisClient

	// Initialize all layers
	server, scheduler, err := initializeServer(cfg, db, redisClient)
	if err != nil {
		return nil, err
	}
	app.Server = server
	app.Scheduler = scheduler

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer wires repositories, services, usecases and the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, *service.ReminderScheduler, error) {
	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize outbound gateways
	whatsAppClient := messaging.NewWhatsAppClient(cfg.WhatsApp, log)
	fcmClient, err := messaging.NewFCMClient(context.Background(), cfg.Firebase, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize FCM: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	patientRepo := repository.NewPatientRepository()
	clinicDoctorRepo := repository.NewClinicDoctorRepository()
	scheduleRepo := repository.NewVaccineScheduleRepository()
	vaccineRepo := repository.NewPatientVaccineRepository()
	reminderLogRepo := repository.NewReminderLogRepository()
	notificationLogRepo := repository.NewNotificationLogRepository()
	billingRepo := repository.NewBillingRepository()

	// Initialize services
	billingService := service.NewBillingService(db, log, userRepo, reminderLogRepo, billingRepo, patientRepo)
	dispatcher := service.NewNotificationDispatcher(db, log, vaccineRepo, notificationLogRepo, reminderLogRepo, fcmClient, billingService, cfg.Scheduler.SendTimeout)

	var locker *redislock.Client
	if redisClient != nil {
		locker = redislock.New(redisClient)
	}
	scheduler := service.NewReminderScheduler(db, log, vaccineRepo, reminderLogRepo, whatsAppClient, dispatcher, billingService, locker, cfg.Scheduler)

	// Initialize usecases
	resolverUsecase := usecase.NewScheduleResolverUsecase(db, log, userRepo, patientRepo, scheduleRepo, vaccineRepo, clinicDoctorRepo, whatsAppClient, billingService)
	vaccineUsecase := usecase.NewPatientVaccineUsecase(db, log, patientRepo, vaccineRepo, scheduleRepo)

	// Initialize handlers
	patientHandler := handler.NewPatientHandler(resolverUsecase, vaccineUsecase, customValidator)
	vaccineHandler := handler.NewVaccineHandler(vaccineUsecase, customValidator)
	jobsHandler := handler.NewJobsHandler(scheduler, billingService)

	// Initialize middleware
	adminKeyMiddleware := middleware.NewAdminKeyMiddleware(cfg.Admin.APIKey)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(patientHandler, vaccineHandler, jobsHandler, adminKeyMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
	return server, scheduler, nil
}

// Run starts the scheduler and HTTP server and handles graceful shutdown
func (app *App) Run() {
	app.Scheduler.Start()

	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Stop the sweep loop before closing connections
	app.Scheduler.Stop()

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
