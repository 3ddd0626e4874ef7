// File: phms/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phms/config"
	"phms/cron"
	"phms/database"
	appointmentRepoPkg "phms/database/repository/appointment"
	medicationRepoPkg "phms/database/repository/medication"
	userRepoPkg "phms/database/repository/user"
	"phms/handlers"
	"phms/middleware"
	"phms/routes"
	appointmentSvc "phms/services/appointment"
	medicationSvc "phms/services/medication"
	"phms/services/notification"
	"phms/services/reminder"
	"phms/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitStateStore()
	utils.FirebaseInit()

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetStateClient()},
		database.MongoClient,
	)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	routes.SetupCORS(router)

	// repositories.
	apptRepo := appointmentRepoPkg.NewMongoAppointmentRepo()
	medRepo := medicationRepoPkg.NewMongoMedicationRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	// reminder scheduling pipeline.
	queueClient := cron.NewQueueClient()
	defer queueClient.Close()
	queueInspector := cron.NewQueueInspector()

	registrar := reminder.NewAsynqRegistrar(queueClient, queueInspector, logger)
	reminderService := reminder.NewService(registrar, logger)

	notificationService, err := notification.NewDefaultNotificationService(userRepo)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	fetchTimeout := time.Duration(config.AppConfig.ReminderFetchTimeoutSec) * time.Second
	reminderHandler := reminder.NewHandler(
		apptRepo,
		medRepo,
		notificationService,
		registrar,
		fetchTimeout,
		logger,
	)

	lastUserStore := utils.NewLastUserStore(utils.GetStateClient())
	bootstrap := &reminder.Bootstrap{
		LastUser:     lastUserStore,
		Appointments: apptRepo,
		Medications:  medRepo,
		Reminders:    reminderService,
		Logger:       logger,
	}

	// Start the reminder worker (task processing, boot recovery, sweeps).
	cron.InitReminderWorker(reminderHandler, bootstrap)

	// services.
	apptService := &appointmentSvc.DefaultAppointmentService{
		Repo:      apptRepo,
		Reminders: reminderService,
	}
	medService := &medicationSvc.DefaultMedicationService{
		Repo:      medRepo,
		Reminders: reminderService,
	}

	// handlers.
	apptHandler := handlers.NewAppointmentHandler(apptService)
	medHandler := handlers.NewMedicationHandler(medService)
	sessionHandler := handlers.NewSessionHandler(lastUserStore, userRepo)

	handlerBundle := &handlers.HandlerBundle{
		// Appointment endpoints.
		CreateAppointmentHandler:       apptHandler.CreateAppointmentHandler,
		UpdateAppointmentHandler:       apptHandler.UpdateAppointmentHandler,
		DeleteAppointmentHandler:       apptHandler.DeleteAppointmentHandler,
		GetAppointmentByIDHandler:      apptHandler.GetAppointmentByIDHandler,
		GetAppointmentsByUserHandler:   apptHandler.GetAppointmentsByUserHandler,
		SetAppointmentRemindersHandler: apptHandler.SetAppointmentRemindersHandler,

		// Medication endpoints.
		CreateMedicationHandler:       medHandler.CreateMedicationHandler,
		UpdateMedicationHandler:       medHandler.UpdateMedicationHandler,
		DeleteMedicationHandler:       medHandler.DeleteMedicationHandler,
		GetMedicationByIDHandler:      medHandler.GetMedicationByIDHandler,
		GetMedicationsByUserHandler:   medHandler.GetMedicationsByUserHandler,
		SetMedicationRemindersHandler: medHandler.SetMedicationRemindersHandler,

		// Session endpoints.
		SetActiveUserHandler:   sessionHandler.SetActiveUserHandler,
		ClearActiveUserHandler: sessionHandler.ClearActiveUserHandler,
		UpdateFCMTokenHandler:  sessionHandler.UpdateFCMTokenHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterHealthRoute(router)
	routes.RegisterAppointmentRoutes(router, handlerBundle)
	routes.RegisterMedicationRoutes(router, handlerBundle)
	routes.RegisterSessionRoutes(router, handlerBundle)

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
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
