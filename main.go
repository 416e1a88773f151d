// File: slotwise/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"slotwise/config"
	"slotwise/cron"
	"slotwise/database"
	timeslotRepo "slotwise/database/repository/timeslot"
	"slotwise/handlers"
	"slotwise/middleware"
	"slotwise/routes"
	"slotwise/services/availability"
	"slotwise/services/recurrence"
	"slotwise/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// A ready-made bearer credential saves pasting one together when poking
	// the API locally.
	if !config.IsProduction() {
		if token, err := utils.GenerateToken("dev-account", 24*time.Hour); err == nil {
			logger.Sugar().Infof("Dev bearer token (sub=dev-account): %s", token)
		}
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	slotRepo := timeslotRepo.NewMongoTimeSlotRepo()
	if err := slotRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure timeslot indexes: %v", err)
	}

	// services.
	slotDuration := time.Duration(config.AppConfig.SlotDurationMin) * time.Minute
	availabilitySvc := &availability.DefaultAvailabilityService{
		Repo:         slotRepo,
		SlotDuration: slotDuration,
	}
	extensionSvc := &recurrence.DefaultExtensionService{
		Repo:    slotRepo,
		Cache:   recurrence.NewRedisHorizonCache(utils.GetCacheClient()),
		Horizon: time.Duration(config.AppConfig.HorizonMonths) * 30 * 24 * time.Hour,
		Margin:  time.Duration(config.AppConfig.HorizonMarginDays) * 24 * time.Hour,
	}

	timeslotHandler := handlers.NewTimeslotHandler(availabilitySvc, extensionSvc)

	// Register routes with the assembled handler.
	routes.RegisterRoutes(router, timeslotHandler)

	// Background horizon sweeps and health monitoring.
	cron.InitHorizonWorker(extensionSvc)
	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

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
