package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbonimpa/agrigate/internal/config"
	"github.com/mbonimpa/agrigate/internal/handlers"
	"github.com/mbonimpa/agrigate/internal/logger"
	"github.com/mbonimpa/agrigate/internal/middleware"
	"github.com/mbonimpa/agrigate/internal/services"
	"github.com/mbonimpa/agrigate/internal/upstream"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting Agrigate API", map[string]interface{}{
		"version":     "0.1.0",
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Create the program backend client. The backend owns all data; the
	// gateway holds no connections beyond this client.
	client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout(), log)
	log.Info("Upstream client configured", map[string]interface{}{
		"base_url": cfg.Upstream.BaseURL,
		"timeout":  cfg.Upstream.Timeout().String(),
	})

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS -> Session
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))
	router.Use(middleware.Session())

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(client, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize service layer
	applicantService := services.NewApplicantService(client, log)
	applicationService := services.NewApplicationService(client, log)
	directoryService := services.NewDirectoryService(client, log)
	uploadService := services.NewUploadService(client, cfg.Upload.MaxBytes, log)

	// Initialize handlers
	applicantHandler := handlers.NewApplicantHandler(applicantService, applicationService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	directoryHandler := handlers.NewDirectoryHandler(directoryService)
	uploadHandler := handlers.NewUploadHandler(uploadService)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	{
		applicants := v1.Group("/applicants")
		{
			applicants.GET("", applicantHandler.List)
			applicants.GET("/reports", applicantHandler.Report)
			applicants.PUT("/:id/land", applicantHandler.EditLand)
		}

		applications := v1.Group("/applications")
		{
			applications.POST("/filter", applicationHandler.Filter)
			applications.POST("/reports", applicationHandler.Report)
			applications.PUT("/transfer", applicationHandler.Transfer)
			applications.PUT("/:id/approve", applicationHandler.Approve)
			applications.PUT("/:id/reject", applicationHandler.Reject)
		}

		organizations := v1.Group("/organizations")
		{
			organizations.GET("", directoryHandler.Organizations)
			organizations.GET("/:id", directoryHandler.Organization)
			organizations.GET("/:id/services", directoryHandler.OrganizationServices)
		}

		servicesGroup := v1.Group("/services")
		{
			servicesGroup.GET("", directoryHandler.Services)
			servicesGroup.GET("/:id", directoryHandler.Service)
		}

		locations := v1.Group("/locations")
		{
			locations.GET("", directoryHandler.Locations)
			locations.GET("/:provinceID/districts", directoryHandler.Districts)
			locations.GET("/:provinceID/districts/:districtID/sectors", directoryHandler.Sectors)
		}

		uploads := v1.Group("/uploads")
		{
			uploads.POST("", uploadHandler.Submit)
			uploads.POST("/inspect", uploadHandler.Inspect)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
