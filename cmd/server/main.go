package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"jobprospect/internal/aggregator"
	"jobprospect/internal/api/routes"
	"jobprospect/internal/background"
	"jobprospect/internal/config"
	"jobprospect/internal/exporter"
	"jobprospect/internal/logging"
	"jobprospect/internal/providers/francetravail"
	"jobprospect/internal/providers/pappers"
	"jobprospect/internal/providers/sirene"
	"jobprospect/internal/search"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting JobProspect")

	// Initialize background task manager
	taskManager := background.NewTaskManager(cfg)
	ctx := context.Background()
	if err := taskManager.Start(ctx); err != nil {
		logger.Fatal("Failed to start task manager", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Provider clients and shared result set
	jobs := francetravail.NewClient(cfg)
	registry := sirene.NewClient(cfg)
	enrichment := pappers.NewClient(cfg)
	agg := aggregator.New()
	exp := exporter.New(cfg.Export.CSVSeparator)

	orchestrator := search.NewOrchestrator(cfg, jobs, registry, enrichment, agg, taskManager)

	// Authenticate at startup when credentials come from the environment;
	// otherwise the token endpoint provides them at runtime.
	if cfg.HasFranceTravailCredentials() {
		authCtx, cancel := context.WithTimeout(ctx, cfg.HTTP.ConnectTimeout)
		if err := jobs.Authenticate(authCtx, cfg.FranceTravail.ClientID, cfg.FranceTravail.ClientSecret); err != nil {
			logger.Warn("France Travail startup authentication failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		cancel()
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Setup routes
	routes.SetupRoutes(e, cfg, jobs, orchestrator, agg, exp, taskManager)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Stopping background task manager...")
		if err := taskManager.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping task manager", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Stopping HTTP server...")
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Server failed to start", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
