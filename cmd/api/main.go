package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tokenmail/internal/config"
	"tokenmail/internal/repository"
	"tokenmail/internal/routes"
)

// @title tokenmail API
// @version 1.0
// @description One-time email token issuance and lookup service.
// @BasePath /
func main() {
	// Load configuration
	cfg := config.Load()

	// Token store and background sweeper
	store := repository.NewMemoryTokenStore()
	store.StartSweeper(time.Duration(cfg.SweepIntervalMinutes) * time.Minute)
	defer store.Stop()

	// Create router and setup routes
	router := routes.SetupRoutes(store, cfg)

	// Create server
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give server 5 seconds to finish current requests
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
