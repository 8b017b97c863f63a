package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"worktime-rollup-backend/config"
	"worktime-rollup-backend/internal/api"
	"worktime-rollup-backend/internal/db"
	"worktime-rollup-backend/internal/queue"
	"worktime-rollup-backend/internal/rollup"
	"worktime-rollup-backend/internal/schedule"
	"worktime-rollup-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "rollup-backend ", log.LstdFlags)

	// Optional .env for local development; ignore when absent.
	if err := godotenv.Load(); err == nil {
		logger.Println(".env loaded")
	}

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	resolver := schedule.NewResolver(appStore, cfg.Rollup.RulesCacheTTL)
	rollupSvc := rollup.NewService(appStore, resolver)

	workerPool := queue.NewWorkerPool(cfg.Rollup.WorkerPoolSize, cfg.Rollup.QueueSize, rollupSvc)
	workerPool.Start(ctx)
	logger.Printf("rollup worker pool started with %d workers", cfg.Rollup.WorkerPoolSize)

	// Initialize router
	router := api.NewRouter(&cfg.Server, appStore, rollupSvc, workerPool, resolver)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
