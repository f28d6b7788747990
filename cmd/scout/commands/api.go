package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/proplens/scout/internal/api"
	"github.com/proplens/scout/internal/api/handlers"
	"github.com/proplens/scout/internal/dataset"
	"github.com/proplens/scout/internal/scheduler"
	"github.com/proplens/scout/internal/scheduler/jobs"
	"github.com/proplens/scout/internal/scoring"
	"github.com/proplens/scout/pkg/config"
	"github.com/proplens/scout/pkg/database"
	"github.com/proplens/scout/pkg/logger"
	"github.com/proplens/scout/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server backed by PostgreSQL, with optional
Redis caching and the rescore scheduler when enabled.

Endpoints:
  GET  /health              - Health check
  POST /api/v1/shortlist    - Score and return the ranked shortlist
  POST /api/v1/scores       - Score and return every suburb
  GET  /api/v1/runs         - List persisted scoring runs
  GET  /api/v1/runs/{id}    - Fetch one persisted run

Example:
  go run ./cmd/scout api
  go run ./cmd/scout api --port 8090`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Scout API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Connect to Redis (no-op client when disabled)
	rdb, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rdb.Close()

	if rdb.Enabled() {
		log.Info("Connected to Redis")
	}

	// 5. Create repositories
	metricsRepo := dataset.NewRepository(db.Pool)
	runRepo := scoring.NewRepository(db.Pool)

	// 6. Create handlers
	cache := redis.NewCache(rdb, "scout")
	limiter := redis.NewRateLimiter(rdb, "scout")
	scoringHandler := handlers.NewScoringHandler(metricsRepo, runRepo, cache, limiter, cfg, log)
	healthHandler := handlers.NewHealthHandler(db, rdb, log)

	// 7. Create router and server
	router := api.NewRouter(scoringHandler, healthHandler, cfg, log)
	server := api.New(cfg, log, router)

	// 8. Start the scheduler when enabled
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(log)
		if err := sched.AddJob(jobs.NewRescoreJob(metricsRepo, runRepo, cfg, log)); err != nil {
			return fmt.Errorf("add rescore job: %w", err)
		}
		if err := sched.AddJob(jobs.NewRunRetentionJob(runRepo, cfg, log)); err != nil {
			return fmt.Errorf("add retention job: %w", err)
		}
		sched.Start()
	}

	// 9. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\nServer running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /api/v1/shortlist")
	fmt.Println("  POST /api/v1/scores")
	fmt.Println("  GET  /api/v1/runs")
	fmt.Println("  GET  /api/v1/runs/{id}")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if sched != nil {
		sched.Stop()
		log.WithField("jobs", sched.Stats()).Info("Scheduler final state")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
