package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"techdaily/config"
	"techdaily/internal/ai"
	"techdaily/internal/crawler"
	"techdaily/internal/handler"
	"techdaily/internal/report"
	"techdaily/internal/scheduler"
	"techdaily/internal/store"
	"techdaily/logger"
	"techdaily/services/cache"
	"techdaily/services/publisher"
	"techdaily/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("server_addr", cfg.ServerAddr).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Open the database
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("Failed to open database")
	}
	if err := st.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database schema")
	}
	log.Info().Str("path", cfg.DBPath).Msg("Database ready")

	// Rate-limit block cache: memcache when configured, in-process otherwise
	var cacheService cache.CacheService
	if cfg.MemcacheAddr != "" {
		cacheService = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.ForCache().WithField("addr", cfg.MemcacheAddr).Info().Msg("Connected to Memcache")
	} else {
		cacheService = cache.NewMemoryService()
	}

	// Article announce stream
	redisPublisher := publisher.NewRedisPublisher(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamMaxLength,
	)
	defer redisPublisher.Close()
	logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	// Create crawlers
	crawlers := crawler.CreateCrawlers(&cfg, cacheService)
	if len(crawlers) == 0 {
		log.Fatal().Msg("No crawlers were created")
	}
	log.Info().Int("crawler_count", len(crawlers)).Msg("Created crawlers")

	// Orchestrator and report assembler
	w := worker.NewWorker(crawlers, st, redisPublisher, cfg.CrawlConcurrency, cfg.CrawlTimeout())
	aiClient := ai.NewClient(cfg.AIAPIKey, cfg.AIBaseURL)
	assembler := report.NewAssembler(st, aiClient, cfg.AIReportModel)

	// Scheduled crawl and nightly report
	sched := scheduler.NewScheduler(&cfg, w, assembler)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer sched.Stop()

	// HTTP trigger surface
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	handler.NewHandler(&cfg, st, w, assembler, aiClient).RegisterRoutes(router)

	server := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: router,
	}

	serverDone := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ServerAddr).Msg("HTTP server listening")
		serverDone <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	case err := <-serverDone:
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server exited with error")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
}
