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

	"github.com/timmy/clipforge/internal/api"
	"github.com/timmy/clipforge/internal/api/middleware"
	"github.com/timmy/clipforge/internal/config"
	"github.com/timmy/clipforge/internal/extract"
	"github.com/timmy/clipforge/internal/logger"
	"github.com/timmy/clipforge/internal/repository"
	"github.com/timmy/clipforge/internal/resolver"
	"github.com/timmy/clipforge/internal/resolver/invidious"
	"github.com/timmy/clipforge/internal/resolver/piped"
	"github.com/timmy/clipforge/internal/resolver/ytdlp"
	"github.com/timmy/clipforge/internal/service"
	"github.com/timmy/clipforge/internal/storage"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	jobRepo := repository.NewJobRepository(db)

	// Initialize artifact storage
	objectStorage, err := storage.NewStorage(&storage.Config{
		Type:      cfg.Storage.Type,
		LocalDir:  cfg.Storage.LocalDir,
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize storage")
	}

	// Build the provider fallback chain in configured order
	chain := buildResolver(&cfg.Resolver)

	// Initialize extraction pipeline
	extractor, err := extract.NewExtractor(&extract.ExtractorConfig{
		FFmpegPath:  cfg.Extract.FFmpegPath,
		ClipsDir:    cfg.Storage.LocalDir,
		ClipTimeout: cfg.Extract.ClipTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize extractor")
	}
	downloader := extract.NewDownloader(&extract.DownloaderConfig{
		Timeout: cfg.Extract.DownloadTimeout,
		TempDir: cfg.Extract.TempDir,
	})

	mode := extract.ResolveMode(cfg.Extract.Mode)
	appLogger.WithField("mode", string(mode)).Info("Extraction mode resolved")

	// Retention sweeper
	sweeper := service.NewSweeper(jobRepo, appLogger, &service.SweeperConfig{
		Retention:     cfg.Jobs.Retention,
		SweepInterval: cfg.Jobs.SweepInterval,
	})
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go sweeper.Run(sweepCtx)

	// Services
	artifactService := service.NewArtifactService(objectStorage, extractor.ClipsDir())
	jobService := service.NewJobService(
		jobRepo,
		chain,
		extractor,
		downloader,
		artifactService,
		sweeper,
		appLogger,
		&service.JobServiceConfig{Mode: mode},
	)

	// Setup router
	router := api.SetupRouter(jobService, artifactService, appLogger, &api.RouterConfig{
		Mode: cfg.Server.Mode,
		CORS: middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		appLogger.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	stopSweeper()

	// Give outstanding requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}

// buildResolver assembles the fallback chain from the configured provider
// names, skipping unknown entries.
func buildResolver(cfg *config.ResolverConfig) *resolver.Chain {
	var providers []resolver.Provider
	for _, name := range cfg.Providers {
		switch name {
		case "invidious":
			providers = append(providers, invidious.NewClient(&invidious.Config{
				BaseURL:      cfg.InvidiousBaseURL,
				TargetHeight: cfg.TargetHeight,
				Timeout:      cfg.ResolveTimeout,
			}))
		case "piped":
			providers = append(providers, piped.NewClient(&piped.Config{
				BaseURL:      cfg.PipedBaseURL,
				TargetHeight: cfg.TargetHeight,
				Timeout:      cfg.ResolveTimeout,
			}))
		case "ytdlp":
			providers = append(providers, ytdlp.NewClient(&ytdlp.Config{
				BinaryPath:   cfg.YtDlpPath,
				TargetHeight: cfg.TargetHeight,
			}))
		default:
			logger.Warn("Unknown resolver provider %q, skipping", name)
		}
	}
	return resolver.NewChain(cfg.ResolveTimeout, providers...)
}
