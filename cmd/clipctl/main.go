package main

import (
	"context"
	"flag"

	"github.com/timmy/clipforge/internal/config"
	"github.com/timmy/clipforge/internal/extract"
	"github.com/timmy/clipforge/internal/logger"
	"github.com/timmy/clipforge/internal/resolver"
	"github.com/timmy/clipforge/internal/resolver/invidious"
	"github.com/timmy/clipforge/internal/resolver/piped"
	"github.com/timmy/clipforge/internal/resolver/ytdlp"
)

// clipctl cuts a single clip from the command line without the API server.
// Useful for smoke-testing providers and the transcoder setup.
func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "text",
		ServiceName: "clipforge-ctl",
	})
	logger.SetDefaultLogger(appLogger)

	// Parse command line flags
	assetID := flag.String("asset", "", "Asset ID to resolve")
	start := flag.Float64("start", 0, "Clip start in seconds")
	end := flag.Float64("end", 0, "Clip end in seconds")
	mode := flag.String("mode", "", "Extraction mode: remote, download, auto (default from config)")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	if *assetID == "" {
		appLogger.Fatal("-asset is required")
	}
	if *end <= *start {
		appLogger.Fatal("-end must be greater than -start")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}
	if *mode == "" {
		*mode = cfg.Extract.Mode
	}

	appLogger.WithFields(logger.Fields{
		logger.FieldAssetID: *assetID,
		"start":             *start,
		"end":               *end,
		"mode":              *mode,
	}).Info("Cutting clip")

	chain := buildResolver(&cfg.Resolver)

	extractor, err := extract.NewExtractor(&extract.ExtractorConfig{
		FFmpegPath:  cfg.Extract.FFmpegPath,
		ClipsDir:    cfg.Storage.LocalDir,
		ClipTimeout: cfg.Extract.ClipTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize extractor")
	}

	ctx := context.Background()

	media, err := chain.Resolve(ctx, *assetID)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to resolve asset")
	}
	appLogger.WithFields(logger.Fields{
		"title":      media.Title,
		"resolution": media.Resolution,
	}).Info("Asset resolved")

	if extract.ResolveMode(*mode) == extract.ModeDownload {
		downloader := extract.NewDownloader(&extract.DownloaderConfig{
			Timeout: cfg.Extract.DownloadTimeout,
			TempDir: cfg.Extract.TempDir,
		})
		localMedia, cleanup, err := downloader.Materialize(ctx, media, "clipctl")
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to download asset")
		}
		defer cleanup()
		media = localMedia
	}

	result, err := extractor.Extract(ctx, media, *assetID, *start, *end)
	if err != nil {
		appLogger.WithError(err).Fatal("Extraction failed")
	}

	appLogger.WithFields(logger.Fields{
		"output":     result.OutputName,
		"size_bytes": result.SizeBytes,
	}).Info("Clip written")
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
