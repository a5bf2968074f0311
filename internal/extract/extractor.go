package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/timmy/clipforge/internal/domain"
	"github.com/timmy/clipforge/internal/logger"
)

// commandRunner abstracts the external transcoder process so tests can fake it.
type commandRunner interface {
	Run(ctx context.Context, binary string, args []string) error
}

// execRunner invokes the transcoder via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// Extractor invokes the external transcoder once per clip with idempotent
// output naming and validates the produced artifact.
type Extractor struct {
	ffmpegPath  string
	clipsDir    string
	clipTimeout time.Duration
	builder     *CommandBuilder
	runner      commandRunner
}

// ExtractorConfig holds configuration for the clip extractor.
type ExtractorConfig struct {
	FFmpegPath  string
	ClipsDir    string
	ClipTimeout time.Duration
}

// NewExtractor creates a clip extractor.
// Parameters:
//   - cfg: extractor configuration including transcoder path and output dir.
// Returns:
//   - *Extractor: initialized extractor.
//   - error: non-nil if the clips directory cannot be created.
func NewExtractor(cfg *ExtractorConfig) (*Extractor, error) {
	if err := os.MkdirAll(cfg.ClipsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create clips directory: %w", err)
	}

	ffmpeg := cfg.FFmpegPath
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}

	return &Extractor{
		ffmpegPath:  ffmpeg,
		clipsDir:    cfg.ClipsDir,
		clipTimeout: cfg.ClipTimeout,
		builder:     NewCommandBuilder(),
		runner:      execRunner{},
	}, nil
}

// ClipsDir returns the directory artifacts are written to.
func (e *Extractor) ClipsDir() string { return e.clipsDir }

// Extract cuts one clip from the resolved media. When a non-empty artifact
// with the deterministic name already exists the transcoder is not invoked.
// A zero-byte or partial output is removed before a failure is returned, so a
// broken artifact is never left addressable.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - media: resolved media locators (remote URLs or local file paths).
//   - assetID: external source identifier, part of the artifact name.
//   - start: clip start in seconds.
//   - end: clip end in seconds; must be greater than start (caller-validated).
// Returns:
//   - *domain.ClipResult: artifact descriptor.
//   - error: *domain.ExtractionError or *domain.TimeoutError on failure.
func (e *Extractor) Extract(ctx context.Context, media *domain.ResolvedMedia, assetID string, start, end float64) (*domain.ClipResult, error) {
	name := ClipName(assetID, start, end)
	outputPath := filepath.Join(e.clipsDir, name)

	if fi, err := os.Stat(outputPath); err == nil && fi.Size() > 0 {
		logger.CtxDebug(ctx, "Artifact %s already exists, skipping extraction", name)
		return e.result(media, name, start, end, fi.Size()), nil
	}

	params := CutParams{
		VideoInput: media.VideoLocator,
		Start:      start,
		End:        end,
		OutputPath: outputPath,
	}
	if !media.Combined() {
		params.AudioInput = media.AudioLocator
	}

	runCtx := ctx
	if e.clipTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.clipTimeout)
		defer cancel()
	}

	if err := e.runner.Run(runCtx, e.ffmpegPath, e.builder.Cut(params)); err != nil {
		os.Remove(outputPath)
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, &domain.TimeoutError{Op: "extraction of " + name, Limit: e.clipTimeout}
		}
		return nil, &domain.ExtractionError{OutputName: name, Err: err}
	}

	fi, err := os.Stat(outputPath)
	if err != nil {
		return nil, &domain.ExtractionError{OutputName: name, Err: errors.New("transcoder produced no output")}
	}
	if fi.Size() == 0 {
		os.Remove(outputPath)
		return nil, &domain.ExtractionError{OutputName: name, Err: errors.New("transcoder produced empty output")}
	}

	return e.result(media, name, start, end, fi.Size()), nil
}

func (e *Extractor) result(media *domain.ResolvedMedia, name string, start, end float64, size int64) *domain.ClipResult {
	return &domain.ClipResult{
		Start:      start,
		End:        end,
		OutputName: name,
		Title:      media.Title,
		Resolution: media.Resolution,
		SizeBytes:  size,
	}
}
