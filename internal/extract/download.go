package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/clipforge/internal/domain"
	"github.com/timmy/clipforge/internal/logger"
)

// Downloader materializes remote streams to local temporary files for the
// download-then-cut strategy.
type Downloader struct {
	client  *resty.Client
	tempDir string
}

// DownloaderConfig holds configuration for the asset downloader.
type DownloaderConfig struct {
	Timeout time.Duration
	TempDir string // empty means the OS temp directory
}

// NewDownloader creates an asset downloader.
// Parameters:
//   - cfg: downloader configuration.
// Returns:
//   - *Downloader: initialized downloader.
func NewDownloader(cfg *DownloaderConfig) *Downloader {
	client := resty.New()
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	// Raw body streaming; the payloads are far too large to buffer
	client.SetDoNotParseResponse(true)

	tempDir := cfg.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	return &Downloader{client: client, tempDir: tempDir}
}

// Materialize downloads the job's source stream(s) to local files exactly once
// and returns a copy of the media whose locators point at the local copies.
// The returned cleanup func removes the temp files and must run after the last
// clip, on success and failure alike.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - media: resolved media with remote locators.
//   - jobID: used to namespace the temp files.
// Returns:
//   - *domain.ResolvedMedia: media with local file locators.
//   - func(): temp file cleanup.
//   - error: *domain.DownloadError on failure; partial files are removed.
func (d *Downloader) Materialize(ctx context.Context, media *domain.ResolvedMedia, jobID string) (*domain.ResolvedMedia, func(), error) {
	videoPath := filepath.Join(d.tempDir, fmt.Sprintf("clipforge-%s-video.mp4", jobID))

	var paths []string
	cleanup := func() {
		for _, p := range paths {
			os.Remove(p)
		}
	}

	if err := d.fetch(ctx, media.VideoLocator, videoPath); err != nil {
		cleanup()
		return nil, nil, err
	}
	paths = append(paths, videoPath)

	local := &domain.ResolvedMedia{
		VideoLocator: videoPath,
		Title:        media.Title,
		Resolution:   media.Resolution,
	}

	if !media.Combined() {
		audioPath := filepath.Join(d.tempDir, fmt.Sprintf("clipforge-%s-audio.m4a", jobID))
		if err := d.fetch(ctx, media.AudioLocator, audioPath); err != nil {
			cleanup()
			return nil, nil, err
		}
		paths = append(paths, audioPath)
		local.AudioLocator = audioPath
	}

	logger.CtxInfo(ctx, "Materialized source asset to local storage (%d file(s))", len(paths))
	return local, cleanup, nil
}

// fetch streams one locator to dest. The file is fully flushed before it is
// renamed into place so the extractor never reads a half-written copy.
func (d *Downloader) fetch(ctx context.Context, locator, dest string) error {
	resp, err := d.client.R().SetContext(ctx).Get(locator)
	if err != nil {
		return &domain.DownloadError{Locator: locator, Err: err}
	}

	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return &domain.DownloadError{Locator: locator, Err: fmt.Errorf("unexpected status %d", resp.StatusCode())}
	}

	tmp := dest + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return &domain.DownloadError{Locator: locator, Err: err}
	}

	written, err := io.Copy(f, body)
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return &domain.DownloadError{Locator: locator, Err: err}
	}
	if written == 0 {
		f.Close()
		os.Remove(tmp)
		return &domain.DownloadError{Locator: locator, Err: errors.New("empty payload")}
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return &domain.DownloadError{Locator: locator, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &domain.DownloadError{Locator: locator, Err: err}
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return &domain.DownloadError{Locator: locator, Err: err}
	}

	return nil
}
