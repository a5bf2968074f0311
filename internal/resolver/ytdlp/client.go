package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/timmy/clipforge/internal/domain"
	"github.com/timmy/clipforge/internal/resolver"
)

// Client resolves asset IDs by shelling out to the yt-dlp binary. It is the
// slowest provider but survives scraping breakage that takes the API-based
// instances down, so it sits last in the default chain.
type Client struct {
	binaryPath   string
	targetHeight int
}

// Config holds configuration for the yt-dlp provider.
type Config struct {
	BinaryPath   string
	TargetHeight int
}

// NewClient creates a new yt-dlp provider.
// Parameters:
//   - cfg: provider configuration including the binary path.
// Returns:
//   - *Client: initialized provider.
func NewClient(cfg *Config) *Client {
	path := cfg.BinaryPath
	if path == "" {
		path = "yt-dlp"
	}
	return &Client{binaryPath: path, targetHeight: cfg.TargetHeight}
}

// Name returns the provider identifier.
func (c *Client) Name() string { return "yt-dlp" }

type dumpResponse struct {
	Title   string       `json:"title"`
	Formats []dumpFormat `json:"formats"`
}

type dumpFormat struct {
	URL      string  `json:"url"`
	Height   int     `json:"height"`
	ABR      float64 `json:"abr"` // audio bitrate in kbps
	ACodec   string  `json:"acodec"`
	VCodec   string  `json:"vcodec"`
	Protocol string  `json:"protocol"`
	Ext      string  `json:"ext"`
}

// Resolve dumps the format list with `yt-dlp -J` and selects streams by the
// quality rule.
// Parameters:
//   - ctx: context for cancellation and deadlines (the chain bounds it).
//   - assetID: external source identifier.
// Returns:
//   - *domain.ResolvedMedia: normalized locator tuple.
//   - error: non-nil when the binary fails or no stream is usable.
func (c *Client) Resolve(ctx context.Context, assetID string) (*domain.ResolvedMedia, error) {
	cmd := exec.CommandContext(ctx, c.binaryPath, "-J", "--no-warnings", "--", assetID)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("yt-dlp failed: %w, stderr: %s", err, truncate(stderr.String(), 200))
	}

	var dump dumpResponse
	if err := json.Unmarshal(out.Bytes(), &dump); err != nil {
		return nil, fmt.Errorf("yt-dlp returned malformed JSON: %w", err)
	}

	candidates := make([]resolver.StreamCandidate, 0, len(dump.Formats))
	for _, f := range dump.Formats {
		// HLS/DASH manifest entries are not directly seekable inputs
		if f.URL == "" || f.Protocol == "m3u8" || f.Protocol == "m3u8_native" {
			continue
		}
		hasVideo := f.VCodec != "" && f.VCodec != "none"
		hasAudio := f.ACodec != "" && f.ACodec != "none"
		candidates = append(candidates, resolver.StreamCandidate{
			URL:      f.URL,
			Height:   f.Height,
			Bitrate:  int(f.ABR * 1000),
			MimeType: f.Ext,
			HasVideo: hasVideo,
			HasAudio: hasAudio,
		})
	}

	video, audio, err := resolver.SelectStreams(candidates, c.targetHeight)
	if err != nil {
		return nil, err
	}
	return resolver.Media(video, audio, dump.Title), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
