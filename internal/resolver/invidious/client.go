package invidious

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/clipforge/internal/domain"
	"github.com/timmy/clipforge/internal/resolver"
)

// Client resolves asset IDs through an Invidious instance.
type Client struct {
	client       *resty.Client
	baseURL      string
	targetHeight int
}

// Config holds configuration for the Invidious provider.
type Config struct {
	BaseURL      string
	TargetHeight int
	Timeout      time.Duration
}

// NewClient creates a new Invidious provider.
// Parameters:
//   - cfg: provider configuration including instance base URL.
// Returns:
//   - *Client: initialized provider.
func NewClient(cfg *Config) *Client {
	client := resty.New()
	client.SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{
		client:       client,
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		targetHeight: cfg.TargetHeight,
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string { return "invidious" }

type videoResponse struct {
	Title           string           `json:"title"`
	FormatStreams   []combinedFormat `json:"formatStreams"`
	AdaptiveFormats []adaptiveFormat `json:"adaptiveFormats"`
	Error           string           `json:"error,omitempty"`
}

type combinedFormat struct {
	URL        string `json:"url"`
	Resolution string `json:"resolution"` // e.g. "720p"
	Type       string `json:"type"`
}

type adaptiveFormat struct {
	URL          string `json:"url"`
	Resolution   string `json:"resolution,omitempty"`
	Bitrate      string `json:"bitrate"`
	Type         string `json:"type"` // e.g. "video/mp4; codecs=..." or "audio/mp4; ..."
	AudioQuality string `json:"audioQuality,omitempty"`
}

// Resolve fetches the video metadata and selects streams by the quality rule.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - assetID: external source identifier.
// Returns:
//   - *domain.ResolvedMedia: normalized locator tuple.
//   - error: non-nil when the instance is unreachable or no stream is usable.
func (c *Client) Resolve(ctx context.Context, assetID string) (*domain.ResolvedMedia, error) {
	var body videoResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("%s/api/v1/videos/%s", c.baseURL, assetID))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	if body.Error != "" {
		return nil, fmt.Errorf("instance error: %s", body.Error)
	}

	candidates := make([]resolver.StreamCandidate, 0, len(body.FormatStreams)+len(body.AdaptiveFormats))
	for _, f := range body.FormatStreams {
		candidates = append(candidates, resolver.StreamCandidate{
			URL:      f.URL,
			Height:   parseHeight(f.Resolution),
			MimeType: f.Type,
			HasVideo: true,
			HasAudio: true,
		})
	}
	for _, f := range body.AdaptiveFormats {
		isAudio := strings.HasPrefix(f.Type, "audio/")
		bitrate, _ := strconv.Atoi(f.Bitrate)
		candidates = append(candidates, resolver.StreamCandidate{
			URL:      f.URL,
			Height:   parseHeight(f.Resolution),
			Bitrate:  bitrate,
			MimeType: f.Type,
			HasVideo: !isAudio,
			HasAudio: isAudio,
		})
	}

	video, audio, err := resolver.SelectStreams(candidates, c.targetHeight)
	if err != nil {
		return nil, err
	}
	return resolver.Media(video, audio, body.Title), nil
}

// parseHeight converts a "720p" style label to its pixel height.
func parseHeight(resolution string) int {
	h, _ := strconv.Atoi(strings.TrimSuffix(resolution, "p"))
	return h
}
