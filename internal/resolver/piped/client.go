package piped

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

// Client resolves asset IDs through a Piped API instance.
type Client struct {
	client       *resty.Client
	baseURL      string
	targetHeight int
}

// Config holds configuration for the Piped provider.
type Config struct {
	BaseURL      string
	TargetHeight int
	Timeout      time.Duration
}

// NewClient creates a new Piped provider.
// Parameters:
//   - cfg: provider configuration including API base URL.
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
func (c *Client) Name() string { return "piped" }

type streamsResponse struct {
	Title        string        `json:"title"`
	VideoStreams []videoStream `json:"videoStreams"`
	AudioStreams []audioStream `json:"audioStreams"`
	Message      string        `json:"message,omitempty"`
}

type videoStream struct {
	URL       string `json:"url"`
	Quality   string `json:"quality"` // e.g. "720p"
	MimeType  string `json:"mimeType"`
	VideoOnly bool   `json:"videoOnly"`
}

type audioStream struct {
	URL      string `json:"url"`
	Bitrate  int    `json:"bitrate"`
	MimeType string `json:"mimeType"`
}

// Resolve fetches stream metadata and selects streams by the quality rule.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - assetID: external source identifier.
// Returns:
//   - *domain.ResolvedMedia: normalized locator tuple.
//   - error: non-nil when the instance is unreachable or no stream is usable.
func (c *Client) Resolve(ctx context.Context, assetID string) (*domain.ResolvedMedia, error) {
	var body streamsResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("%s/streams/%s", c.baseURL, assetID))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		if body.Message != "" {
			return nil, fmt.Errorf("instance error: %s", body.Message)
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	candidates := make([]resolver.StreamCandidate, 0, len(body.VideoStreams)+len(body.AudioStreams))
	for _, s := range body.VideoStreams {
		height, _ := strconv.Atoi(strings.TrimSuffix(s.Quality, "p"))
		candidates = append(candidates, resolver.StreamCandidate{
			URL:      s.URL,
			Height:   height,
			MimeType: s.MimeType,
			HasVideo: true,
			HasAudio: !s.VideoOnly,
		})
	}
	for _, s := range body.AudioStreams {
		candidates = append(candidates, resolver.StreamCandidate{
			URL:      s.URL,
			Bitrate:  s.Bitrate,
			MimeType: s.MimeType,
			HasAudio: true,
		})
	}

	video, audio, err := resolver.SelectStreams(candidates, c.targetHeight)
	if err != nil {
		return nil, err
	}
	return resolver.Media(video, audio, body.Title), nil
}
