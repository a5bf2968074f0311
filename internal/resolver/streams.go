package resolver

import (
	"fmt"

	"github.com/timmy/clipforge/internal/domain"
)

// StreamCandidate is one stream offered by a provider, normalized across
// backend response shapes.
type StreamCandidate struct {
	URL      string
	Height   int // video height in pixels, 0 for audio-only
	Bitrate  int // bits per second, used to rank audio tracks
	MimeType string
	HasVideo bool
	HasAudio bool
}

// SelectStreams applies the deterministic quality rule to a candidate list:
// prefer the target height exactly, else the highest below it, else the lowest
// above it; a combined stream at the chosen height serves both locators, and
// separate audio is ranked by bitrate.
// Parameters:
//   - candidates: normalized streams from one provider.
//   - targetHeight: preferred video height (e.g. 720).
// Returns:
//   - video: chosen video stream.
//   - audio: chosen audio stream, equal to video for combined streams.
//   - err: ErrNoStream when no playable video+audio combination exists.
func SelectStreams(candidates []StreamCandidate, targetHeight int) (video, audio *StreamCandidate, err error) {
	var bestVideo *StreamCandidate
	for i := range candidates {
		c := &candidates[i]
		if !c.HasVideo || c.URL == "" || c.Height == 0 {
			continue
		}
		if betterVideo(c, bestVideo, targetHeight) {
			bestVideo = c
		}
	}
	if bestVideo == nil {
		return nil, nil, ErrNoStream
	}

	if bestVideo.HasAudio {
		return bestVideo, bestVideo, nil
	}

	var bestAudio *StreamCandidate
	for i := range candidates {
		c := &candidates[i]
		if c.HasVideo || !c.HasAudio || c.URL == "" {
			continue
		}
		if bestAudio == nil || c.Bitrate > bestAudio.Bitrate {
			bestAudio = c
		}
	}
	if bestAudio == nil {
		// Video-only pick with no audio track: fall back to the best combined
		// stream if any exists, otherwise the asset is unusable.
		var bestCombined *StreamCandidate
		for i := range candidates {
			c := &candidates[i]
			if !c.HasVideo || !c.HasAudio || c.URL == "" || c.Height == 0 {
				continue
			}
			if betterVideo(c, bestCombined, targetHeight) {
				bestCombined = c
			}
		}
		if bestCombined == nil {
			return nil, nil, ErrNoStream
		}
		return bestCombined, bestCombined, nil
	}

	return bestVideo, bestAudio, nil
}

// betterVideo reports whether candidate should replace current under the
// target-height preference.
func betterVideo(candidate, current *StreamCandidate, target int) bool {
	if current == nil {
		return true
	}
	return videoRank(candidate.Height, target) < videoRank(current.Height, target)
}

// videoRank orders heights: exact target first, then below-target descending,
// then above-target ascending.
func videoRank(height, target int) int {
	switch {
	case height == target:
		return 0
	case height < target:
		return 1 + (target - height)
	default:
		return 100000 + (height - target)
	}
}

// Media assembles a ResolvedMedia tuple from a selected pair.
func Media(video, audio *StreamCandidate, title string) *domain.ResolvedMedia {
	m := &domain.ResolvedMedia{
		VideoLocator: video.URL,
		Title:        title,
		Resolution:   fmt.Sprintf("%dp", video.Height),
	}
	if audio != nil && audio.URL != video.URL {
		m.AudioLocator = audio.URL
	}
	return m
}
