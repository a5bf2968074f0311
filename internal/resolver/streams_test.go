package resolver

import (
	"errors"
	"testing"
)

func combined(url string, height int) StreamCandidate {
	return StreamCandidate{URL: url, Height: height, HasVideo: true, HasAudio: true}
}

func videoOnly(url string, height int) StreamCandidate {
	return StreamCandidate{URL: url, Height: height, HasVideo: true}
}

func audioOnly(url string, bitrate int) StreamCandidate {
	return StreamCandidate{URL: url, Bitrate: bitrate, HasAudio: true}
}

func TestSelectStreamsHeightPreference(t *testing.T) {
	testCases := []struct {
		name       string
		candidates []StreamCandidate
		wantURL    string
	}{
		{
			name: "exact target wins",
			candidates: []StreamCandidate{
				combined("c-360", 360),
				combined("c-720", 720),
				combined("c-1080", 1080),
			},
			wantURL: "c-720",
		},
		{
			name: "highest below target when no exact match",
			candidates: []StreamCandidate{
				combined("c-360", 360),
				combined("c-480", 480),
				combined("c-1080", 1080),
			},
			wantURL: "c-480",
		},
		{
			name: "lowest above target when nothing at or below",
			candidates: []StreamCandidate{
				combined("c-1080", 1080),
				combined("c-1440", 1440),
			},
			wantURL: "c-1080",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			video, audio, err := SelectStreams(tc.candidates, 720)
			if err != nil {
				t.Fatalf("SelectStreams failed: %v", err)
			}
			if video.URL != tc.wantURL {
				t.Errorf("Wrong video pick: got %s, want %s", video.URL, tc.wantURL)
			}
			if audio.URL != video.URL {
				t.Errorf("Combined stream should serve both tracks, got audio %s", audio.URL)
			}
		})
	}
}

func TestSelectStreamsSeparateAudio(t *testing.T) {
	candidates := []StreamCandidate{
		videoOnly("v-720", 720),
		videoOnly("v-1080", 1080),
		audioOnly("a-low", 64000),
		audioOnly("a-high", 128000),
	}

	video, audio, err := SelectStreams(candidates, 720)
	if err != nil {
		t.Fatalf("SelectStreams failed: %v", err)
	}
	if video.URL != "v-720" {
		t.Errorf("Wrong video pick: got %s, want v-720", video.URL)
	}
	if audio.URL != "a-high" {
		t.Errorf("Audio should be ranked by bitrate: got %s, want a-high", audio.URL)
	}
}

func TestSelectStreamsCombinedFallback(t *testing.T) {
	// Video-only pick exists but no audio track: fall back to combined.
	candidates := []StreamCandidate{
		videoOnly("v-720", 720),
		combined("c-360", 360),
	}

	video, audio, err := SelectStreams(candidates, 720)
	if err != nil {
		t.Fatalf("SelectStreams failed: %v", err)
	}
	if video.URL != "c-360" || audio.URL != "c-360" {
		t.Errorf("Expected combined fallback c-360, got video=%s audio=%s", video.URL, audio.URL)
	}
}

func TestSelectStreamsNoStream(t *testing.T) {
	testCases := []struct {
		name       string
		candidates []StreamCandidate
	}{
		{name: "empty list", candidates: nil},
		{name: "audio only", candidates: []StreamCandidate{audioOnly("a", 128000)}},
		{name: "video without URL", candidates: []StreamCandidate{{Height: 720, HasVideo: true, HasAudio: true}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := SelectStreams(tc.candidates, 720)
			if !errors.Is(err, ErrNoStream) {
				t.Errorf("Expected ErrNoStream, got %v", err)
			}
		})
	}
}

func TestMedia(t *testing.T) {
	video := &StreamCandidate{URL: "v", Height: 720}
	audio := &StreamCandidate{URL: "a"}

	m := Media(video, audio, "title")
	if m.VideoLocator != "v" || m.AudioLocator != "a" {
		t.Errorf("Unexpected locators: %+v", m)
	}
	if m.Resolution != "720p" {
		t.Errorf("Unexpected resolution: %s", m.Resolution)
	}
	if m.Combined() {
		t.Error("Separate audio should not report combined")
	}

	same := Media(video, video, "title")
	if !same.Combined() {
		t.Error("Identical locators should report combined")
	}
}
