package extract

import (
	"strings"
	"testing"
)

func TestCutCombinedInput(t *testing.T) {
	b := NewCommandBuilder()

	args := b.Cut(CutParams{
		VideoInput: "https://example.com/stream.mp4",
		Start:      5,
		End:        12.5,
		OutputPath: "/tmp/out.mp4",
	})

	got := strings.Join(args, " ")
	want := "-nostats -hide_banner -loglevel error" +
		" -ss 5.000000 -i https://example.com/stream.mp4" +
		" -t 7.500000 -avoid_negative_ts make_zero" +
		" -c copy -movflags +faststart -y /tmp/out.mp4"

	if got != want {
		t.Errorf("Unexpected argv:\n got: %s\nwant: %s", got, want)
	}
}

func TestCutSeparateAudio(t *testing.T) {
	b := NewCommandBuilder()

	args := b.Cut(CutParams{
		VideoInput: "/tmp/video.mp4",
		AudioInput: "/tmp/audio.m4a",
		Start:      0,
		End:        3,
		OutputPath: "/tmp/out.mp4",
	})

	got := strings.Join(args, " ")
	want := "-nostats -hide_banner -loglevel error" +
		" -ss 0.000000 -i /tmp/video.mp4" +
		" -ss 0.000000 -i /tmp/audio.m4a" +
		" -t 3.000000 -avoid_negative_ts make_zero" +
		" -map 0:v:0 -map 1:a:0 -c:v copy -c:a aac" +
		" -movflags +faststart -y /tmp/out.mp4"

	if got != want {
		t.Errorf("Unexpected argv:\n got: %s\nwant: %s", got, want)
	}
}
