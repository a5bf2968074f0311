package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/timmy/clipforge/internal/domain"
)

// fakeRunner records invocations and optionally writes the output file,
// standing in for the transcoder process.
type fakeRunner struct {
	calls   int
	err     error
	payload []byte // written to the output path (last arg) when non-nil
}

func (f *fakeRunner) Run(ctx context.Context, binary string, args []string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	if f.payload != nil {
		return os.WriteFile(args[len(args)-1], f.payload, 0644)
	}
	return nil
}

func newTestExtractor(t *testing.T, runner commandRunner) *Extractor {
	t.Helper()
	e, err := NewExtractor(&ExtractorConfig{
		FFmpegPath: "ffmpeg",
		ClipsDir:   t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}
	e.runner = runner
	return e
}

func testMedia() *domain.ResolvedMedia {
	return &domain.ResolvedMedia{
		VideoLocator: "https://example.com/video.mp4",
		Title:        "test video",
		Resolution:   "1280x720",
	}
}

func TestExtractWritesArtifact(t *testing.T) {
	runner := &fakeRunner{payload: []byte("mp4 bytes")}
	e := newTestExtractor(t, runner)

	result, err := e.Extract(context.Background(), testMedia(), "abc", 10, 20)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if result.OutputName != ClipName("abc", 10, 20) {
		t.Errorf("Unexpected output name: got %s, want %s", result.OutputName, ClipName("abc", 10, 20))
	}
	if result.SizeBytes != int64(len("mp4 bytes")) {
		t.Errorf("Unexpected size: got %d, want %d", result.SizeBytes, len("mp4 bytes"))
	}
	if result.Title != "test video" || result.Resolution != "1280x720" {
		t.Errorf("Media metadata not carried over: %+v", result)
	}
	if runner.calls != 1 {
		t.Errorf("Expected 1 transcoder invocation, got %d", runner.calls)
	}
}

func TestExtractSkipsExistingArtifact(t *testing.T) {
	runner := &fakeRunner{payload: []byte("mp4 bytes")}
	e := newTestExtractor(t, runner)

	name := ClipName("abc", 10, 20)
	if err := os.WriteFile(filepath.Join(e.ClipsDir(), name), []byte("existing"), 0644); err != nil {
		t.Fatalf("Failed to seed artifact: %v", err)
	}

	result, err := e.Extract(context.Background(), testMedia(), "abc", 10, 20)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if runner.calls != 0 {
		t.Errorf("Transcoder should not run for an existing artifact, got %d calls", runner.calls)
	}
	if result.SizeBytes != int64(len("existing")) {
		t.Errorf("Expected existing artifact size %d, got %d", len("existing"), result.SizeBytes)
	}
}

func TestExtractRunnerFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1: moov atom not found")}
	e := newTestExtractor(t, runner)

	_, err := e.Extract(context.Background(), testMedia(), "abc", 10, 20)

	var extErr *domain.ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("Expected ExtractionError, got %v", err)
	}
	if extErr.OutputName != ClipName("abc", 10, 20) {
		t.Errorf("Unexpected output name in error: %s", extErr.OutputName)
	}
}

func TestExtractEmptyOutputRemoved(t *testing.T) {
	runner := &fakeRunner{payload: []byte{}}
	e := newTestExtractor(t, runner)

	_, err := e.Extract(context.Background(), testMedia(), "abc", 10, 20)

	var extErr *domain.ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("Expected ExtractionError for empty output, got %v", err)
	}

	path := filepath.Join(e.ClipsDir(), ClipName("abc", 10, 20))
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("Empty artifact should have been removed: %v", statErr)
	}
}

func TestExtractMissingOutput(t *testing.T) {
	runner := &fakeRunner{} // exits 0 but writes nothing
	e := newTestExtractor(t, runner)

	_, err := e.Extract(context.Background(), testMedia(), "abc", 10, 20)

	var extErr *domain.ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("Expected ExtractionError for missing output, got %v", err)
	}
}

func TestExtractSeparateAudioPassedThrough(t *testing.T) {
	runner := &fakeRunner{payload: []byte("mp4 bytes")}
	e := newTestExtractor(t, runner)

	media := &domain.ResolvedMedia{
		VideoLocator: "https://example.com/video.mp4",
		AudioLocator: "https://example.com/audio.m4a",
	}

	if _, err := e.Extract(context.Background(), media, "abc", 0, 5); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if runner.calls != 1 {
		t.Errorf("Expected 1 transcoder invocation, got %d", runner.calls)
	}
}
