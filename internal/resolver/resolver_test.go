package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/timmy/clipforge/internal/domain"
)

// stubProvider is a canned provider for chain tests.
type stubProvider struct {
	name  string
	media *domain.ResolvedMedia
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Resolve(ctx context.Context, assetID string) (*domain.ResolvedMedia, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.media, nil
}

func TestChainFirstProviderWins(t *testing.T) {
	first := &stubProvider{name: "first", media: &domain.ResolvedMedia{VideoLocator: "v1"}}
	second := &stubProvider{name: "second", media: &domain.ResolvedMedia{VideoLocator: "v2"}}

	chain := NewChain(time.Second, first, second)
	media, err := chain.Resolve(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if media.VideoLocator != "v1" {
		t.Errorf("Expected first provider's media, got %s", media.VideoLocator)
	}
	if second.calls != 0 {
		t.Errorf("Second provider should not have been tried, got %d calls", second.calls)
	}
}

func TestChainFallsBackOnFailure(t *testing.T) {
	first := &stubProvider{name: "first", err: errors.New("upstream 500")}
	second := &stubProvider{name: "second", err: ErrNoStream}
	third := &stubProvider{name: "third", media: &domain.ResolvedMedia{VideoLocator: "v3"}}

	chain := NewChain(time.Second, first, second, third)
	media, err := chain.Resolve(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if media.VideoLocator != "v3" {
		t.Errorf("Expected third provider's media, got %s", media.VideoLocator)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Errorf("Earlier providers should each be tried once: first=%d second=%d", first.calls, second.calls)
	}
}

func TestChainAggregatesFailures(t *testing.T) {
	first := &stubProvider{name: "first", err: errors.New("upstream 500")}
	second := &stubProvider{name: "second", err: ErrNoStream}

	chain := NewChain(time.Second, first, second)
	_, err := chain.Resolve(context.Background(), "abc")

	var resErr *domain.ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Expected ResolutionError, got %v", err)
	}
	if resErr.AssetID != "abc" {
		t.Errorf("Wrong asset ID in error: %s", resErr.AssetID)
	}
	if len(resErr.Reasons) != 2 {
		t.Fatalf("Expected 2 reasons, got %d: %v", len(resErr.Reasons), resErr.Reasons)
	}
	if !strings.Contains(resErr.Reasons[0], "first") || !strings.Contains(resErr.Reasons[0], "upstream 500") {
		t.Errorf("First reason should name provider and cause: %s", resErr.Reasons[0])
	}
	if !strings.Contains(resErr.Reasons[1], "second") {
		t.Errorf("Second reason should name provider: %s", resErr.Reasons[1])
	}
}

func TestChainProviderTimeout(t *testing.T) {
	slow := &stubProvider{name: "slow", err: context.DeadlineExceeded}
	fast := &stubProvider{name: "fast", media: &domain.ResolvedMedia{VideoLocator: "v"}}

	chain := NewChain(10*time.Millisecond, slow, fast)
	media, err := chain.Resolve(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if media.VideoLocator != "v" {
		t.Errorf("Expected fallback after timeout, got %s", media.VideoLocator)
	}
}

func TestChainStopsOnCancelledContext(t *testing.T) {
	first := &stubProvider{name: "first", err: errors.New("boom")}
	second := &stubProvider{name: "second", media: &domain.ResolvedMedia{VideoLocator: "v"}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chain := NewChain(time.Second, first, second)
	_, err := chain.Resolve(ctx, "abc")

	var resErr *domain.ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Expected ResolutionError after cancellation, got %v", err)
	}
	if second.calls != 0 {
		t.Errorf("Chain should stop after the parent context is cancelled, second tried %d times", second.calls)
	}
}
