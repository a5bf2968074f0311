package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timmy/clipforge/internal/domain"
	"github.com/timmy/clipforge/internal/logger"
)

// ErrNoStream is returned by a provider when the asset exists but offers no
// usable stream (wrong container, no audio). The chain treats it as a plain
// failure and moves on, never as a partial success.
var ErrNoStream = errors.New("no usable stream found")

// Provider resolves an asset ID to retrievable media locators. Implementations
// wrap one scraping backend; the chain is the only caller.
type Provider interface {
	// Name returns the stable provider identifier used in logs and error reasons.
	Name() string

	// Resolve returns normalized media locators for the asset, or an error when
	// the backend is unreachable or offers no usable stream.
	Resolve(ctx context.Context, assetID string) (*domain.ResolvedMedia, error)
}

// Resolver locates retrievable media for an asset ID.
type Resolver interface {
	Resolve(ctx context.Context, assetID string) (*domain.ResolvedMedia, error)
}

// Chain tries providers in priority order and short-circuits on the first
// success. Each attempt runs under its own timeout so one hung backend cannot
// stall the whole resolution.
type Chain struct {
	providers []Provider
	timeout   time.Duration
}

// NewChain creates a fallback chain over the given providers.
// Parameters:
//   - timeout: per-provider resolution bound.
//   - providers: providers in priority order.
// Returns:
//   - *Chain: initialized chain.
func NewChain(timeout time.Duration, providers ...Provider) *Chain {
	return &Chain{providers: providers, timeout: timeout}
}

// Resolve queries providers in order, returning the first successful result.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - assetID: external source identifier.
// Returns:
//   - *domain.ResolvedMedia: normalized locator tuple from the first provider
//     that succeeds.
//   - error: *domain.ResolutionError aggregating per-provider reasons when all
//     providers fail.
func (c *Chain) Resolve(ctx context.Context, assetID string) (*domain.ResolvedMedia, error) {
	reasons := make([]string, 0, len(c.providers))

	for _, p := range c.providers {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		media, err := p.Resolve(attemptCtx, assetID)
		cancel()

		if err == nil {
			logger.CtxInfo(ctx, "Resolved asset via provider %s (resolution=%s)", p.Name(), media.Resolution)
			return media, nil
		}

		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = &domain.TimeoutError{Op: "resolve via " + p.Name(), Limit: c.timeout}
		}
		logger.CtxWarn(ctx, "Provider %s failed for asset %s: %v", p.Name(), assetID, err)
		reasons = append(reasons, fmt.Sprintf("%s: %v", p.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}

	return nil, &domain.ResolutionError{AssetID: assetID, Reasons: reasons}
}
