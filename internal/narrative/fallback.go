package narrative

import (
	"context"
	"errors"

	"go.uber.org/zap"

	domain "github.com/gmalickovski/vibraweb/internal/domain"
)

// FallbackSource consults primary and answers from secondary whenever primary fails or has no entry.
// Wrap only primary in a CachedSource so content served during an outage never outlives it.
type FallbackSource struct {
	primary   Source
	secondary Source
	logger    *zap.Logger
}

var _ Source = (*FallbackSource)(nil)

// NewFallbackSource chains primary and secondary. A nil logger discards outage warnings.
func NewFallbackSource(primary, secondary Source, logger *zap.Logger) *FallbackSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackSource{primary: primary, secondary: secondary, logger: logger}
}

// Lookup returns the primary's blocks, or the secondary's on any primary error.
func (s *FallbackSource) Lookup(ctx context.Context, label string, value int) ([]domain.NarrativeBlock, error) {
	blocks, err := s.primary.Lookup(ctx, label, value)
	if err == nil {
		return blocks, nil
	}
	if s.secondary == nil || ctx.Err() != nil {
		return nil, err
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.Warn("narrative primary lookup failed; using fallback",
			zap.String("label", label),
			zap.Int("value", value),
			zap.Error(err),
		)
	}
	return s.secondary.Lookup(ctx, label, value)
}

// Ping reports the primary's health; the secondary is expected to be local.
func (s *FallbackSource) Ping(ctx context.Context) error {
	return s.primary.Ping(ctx)
}
