// Package ratelimit wraps an embedding service with client-side rate
// limiting and retry on provider rate limit errors.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
	"github.com/tempora-labs/tempora-cli/internal/core/ports/driven"
	"github.com/tempora-labs/tempora-cli/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultRequestsPerMinute = 300
	DefaultMaxRetries        = 3
	DefaultBaseBackoff       = time.Second
)

// Config holds configuration for the rate limited embedding service.
type Config struct {
	// RequestsPerMinute caps outgoing requests (default: 300).
	RequestsPerMinute int

	// MaxRetries is the number of retries after a rate limit error
	// (default: 3).
	MaxRetries int

	// BaseBackoff is the initial retry delay, doubled per attempt
	// (default: 1s).
	BaseBackoff time.Duration
}

// EmbeddingService wraps another embedding service with a token bucket
// limiter and exponential backoff on domain.ErrRateLimited.
type EmbeddingService struct {
	inner       driven.EmbeddingService
	limiter     *rate.Limiter
	maxRetries  int
	baseBackoff time.Duration

	// sleep is replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Wrap creates a rate limited embedding service around inner.
func Wrap(inner driven.EmbeddingService, cfg Config) *EmbeddingService {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = DefaultBaseBackoff
	}

	perSecond := rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
	burst := cfg.RequestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}

	return &EmbeddingService{
		inner:       inner,
		limiter:     rate.NewLimiter(perSecond, burst),
		maxRetries:  cfg.MaxRetries,
		baseBackoff: cfg.BaseBackoff,
		sleep:       sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// do runs fn under the limiter, retrying on rate limit errors.
func (s *EmbeddingService) do(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := s.baseBackoff << (attempt - 1)
			logger.Warn("Rate limited, retrying in %v (attempt %d/%d)", backoff, attempt, s.maxRetries)
			if serr := s.sleep(ctx, backoff); serr != nil {
				return serr
			}
		}

		if werr := s.limiter.Wait(ctx); werr != nil {
			return fmt.Errorf("rate limiter: %w", werr)
		}

		err = fn()
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrRateLimited) {
			return err
		}
	}
	return fmt.Errorf("retries exhausted: %w", err)
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	var result []float32
	err := s.do(ctx, func() error {
		var ferr error
		result, ferr = s.inner.Embed(ctx, text)
		return ferr
	})
	return result, err
}

// EmbedBatch generates embeddings for multiple texts efficiently.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var result [][]float32
	err := s.do(ctx, func() error {
		var ferr error
		result, ferr = s.inner.EmbedBatch(ctx, texts)
		return ferr
	})
	return result, err
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping validates the wrapped service is reachable.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases resources of the wrapped service.
func (s *EmbeddingService) Close() error {
	return s.inner.Close()
}
