package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
)

type scriptedEmbedder struct {
	errs  []error
	calls int
}

func (s *scriptedEmbedder) next() error {
	var err error
	if s.calls < len(s.errs) {
		err = s.errs[s.calls]
	}
	s.calls++
	return err
}

func (s *scriptedEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if err := s.next(); err != nil {
		return nil, err
	}
	return []float32{1, 0}, nil
}

func (s *scriptedEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if err := s.next(); err != nil {
		return nil, err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (s *scriptedEmbedder) Dimensions() int { return 2 }

func (s *scriptedEmbedder) ModelName() string { return "scripted" }

func (s *scriptedEmbedder) Ping(_ context.Context) error { return nil }

func (s *scriptedEmbedder) Close() error { return nil }

func newWrapped(inner *scriptedEmbedder) (*EmbeddingService, *[]time.Duration) {
	svc := Wrap(inner, Config{
		RequestsPerMinute: 6000,
		MaxRetries:        3,
		BaseBackoff:       time.Second,
	})
	var slept []time.Duration
	svc.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return svc, &slept
}

func TestEmbed_PassesThrough(t *testing.T) {
	inner := &scriptedEmbedder{}
	svc, slept := newWrapped(inner)

	vec, err := svc.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, vec)
	assert.Equal(t, 1, inner.calls)
	assert.Empty(t, *slept)
}

func TestEmbed_RetriesOnRateLimit(t *testing.T) {
	inner := &scriptedEmbedder{errs: []error{
		domain.ErrRateLimited,
		domain.ErrRateLimited,
		nil,
	}}
	svc, slept := newWrapped(inner)

	vec, err := svc.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, vec)
	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *slept)
}

func TestEmbed_ExhaustsRetries(t *testing.T) {
	inner := &scriptedEmbedder{errs: []error{
		domain.ErrRateLimited,
		domain.ErrRateLimited,
		domain.ErrRateLimited,
		domain.ErrRateLimited,
	}}
	svc, _ := newWrapped(inner)

	_, err := svc.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, 4, inner.calls)
}

func TestEmbed_OtherErrorsNotRetried(t *testing.T) {
	boom := errors.New("boom")
	inner := &scriptedEmbedder{errs: []error{boom}}
	svc, slept := newWrapped(inner)

	_, err := svc.Embed(context.Background(), "hello")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, inner.calls)
	assert.Empty(t, *slept)
}

func TestEmbedBatch_RetriesOnRateLimit(t *testing.T) {
	inner := &scriptedEmbedder{errs: []error{domain.ErrRateLimited, nil}}
	svc, slept := newWrapped(inner)

	out, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []time.Duration{time.Second}, *slept)
}

func TestEmbed_SleepRespectsContext(t *testing.T) {
	inner := &scriptedEmbedder{errs: []error{domain.ErrRateLimited}}
	svc := Wrap(inner, Config{RequestsPerMinute: 6000})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.sleep = sleepContext

	_, err := svc.Embed(ctx, "hello")
	require.Error(t, err)
}

func TestWrap_Defaults(t *testing.T) {
	svc := Wrap(&scriptedEmbedder{}, Config{})
	assert.Equal(t, DefaultMaxRetries, svc.maxRetries)
	assert.Equal(t, DefaultBaseBackoff, svc.baseBackoff)
	assert.Equal(t, 2, svc.Dimensions())
	assert.Equal(t, "scripted", svc.ModelName())
}
