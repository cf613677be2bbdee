package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
	"github.com/tempora-labs/tempora-cli/internal/core/ports/driven"
)

type stubNormaliser struct {
	mimeTypes []string
	priority  int
	name      string
}

func (s *stubNormaliser) SupportedMIMETypes() []string { return s.mimeTypes }

func (s *stubNormaliser) Priority() int { return s.priority }

func (s *stubNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	return &driven.NormaliseResult{
		Document: domain.Document{
			ID:      s.name,
			Content: string(raw.Content),
		},
	}, nil
}

func TestRegistry_DispatchesByMIMEType(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 5, name: "plain"})
	r.Register(&stubNormaliser{mimeTypes: []string{"text/markdown"}, priority: 50, name: "md"})

	result, err := r.Normalise(context.Background(), &domain.RawDocument{
		MIMEType: "text/markdown",
		Content:  []byte("# Title"),
	})
	require.NoError(t, err)
	assert.Equal(t, "md", result.Document.ID)
}

func TestRegistry_HigherPriorityWins(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 5, name: "fallback"})
	r.Register(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 50, name: "specific"})

	result, err := r.Normalise(context.Background(), &domain.RawDocument{
		MIMEType: "text/plain",
		Content:  []byte("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "specific", result.Document.ID)
}

func TestRegistry_UnsupportedType(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 5})

	_, err := r.Normalise(context.Background(), &domain.RawDocument{
		MIMEType: "application/octet-stream",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_NilInput(t *testing.T) {
	r := NewRegistry()

	_, err := r.Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_SupportedMIMETypes_Deduplicates(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{mimeTypes: []string{"text/plain", "text/html"}, priority: 5})
	r.Register(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 50})

	types := r.SupportedMIMETypes()
	assert.ElementsMatch(t, []string{"text/plain", "text/html"}, types)
}

func TestDefaults_CoversBuiltinFormats(t *testing.T) {
	r := Defaults()

	types := r.SupportedMIMETypes()
	assert.Contains(t, types, "text/plain")
	assert.Contains(t, types, "text/markdown")
	assert.Contains(t, types, "text/csv")
}
