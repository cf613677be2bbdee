package enhancer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
)

func TestProcess_PrependsTemporalContext(t *testing.T) {
	p := New()

	doc := &domain.Document{
		ID:       "doc1",
		Metadata: map[string]any{"document_date": "2024-08-27"},
	}
	chunks := []domain.Chunk{
		{ID: "c1", Content: "Revenue grew in Q3 2024."},
	}

	out, err := p.Process(context.Background(), doc, chunks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content := out[0].Content
	if !strings.HasPrefix(content, "[TEMPORAL_CONTEXT: ") {
		t.Fatalf("expected temporal context prefix:\n%s", content)
	}
	if !strings.Contains(content, "Document Date: 2024-08-27") {
		t.Errorf("expected document date in prefix:\n%s", content)
	}
	if !strings.Contains(content, "Fiscal Quarters: Q3 2024") {
		t.Errorf("expected quarter entity in prefix:\n%s", content)
	}
	if !strings.HasSuffix(content, "\nRevenue grew in Q3 2024.") {
		t.Errorf("original chunk text must follow the prefix:\n%s", content)
	}
}

func TestProcess_DocumentDateReachesEveryChunk(t *testing.T) {
	p := New()

	doc := &domain.Document{
		ID:       "doc1",
		Metadata: map[string]any{"document_date": "2024-08-27"},
	}
	chunks := []domain.Chunk{
		{ID: "c1", Content: "No dates in this text at all."},
		{ID: "c2", Content: "Nothing temporal here either."},
	}

	out, err := p.Process(context.Background(), doc, chunks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range out {
		if !strings.Contains(c.Content, "Document Date: 2024-08-27") {
			t.Errorf("chunk %s missing document date: %q", c.ID, c.Content)
		}
	}
}

func TestProcess_NoSignalPassesThrough(t *testing.T) {
	p := New()

	doc := &domain.Document{ID: "doc1"}
	chunks := []domain.Chunk{{ID: "c1", Content: "Plain text with no temporal anything."}}

	out, err := p.Process(context.Background(), doc, chunks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].Content != "Plain text with no temporal anything." {
		t.Errorf("content should be unchanged: %q", out[0].Content)
	}
}

func TestProcess_CreatedAtUsedWhenSet(t *testing.T) {
	p := New()

	doc := &domain.Document{
		ID:        "doc1",
		CreatedAt: time.Date(2025, 1, 7, 10, 0, 0, 0, time.UTC),
	}
	chunks := []domain.Chunk{{ID: "c1", Content: "No inline dates."}}

	out, err := p.Process(context.Background(), doc, chunks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out[0].Content, "Created: 2025-01-07") {
		t.Errorf("expected created date in prefix: %q", out[0].Content)
	}
}

func TestName(t *testing.T) {
	if New().Name() != "temporal" {
		t.Errorf("unexpected name: %q", New().Name())
	}
}
