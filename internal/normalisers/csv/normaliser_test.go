package csv

import (
	"context"
	"strings"
	"testing"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
)

func TestNormalise(t *testing.T) {
	n := New()

	raw := &domain.RawDocument{
		URI:      "/data/revenue_2024.csv",
		Filename: "revenue_2024.csv",
		MIMEType: "text/csv",
		Content:  []byte("Quarter,Revenue\nQ1 2024,$5M\nQ2 2024,$6M\n"),
	}

	result, err := n.Normalise(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := result.Document
	if !strings.HasPrefix(doc.Content, "[TABLE 1]\n| Quarter | Revenue |") {
		t.Errorf("expected sentinel-wrapped table:\n%s", doc.Content)
	}
	if !strings.HasSuffix(doc.Content, "[END TABLE]") {
		t.Errorf("missing close marker:\n%s", doc.Content)
	}
	if !strings.Contains(doc.Content, "| Q1 2024 | $5M     |") {
		t.Errorf("data row missing or misaligned:\n%s", doc.Content)
	}
	if doc.Title != "revenue 2024" {
		t.Errorf("unexpected title: %q", doc.Title)
	}
	if doc.Metadata["format"] != "csv" {
		t.Errorf("expected format metadata, got %v", doc.Metadata)
	}
}

func TestNormalise_TSV(t *testing.T) {
	n := New()

	raw := &domain.RawDocument{
		URI:      "/data/metrics.tsv",
		Filename: "metrics.tsv",
		MIMEType: "text/tab-separated-values",
		Content:  []byte("Name\tValue\nUsers\t120\n"),
	}

	result, err := n.Normalise(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Document.Content, "| Users | 120   |") {
		t.Errorf("tab-delimited data not parsed:\n%s", result.Document.Content)
	}
}

func TestNormalise_InvalidTableKeepsRawText(t *testing.T) {
	n := New()

	// Single column is below the table validity threshold.
	raw := &domain.RawDocument{
		URI:      "/data/names.csv",
		MIMEType: "text/csv",
		Content:  []byte("alice\nbob\n"),
	}

	result, err := n.Normalise(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := result.Document.Content
	if strings.Contains(content, "[TABLE") {
		t.Errorf("single column should not become a table:\n%s", content)
	}
	if content != "alice\nbob\n" {
		t.Errorf("expected raw text fallback, got %q", content)
	}
}

func TestNormalise_NilInput(t *testing.T) {
	n := New()
	if _, err := n.Normalise(context.Background(), nil); err == nil {
		t.Error("expected error for nil input")
	}
}
