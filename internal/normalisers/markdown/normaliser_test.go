package markdown

import (
	"context"
	"strings"
	"testing"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
)

func TestNormalise_StripsFormatting(t *testing.T) {
	n := New()

	raw := &domain.RawDocument{
		URI:      "/docs/report.md",
		Filename: "report.md",
		MIMEType: "text/markdown",
		Content: []byte(`# Q3 Report

Revenue **grew** this quarter.

See [details](http://example.com/report).
`),
	}

	result, err := n.Normalise(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := result.Document
	if doc.Title != "Q3 Report" {
		t.Errorf("unexpected title: %q", doc.Title)
	}
	if strings.Contains(doc.Content, "**") {
		t.Errorf("bold markers not stripped: %q", doc.Content)
	}
	if strings.Contains(doc.Content, "# ") {
		t.Errorf("heading marker not stripped: %q", doc.Content)
	}
	if !strings.Contains(doc.Content, "Revenue grew this quarter.") {
		t.Errorf("prose missing: %q", doc.Content)
	}
	if !strings.Contains(doc.Content, "See details.") {
		t.Errorf("link text missing: %q", doc.Content)
	}
	if doc.Metadata["format"] != "markdown" {
		t.Errorf("expected format metadata, got %v", doc.Metadata)
	}
}

func TestNormalise_PipeTableBecomesSentinelBlock(t *testing.T) {
	n := New()

	raw := &domain.RawDocument{
		URI:      "/docs/q3.md",
		MIMEType: "text/markdown",
		Content: []byte(`# Q3 Report

Quarterly results below.

| Quarter | Revenue |
| ------- | ------- |
| Q3 2024 | $7M |

Numbers are unaudited.
`),
	}

	result, err := n.Normalise(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content := result.Document.Content
	if !strings.Contains(content, "[TABLE 1]\n| Quarter | Revenue |") {
		t.Errorf("table not wrapped in sentinel block:\n%s", content)
	}
	if !strings.Contains(content, "| Q3 2024 | $7M     |") {
		t.Errorf("data row not re-aligned:\n%s", content)
	}
	if !strings.Contains(content, "[END TABLE]") {
		t.Errorf("missing close marker:\n%s", content)
	}
	if strings.Contains(content, "-------") == false {
		t.Errorf("separator row missing inside table block:\n%s", content)
	}
	if !strings.Contains(content, "Numbers are unaudited.") {
		t.Errorf("prose after table missing:\n%s", content)
	}
}

func TestNormalise_TablesNumberedSequentially(t *testing.T) {
	n := New()

	raw := &domain.RawDocument{
		URI:      "/docs/two.md",
		MIMEType: "text/markdown",
		Content: []byte(`| A | B |
| - | - |
| 1 | 2 |

Middle text.

| C | D |
| - | - |
| 3 | 4 |
`),
	}

	result, err := n.Normalise(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content := result.Document.Content
	if !strings.Contains(content, "[TABLE 1]") || !strings.Contains(content, "[TABLE 2]") {
		t.Errorf("expected two numbered tables:\n%s", content)
	}
	if strings.Count(content, "[END TABLE]") != 2 {
		t.Errorf("expected two close markers:\n%s", content)
	}
}

func TestNormalise_InvalidTableKeptAsProse(t *testing.T) {
	n := New()

	// Single column, rejected by table validation.
	raw := &domain.RawDocument{
		URI:      "/docs/list.md",
		MIMEType: "text/markdown",
		Content:  []byte("|one|\n|two|\n"),
	}

	result, err := n.Normalise(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content := result.Document.Content
	if strings.Contains(content, "[TABLE") {
		t.Errorf("single-column rows should not become a table:\n%s", content)
	}
	if !strings.Contains(content, "one") {
		t.Errorf("rejected table lines should survive as prose:\n%s", content)
	}
}

func TestNormalise_TitleFromFilenameWhenNoHeading(t *testing.T) {
	n := New()

	raw := &domain.RawDocument{
		URI:      "/docs/q3_2024_summary.md",
		MIMEType: "text/markdown",
		Content:  []byte("Plain text only.\n"),
	}

	result, err := n.Normalise(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Document.Title != "q3 2024 summary" {
		t.Errorf("unexpected title: %q", result.Document.Title)
	}
}

func TestNormalise_NilInput(t *testing.T) {
	n := New()
	if _, err := n.Normalise(context.Background(), nil); err == nil {
		t.Error("expected error for nil input")
	}
}
