// Package csv normalises CSV and TSV documents into sentinel-wrapped
// markdown tables so downstream chunking keeps them atomic.
package csv

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
	"github.com/tempora-labs/tempora-cli/internal/core/ports/driven"
	"github.com/tempora-labs/tempora-cli/internal/logger"
	"github.com/tempora-labs/tempora-cli/internal/normalisers/tables"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles CSV and TSV documents.
type Normaliser struct{}

// New creates a new CSV normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/csv",
		"application/csv",
		"text/tab-separated-values",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Specific format, higher than plaintext
}

// Normalise parses the CSV and renders it as a single markdown table
// wrapped in [TABLE 1]...[END TABLE]. When the parsed data is not a
// usable table the raw text is kept so the document still indexes.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := renderContent(raw)

	doc := domain.Document{
		ID:        uuid.New().String(),
		URI:       raw.URI,
		Filename:  filenameOf(raw),
		Title:     extractTitle(raw.URI),
		Content:   content,
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "csv"

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

func renderContent(raw *domain.RawDocument) string {
	reader := csv.NewReader(bytes.NewReader(raw.Content))
	reader.Comma = delimiterFor(raw)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, padding happens later
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		logger.Warn("Failed to parse %s as CSV, keeping raw text: %v", filenameOf(raw), err)
		return string(raw.Content)
	}

	md := tables.ToMarkdown(records)
	if md == "" {
		return string(raw.Content)
	}
	return tables.Wrap(md, 1)
}

func delimiterFor(raw *domain.RawDocument) rune {
	if raw.MIMEType == "text/tab-separated-values" ||
		strings.EqualFold(filepath.Ext(filenameOf(raw)), ".tsv") {
		return '\t'
	}
	return ','
}

func filenameOf(raw *domain.RawDocument) string {
	if raw.Filename != "" {
		return raw.Filename
	}
	return filepath.Base(raw.URI)
}

// extractTitle extracts a human-readable title from a URI.
func extractTitle(uri string) string {
	filename := filepath.Base(uri)

	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}

	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
