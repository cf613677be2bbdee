package domain

// RawDocument represents opaque bytes handed to the ingest pipeline.
// It is the input to normalisation.
type RawDocument struct {
	// URI is the original location (file path, URL, etc).
	URI string

	// Filename is the base name, used for date extraction.
	Filename string

	// MIMEType is the content type (e.g., "text/markdown").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// DocumentDate is an explicit caller-supplied date. When set it
	// wins over any date extracted from the filename.
	DocumentDate string

	// Metadata contains caller-supplied key-value pairs.
	Metadata map[string]any
}
