package postprocessors

import (
	"github.com/tempora-labs/tempora-cli/internal/core/ports/driven"
	"github.com/tempora-labs/tempora-cli/internal/postprocessors/chunker"
	"github.com/tempora-labs/tempora-cli/internal/postprocessors/enhancer"
	"github.com/tempora-labs/tempora-cli/internal/temporal"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
	r.Register("temporal", buildEnhancer)
}

// DefaultPipeline assembles the standard chunk-then-enhance pipeline.
func DefaultPipeline() *Pipeline {
	return NewPipeline(chunker.New(), enhancer.New())
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 1000)
//   - overlap (int): Overlapping characters between chunks (default: 200)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, chunker.WithChunkSize(size))
		}
		if _, ok := cfg["overlap"]; ok {
			if overlap := getIntFromConfig(cfg, "overlap"); overlap >= 0 {
				opts = append(opts, chunker.WithOverlap(overlap))
			}
		}
	}

	return chunker.New(opts...), nil
}

// buildEnhancer creates a temporal enhancement processor from generic config.
// Supported config keys:
//   - date_order (string): "mdy" (default) or "dmy" for numeric dates
func buildEnhancer(cfg map[string]any) (driven.PostProcessor, error) {
	order := temporal.DateOrderMDY
	if cfg != nil {
		if v, ok := cfg["date_order"].(string); ok && v == "dmy" {
			order = temporal.DateOrderDMY
		}
	}
	return enhancer.New(enhancer.WithExtractor(temporal.New(temporal.WithDateOrder(order)))), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
