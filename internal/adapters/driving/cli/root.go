// Package cli implements the tempora command line interface.
// It is a driving adapter: commands translate flags and arguments into
// calls on the core services.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tempora-labs/tempora-cli/internal/adapters/driven/config/file"
	"github.com/tempora-labs/tempora-cli/internal/adapters/driven/embedding/ollama"
	"github.com/tempora-labs/tempora-cli/internal/adapters/driven/embedding/openai"
	"github.com/tempora-labs/tempora-cli/internal/adapters/driven/embedding/ratelimit"
	"github.com/tempora-labs/tempora-cli/internal/adapters/driven/storage/sqlite"
	"github.com/tempora-labs/tempora-cli/internal/adapters/driven/vector/chromem"
	"github.com/tempora-labs/tempora-cli/internal/core/ports/driven"
	"github.com/tempora-labs/tempora-cli/internal/core/ports/driving"
	"github.com/tempora-labs/tempora-cli/internal/core/services"
	"github.com/tempora-labs/tempora-cli/internal/logger"
	"github.com/tempora-labs/tempora-cli/internal/normalisers"
	"github.com/tempora-labs/tempora-cli/internal/postprocessors"
	"github.com/tempora-labs/tempora-cli/internal/temporal"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

// Services are package-level so tests can inject fakes. Production
// wiring happens lazily in initServices on first command use.
var (
	ingestService driving.IngestService
	queryService  driving.QueryService
)

var rootCmd = &cobra.Command{
	Use:   "tempora",
	Short: "Temporal-aware document retrieval",
	Long: `Tempora ingests documents, enriches their chunks with temporal
context and answers queries with date-filtered, citation-annotated
results.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// initServices wires the production dependency graph. It is a no-op
// when services are already configured.
func initServices() error {
	if ingestService != nil && queryService != nil {
		return nil
	}

	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dataDir := cfg.GetString("storage.data_dir")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".tempora", "data")
	}

	docStore, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}

	vectorIndex, err := chromem.NewIndex(filepath.Join(dataDir, "vectors"))
	if err != nil {
		return fmt.Errorf("open vector index: %w", err)
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("configure embedder: %w", err)
	}

	pipeline, extractor, err := buildPipeline(cfg)
	if err != nil {
		return fmt.Errorf("configure pipeline: %w", err)
	}

	ingestService = services.NewIngestService(
		normalisers.Defaults(),
		pipeline,
		embedder,
		docStore,
		vectorIndex,
		services.WithIngestExtractor(extractor),
	)
	queryService = services.NewQueryService(docStore, vectorIndex, embedder,
		services.WithQueryExtractor(extractor))
	return nil
}

// buildPipeline assembles the post-processing pipeline from config,
// constructing each processor through the registry. The returned
// extractor carries the configured date order so filename parsing at
// ingest and date parsing at query time agree with chunk enrichment.
func buildPipeline(cfg driven.ConfigStore) (*postprocessors.Pipeline, *temporal.Extractor, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	chunkCfg := map[string]any{}
	if v, ok := cfg.Get("chunker.chunk_size"); ok {
		chunkCfg["chunk_size"] = v
	}
	if v, ok := cfg.Get("chunker.overlap"); ok {
		chunkCfg["overlap"] = v
	}

	enhanceCfg := map[string]any{}
	order := temporal.DateOrderMDY
	if v := cfg.GetString("temporal.date_order"); v != "" {
		enhanceCfg["date_order"] = v
		if v == "dmy" {
			order = temporal.DateOrderDMY
		}
	}

	chunkProc, err := registry.Build("chunker", chunkCfg)
	if err != nil {
		return nil, nil, err
	}
	enhanceProc, err := registry.Build("temporal", enhanceCfg)
	if err != nil {
		return nil, nil, err
	}

	return postprocessors.NewPipeline(chunkProc, enhanceProc),
		temporal.New(temporal.WithDateOrder(order)), nil
}

// buildEmbedder selects the embedding provider from config and wraps
// it with client-side rate limiting.
func buildEmbedder(cfg *file.ConfigStore) (driven.EmbeddingService, error) {
	var inner driven.EmbeddingService

	switch provider := cfg.GetString("embedding.provider"); provider {
	case "openai":
		apiKey := cfg.GetString("embedding.api_key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		svc, err := openai.NewEmbeddingService(openai.Config{
			APIKey:  apiKey,
			BaseURL: cfg.GetString("embedding.base_url"),
			Model:   cfg.GetString("embedding.model"),
		})
		if err != nil {
			return nil, err
		}
		inner = svc
	case "", "ollama":
		inner = ollama.NewEmbeddingService(ollama.Config{
			BaseURL: cfg.GetString("embedding.base_url"),
			Model:   cfg.GetString("embedding.model"),
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", provider)
	}

	return ratelimit.Wrap(inner, ratelimit.Config{
		RequestsPerMinute: cfg.GetInt("embedding.requests_per_minute"),
	}), nil
}
