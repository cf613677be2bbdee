package cli

import (
	"bytes"
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	storagemem "github.com/tempora-labs/tempora-cli/internal/adapters/driven/storage/memory"
	vectormem "github.com/tempora-labs/tempora-cli/internal/adapters/driven/vector/memory"
	"github.com/tempora-labs/tempora-cli/internal/core/services"
	"github.com/tempora-labs/tempora-cli/internal/normalisers"
	"github.com/tempora-labs/tempora-cli/internal/postprocessors"
)

// stubEmbedder returns a constant vector so tests never need a real
// embedding backend.
type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (stubEmbedder) Dimensions() int { return 2 }

func (stubEmbedder) ModelName() string { return "stub" }

func (stubEmbedder) Ping(_ context.Context) error { return nil }

func (stubEmbedder) Close() error { return nil }

// setupTestServices wires the commands to in-memory implementations.
// The returned cleanup restores the previous services.
func setupTestServices() func() {
	oldIngest := ingestService
	oldQuery := queryService

	docStore := storagemem.NewDocumentStore()
	vectorIndex := vectormem.NewIndex()
	embedder := stubEmbedder{}

	ingestService = services.NewIngestService(
		normalisers.Defaults(),
		postprocessors.DefaultPipeline(),
		embedder,
		docStore,
		vectorIndex,
	)
	queryService = services.NewQueryService(docStore, vectorIndex, embedder)

	return func() {
		ingestService = oldIngest
		queryService = oldQuery
	}
}

// execute runs the root command with args and captures its output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	resetFlagState(rootCmd)
	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlagState clears the Changed marker on every flag so that flag
// state from a previous execute call does not leak into the next one.
func resetFlagState(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	for _, sub := range cmd.Commands() {
		resetFlagState(sub)
	}
}
