package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
	"github.com/tempora-labs/tempora-cli/internal/logger"
)

var (
	ingestDate  string
	ingestWatch bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [paths...]",
	Short: "Ingest documents into the index",
	Long: `Reads the given files, normalises them, splits them into chunks
with temporal context and indexes them for retrieval. Directories are
ingested recursively.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDate, "date", "", "explicit document date (overrides filename extraction)")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep watching the paths and re-ingest on change")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		if err := initServices(); err != nil {
			return err
		}
	}

	ctx := context.Background()

	for _, path := range args {
		if err := ingestPath(ctx, cmd, path); err != nil {
			return err
		}
	}

	if ingestWatch {
		return watchPaths(cmd, args)
	}
	return nil
}

// ingestPath ingests a file, or every regular file under a directory.
func ingestPath(ctx context.Context, cmd *cobra.Command, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		return ingestFile(ctx, cmd, path)
	}

	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		return ingestFile(ctx, cmd, p)
	})
}

func ingestFile(ctx context.Context, cmd *cobra.Command, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	raw := &domain.RawDocument{
		URI:          path,
		Filename:     filepath.Base(path),
		MIMEType:     mimeTypeFor(path),
		Content:      content,
		DocumentDate: ingestDate,
	}

	doc, err := ingestService.Ingest(ctx, raw)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", path, err)
	}

	cmd.Printf("Ingested %s (%s)\n", doc.Filename, doc.ID)
	if date, ok := doc.Metadata["document_date"].(string); ok {
		cmd.Printf("  Document date: %s\n", date)
	}
	return nil
}

// watchPaths re-ingests files on create and write events until the
// process is interrupted.
func watchPaths(cmd *cobra.Command, paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Println("Watching for changes. Press Ctrl+C to stop.")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
				continue
			}
			if err := ingestFile(ctx, cmd, event.Name); err != nil {
				logger.Warn("Re-ingest failed for %s: %v", event.Name, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// mimeTypeFor maps a file extension to the MIME type used for
// normaliser dispatch.
func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return "text/markdown"
	case ".csv":
		return "text/csv"
	case ".tsv":
		return "text/tab-separated-values"
	case ".html", ".htm":
		return "text/html"
	case ".json":
		return "application/json"
	default:
		return "text/plain"
	}
}
