package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
	"github.com/tessellate-labs/quill-cli/internal/logger"
)

var ingestWatch bool

// ingestExtensions are the file types treated as plain text.
var ingestExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [paths...]",
	Short: "Ingest text files into the document store",
	Long: `Reads plain-text files (.txt, .md), chunks and embeds them, and stores
the chunks in the vector index. Paths may be files, directories, or globs.
Directories are walked recursively.

With --watch, ingest keeps running and re-ingests files as they change.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "watch paths and re-ingest on change")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if storeService == nil {
		return errors.New("store service not configured")
	}

	files, err := resolveIngestPaths(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .txt or .md files matched %v", args)
	}

	ctx := cmd.Context()
	total := 0
	for _, path := range files {
		n, err := ingestFile(ctx, path)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
		cmd.Printf("Ingested %s (%d chunks)\n", path, n)
		total += n
	}
	cmd.Printf("Done: %d files, %d chunks.\n", len(files), total)

	if ingestWatch {
		return watchAndIngest(cmd, args)
	}
	return nil
}

// ingestFile reads one file and stores it, replacing any chunks a previous
// ingest of the same path produced. Returns the chunk count.
func ingestFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	if _, err := storeService.DeleteSource(ctx, path); err != nil {
		return 0, fmt.Errorf("replace previous chunks: %w", err)
	}

	doc := domain.Document{
		Content: string(data),
		Metadata: map[string]any{
			"source": path,
			"title":  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		},
	}

	ids, err := storeService.AddDocuments(ctx, []domain.Document{doc})
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// resolveIngestPaths expands globs and directories into a sorted,
// de-duplicated list of ingestable files.
func resolveIngestPaths(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	addFile := func(path string) {
		if !seen[path] && ingestExtensions[strings.ToLower(filepath.Ext(path))] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if matches == nil {
			return nil, fmt.Errorf("no such path: %s", arg)
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, err
			}
			if !info.IsDir() {
				addFile(match)
				continue
			}

			err = filepath.WalkDir(match, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() {
					addFile(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return files, nil
}

// watchAndIngest blocks, re-ingesting files on write events until
// interrupted. Directories given on the command line are watched
// directly; for file arguments the parent directory is watched because
// editors often replace files rather than write in place.
func watchAndIngest(cmd *cobra.Command, args []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		for _, match := range matches {
			dir := match
			if info, err := os.Stat(match); err == nil && !info.IsDir() {
				dir = filepath.Dir(match)
			}
			if !watched[dir] {
				if err := watcher.Add(dir); err != nil {
					return fmt.Errorf("watch %s: %w", dir, err)
				}
				watched[dir] = true
			}
		}
	}

	cmd.Println("Watching for changes (Ctrl+C to stop)...")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopped watching.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !ingestExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}

			n, err := ingestFile(ctx, event.Name)
			if err != nil {
				logger.Warn("Re-ingest %s: %v", event.Name, err)
				continue
			}
			cmd.Printf("Re-ingested %s (%d chunks)\n", event.Name, n)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}
