package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Benny93/degrees-go/internal/ingestion"
	"github.com/Benny93/degrees-go/internal/storage"
)

// indexMeta is written to meta.json next to the snapshot.
type indexMeta struct {
	Version   string                `json:"version"`
	Source    string                `json:"source"`
	Stats     *ingestion.LoadResult `json:"stats"`
	IndexedAt string                `json:"indexed_at"`
}

// IndexCmd snapshots an edge list into BadgerDB.
type IndexCmd struct {
	File string `arg:"" help:"Edge-list file to index"`
}

// Run executes the index command.
func (c *IndexCmd) Run(app *App) error {
	ctx := context.Background()
	source, err := filepath.Abs(c.File)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	if !app.Quiet {
		app.success("Indexing %s", source)
	}

	dataDir := app.dataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", dataDir, err)
	}

	dbPath := filepath.Join(dataDir, "badger")
	store := storage.NewBadgerBackend()
	if err := store.Initialize(dbPath, false); err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	_, result, err := ingestion.LoadGraph(ctx, source, store, app.progress())
	if err != nil {
		return fmt.Errorf("indexing %s: %w", source, err)
	}

	if !app.Quiet {
		fmt.Fprintln(app.Err) // Newline after progress
	}

	meta := indexMeta{
		Version:   Version,
		Source:    source,
		Stats:     result,
		IndexedAt: time.Now().UTC().Format(time.RFC3339),
	}
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding meta.json: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "meta.json"), metaJSON, 0o644); err != nil {
		return fmt.Errorf("writing meta.json: %w", err)
	}

	app.success("✓ Indexing complete")
	fmt.Fprintf(app.Out, "  Lines:          %d\n", result.Lines)
	fmt.Fprintf(app.Out, "  Skipped:        %d\n", result.Skipped)
	fmt.Fprintf(app.Out, "  Nodes:          %d\n", result.Nodes)
	fmt.Fprintf(app.Out, "  Edges:          %d\n", result.UniqueEdges)
	fmt.Fprintf(app.Out, "  Duration:       %.2fs\n", result.DurationSecs)

	return nil
}

func readMeta(dataDir string) (*indexMeta, error) {
	metaBytes, err := os.ReadFile(filepath.Join(dataDir, "meta.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no index found at %s. Run 'degrees-go index <file>' first: %w",
				dataDir, storage.ErrNotIndexed)
		}
		return nil, fmt.Errorf("reading meta.json: %w", err)
	}

	var meta indexMeta
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, fmt.Errorf("parsing meta.json: %w", err)
	}
	return &meta, nil
}

// StatusCmd shows index status.
type StatusCmd struct{}

// Run executes the status command.
func (c *StatusCmd) Run(app *App) error {
	meta, err := readMeta(app.dataDir())
	if err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "Index status for %s\n", app.dataDir())
	fmt.Fprintf(app.Out, "  Version:        %s\n", meta.Version)
	fmt.Fprintf(app.Out, "  Source:         %s\n", meta.Source)
	fmt.Fprintf(app.Out, "  Last indexed:   %s\n", meta.IndexedAt)
	if meta.Stats != nil {
		fmt.Fprintf(app.Out, "  Nodes:          %d\n", meta.Stats.Nodes)
		fmt.Fprintf(app.Out, "  Edges:          %d\n", meta.Stats.UniqueEdges)
		fmt.Fprintf(app.Out, "  Skipped lines:  %d\n", meta.Stats.Skipped)
	}

	if info, err := os.Stat(meta.Source); err == nil {
		indexedAt, perr := time.Parse(time.RFC3339, meta.IndexedAt)
		if perr == nil && info.ModTime().Truncate(time.Second).After(indexedAt) {
			fmt.Fprintln(app.Out, "  Source changed since last index. Run 'degrees-go index' again.")
		}
	}

	return nil
}

// CleanCmd deletes the local index.
type CleanCmd struct {
	Force bool `short:"f" help:"Skip confirmation"`
}

// Run executes the clean command.
func (c *CleanCmd) Run(app *App) error {
	dataDir := app.dataDir()
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		return fmt.Errorf("no index found at %s. Nothing to clean: %w", dataDir, storage.ErrNotIndexed)
	}

	if !c.Force {
		fmt.Fprintf(app.Out, "Delete index at %s? [y/N] ", dataDir)
		response, err := bufio.NewReader(app.In).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading confirmation: %w", err)
		}
		response = strings.TrimSpace(response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(app.Out, "Aborted")
			return nil
		}
	}

	if err := os.RemoveAll(dataDir); err != nil {
		return fmt.Errorf("deleting index: %w", err)
	}

	app.success("Deleted %s", dataDir)
	return nil
}
