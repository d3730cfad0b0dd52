package ingestion

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period used when WatchFile is given none.
const DefaultDebounce = 500 * time.Millisecond

// WatchFile monitors the edge list at path and calls onChange once per burst
// of writes, creates or renames. Blocks until the context is cancelled.
//
// The parent directory is watched rather than the file itself so editors that
// replace the file through a rename keep triggering events.
func WatchFile(
	ctx context.Context,
	path string,
	debounce time.Duration,
	logger *zap.Logger,
	onChange func(context.Context),
) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("setting up watcher: %w", err)
	}

	batchTimer := time.NewTimer(debounce)
	batchTimer.Stop()
	pending := false

	logger.Info("watching edge list", zap.String("path", absPath), zap.Duration("debounce", debounce))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevantEvent(event, absPath) {
				continue
			}
			pending = true
			batchTimer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))

		case <-batchTimer.C:
			if !pending {
				continue
			}
			pending = false
			logger.Debug("edge list changed", zap.String("path", absPath))
			onChange(ctx)
		}
	}
}

// isRelevantEvent reports whether event modifies the watched file.
func isRelevantEvent(event fsnotify.Event, absPath string) bool {
	if filepath.Clean(event.Name) != absPath {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
