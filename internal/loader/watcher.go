package loader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mabhi256/tokgraph/internal/tokens"
)

// DefaultDebounce is how long Watch waits for writes to settle
const DefaultDebounce = 150 * time.Millisecond

// ChangeHandler receives the reloaded tree, or the error that stopped it
// from loading
type ChangeHandler func(tree *tokens.Tree, err error)

// Watch reloads the token file at path whenever it changes and hands the
// result to onChange. The file's directory is watched rather than the file
// itself because editors often save by replacing the file. Bursts of events
// closer together than debounce trigger a single reload.
//
// Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger, onChange ChangeHandler) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	logger.Debug("watching token file", "path", target, "debounce", debounce)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !isContentChange(event.Op) {
				continue
			}
			logger.Debug("token file changed", "path", event.Name, "op", event.Op.String())

			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounce)
			pending = true

		case <-timer.C:
			pending = false
			tree, err := Load(target)
			if err != nil {
				logger.Warn("reload failed", "path", target, "error", err)
			} else {
				logger.Info("token file reloaded", "path", target)
			}
			onChange(tree, err)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("file watcher error", "error", err)
		}
	}
}

func isContentChange(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
