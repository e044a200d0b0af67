package library

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/csheth/lexdesk/internal/logging"
)

const reloadDebounce = 150 * time.Millisecond

// Watch reloads the catalog at path whenever it is written or replaced and
// hands each valid result to onChange. Invalid files are logged and skipped.
// It blocks until ctx is done.
func Watch(ctx context.Context, path string, logger *zap.Logger, onChange func(Catalog)) error {
	logger = logging.OrNop(logger)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Editors often replace the file, so watch the directory and filter by name.
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	timer := time.NewTimer(reloadDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				timer.Reset(reloadDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("catalog watcher error", zap.Error(err))
		case <-timer.C:
			cat, err := Load(abs)
			if err != nil {
				logger.Warn("catalog reload skipped", zap.String("path", abs), zap.Error(err))
				continue
			}
			logger.Info("catalog reloaded", zap.String("path", abs),
				zap.Int("sections", len(cat.Sections)), zap.Int("templates", len(cat.Templates)))
			onChange(cat)
		}
	}
}
