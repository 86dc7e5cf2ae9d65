package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"cursorvip/internal/logging"
)

const watchedOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Watch invalidates the cache whenever config.ini changes on disk and then
// calls onChange, which may be nil. It blocks until ctx is cancelled or the
// watcher fails.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	dir, err := s.Dir()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory; atomic writes replace the file and would drop a
	// watch placed on the file itself.
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	s.logger.Debug("watching config directory", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != FileName || event.Op&watchedOps == 0 {
				continue
			}
			s.logger.Debug("config file changed", "op", event.Op.String())
			s.Invalidate()
			if onChange != nil {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("config watcher error", logging.Error(err))
		}
	}
}
