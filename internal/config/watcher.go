package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher observes the config and agents manifest files. The registry
// and rule set are immutable per process, so the watcher never hot
// reloads; it logs a restart-required advisory when either file changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	paths    map[string]bool
	onChange func(path string)
	logger   zerolog.Logger
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher for the given files.
func NewWatcher(logger zerolog.Logger, paths ...string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	tracked := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p != "" {
			tracked[filepath.Clean(p)] = true
		}
	}

	return &Watcher{
		watcher: fsWatcher,
		paths:   tracked,
		logger:  logger.With().Str("component", "config-watcher").Logger(),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching. Files that do not exist yet are picked up via
// their parent directory.
func (w *Watcher) Start() error {
	dirs := make(map[string]bool)
	for p := range w.paths {
		dirs[filepath.Dir(p)] = true
	}

	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	go w.eventLoop()

	w.logger.Info().Int("files", len(w.paths)).Msg("Config watcher started")
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.watcher.Close()
	})
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.paths[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			w.logger.Warn().
				Str("path", event.Name).
				Str("op", event.Op.String()).
				Msg("Configuration changed on disk; restart to apply")

			if w.onChange != nil {
				w.onChange(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("Config watcher error")
		}
	}
}
