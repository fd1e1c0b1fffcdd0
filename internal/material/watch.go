package material

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchFile calls onChange after path is written, created or replaced,
// until ctx is cancelled. The parent directory is watched so that editors
// which save by rename are seen too. Bursts are coalesced.
func WatchFile(ctx context.Context, path string, logger *slog.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	logger.Info("material watcher: started", slog.String("path", abs))

	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("material watcher: stopped")
			return nil

		case <-fire:
			fire = nil
			onChange()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(200 * time.Millisecond)
			} else {
				debounce.Reset(200 * time.Millisecond)
			}
			fire = debounce.C

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("material watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// Reloader rebuilds tables from disk and swaps them into c.
func Reloader(c *Canonicalizer, mappingPath, overridesPath string, logger *slog.Logger) func() {
	return func() {
		t, err := LoadTables(mappingPath, overridesPath)
		if err != nil {
			logger.Warn("material: reload failed", slog.String("error", err.Error()))
			return
		}
		c.Swap(t)
		logger.Info("material: tables reloaded", slog.Int("external", len(t.External)))
	}
}
