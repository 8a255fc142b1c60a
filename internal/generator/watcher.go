package generator

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/typegen/internal/artifact"
)

// DefaultDebounce is used when Watch is given a non-positive debounce.
const DefaultDebounce = 200 * time.Millisecond

// RunCallback is called after every watcher-driven pass, with either a
// report or the error that aborted the pass.
type RunCallback func(report *Report, err error)

// Watch starts an fsnotify watcher on the artifact root and regenerates
// after changes settle for debounce, until ctx is cancelled. A failed pass
// is logged and reported to cb; watching continues.
//
// New directories created at runtime are automatically added to the watch
// list.
func (g *Generator) Watch(ctx context.Context, root string, debounce time.Duration, cb RunCallback) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	g.logger.Info("watcher: started", slog.String("root", root), slog.Duration("debounce", debounce))

	// timer debounces bursts of events, e.g. a compiler rewriting every artifact.
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			g.logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			report, err := g.Generate(ctx, false)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				g.logger.Error("watcher: generation failed", slog.String("error", err.Error()))
			}
			if cb != nil {
				cb(report, err)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			// New directories are watched and may already hold artifacts.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						g.logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						g.logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
					schedule()
					continue
				}
			}

			if !relevant(ev) {
				continue
			}
			g.logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			g.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// relevant reports whether ev can change the artifact set. A removed or
// renamed directory carries no extension and may have held artifacts.
func relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if artifact.IsArtifact(ev.Name) {
		return true
	}
	return ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && filepath.Ext(ev.Name) == ""
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
