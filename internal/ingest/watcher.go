package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/joseph-ayodele/docsense/constants"
)

type WatchConfig struct {
	Roots       []string // directories to watch (recursive)
	AllowedExts map[string]struct{}
	InitialScan bool          // if true, walk roots and emit existing files
	Debounce    time.Duration // coalesce rapid update/rename bursts
	SkipHidden  bool
}

// StartWatcher emits the paths of OCR outputs that appear or change under the
// roots. A change to a "<name>.tables.html" sidecar emits its document. Both
// channels close when ctx is done.
func StartWatcher(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		logger.Error("watcher.start.failed", "err", "no roots provided")
		return nil, nil, errors.New("no roots provided")
	}
	if cfg.AllowedExts == nil {
		cfg.AllowedExts = constants.AllowedExtensions
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("watcher.create.failed", "err", err)
		return nil, nil, err
	}

	var initial []string
	addDir := func(root string) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if cfg.SkipHidden && path != root && IsHidden(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if cfg.InitialScan && allowed(path, cfg.AllowedExts) {
				initial = append(initial, path)
			}
			return nil
		})
	}
	for _, r := range cfg.Roots {
		if err := addDir(r); err != nil {
			logger.Error("watcher.root.failed", "root", r, "err", err)
			_ = w.Close()
			return nil, nil, err
		}
	}

	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("watcher.close.failed", "err", err)
			}
		}()

		emit := func(path string) bool {
			select {
			case evCh <- path:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for _, p := range initial {
			if !emit(p) {
				return
			}
		}

		pending := map[string]struct{}{}
		var timer *time.Timer
		var timerC <-chan time.Time

		flush := func() bool {
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			for _, p := range paths {
				if !emit(p) {
					return false
				}
			}
			return true
		}

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Op&fsnotify.Create == fsnotify.Create {
					tryAddDir(w, e.Name, logger)
				}
				if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				if cfg.SkipHidden && IsHidden(e.Name) {
					continue
				}

				target := ""
				switch {
				case IsTablesSidecar(e.Name):
					target = DocumentPathFor(e.Name)
				case allowed(e.Name, cfg.AllowedExts):
					target = e.Name
				}
				if target == "" {
					continue
				}

				pending[target] = struct{}{}
				if cfg.Debounce <= 0 {
					if !flush() {
						return
					}
					continue
				}
				if timer == nil {
					timer = time.NewTimer(cfg.Debounce)
				} else {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(cfg.Debounce)
				}
				timerC = timer.C
			case <-timerC:
				timerC = nil
				if !flush() {
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher.error", "err", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}

func allowed(path string, exts map[string]struct{}) bool {
	ext := constants.NormalizeExt(filepath.Ext(path))
	_, ok := exts[ext]
	return ok
}

// tryAddDir watches newly created directories; anything else is ignored.
func tryAddDir(w *fsnotify.Watcher, path string, logger *slog.Logger) {
	st, err := os.Stat(path)
	if err != nil || !st.IsDir() {
		return
	}
	if err := w.Add(path); err != nil {
		logger.Warn("watcher.add.failed", "path", path, "err", err)
	}
}
