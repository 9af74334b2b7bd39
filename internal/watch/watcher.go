package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"invoiceparts/internal/logger"
)

var log = logger.GetLoggerWithPrefix("[WATCH]")

// DefaultExts are the document extensions the readers understand (lowercase, without '.').
var DefaultExts = map[string]struct{}{
	"pdf":  {},
	"txt":  {},
	"xlsx": {},
	"eml":  {},
	"html": {},
	"htm":  {},
}

type WatchConfig struct {
	Roots       []string // directories to watch (recursive)
	AllowedExts map[string]struct{}
	InitialScan bool          // emit files already present under Roots first
	Debounce    time.Duration // coalesce write bursts per file
}

// StartWatcher emits the paths of new or changed documents under cfg.Roots
// until ctx is done, then closes both channels.
func StartWatcher(ctx context.Context, cfg WatchConfig) (<-chan string, <-chan error, error) {
	if len(cfg.Roots) == 0 {
		return nil, nil, errors.New("no roots provided")
	}
	if cfg.AllowedExts == nil {
		cfg.AllowedExts = DefaultExts
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	var existing []string
	for _, root := range cfg.Roots {
		found, err := addTree(w, root, cfg.AllowedExts)
		if err != nil {
			_ = w.Close()
			return nil, nil, err
		}
		if cfg.InitialScan {
			existing = append(existing, found...)
		}
	}

	evCh := make(chan string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func() {
			if err := w.Close(); err != nil {
				log.Warningf("close watcher: %v", err)
			}
		}()

		emit := func(paths []string) bool {
			for _, p := range paths {
				select {
				case evCh <- p:
				case <-ctx.Done():
					return false
				}
			}
			return true
		}

		if !emit(existing) {
			return
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
			return emit(paths)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Has(fsnotify.Create) {
					if info, err := os.Stat(e.Name); err == nil && info.IsDir() {
						found, err := addTree(w, e.Name, cfg.AllowedExts)
						if err != nil {
							log.Warningf("watch new directory %s: %v", e.Name, err)
						}
						for _, p := range found {
							pending[p] = struct{}{}
						}
					}
				}
				if allowed(e.Name, cfg.AllowedExts) && (e.Has(fsnotify.Create) || e.Has(fsnotify.Write) || e.Has(fsnotify.Rename)) {
					pending[e.Name] = struct{}{}
				}
				if len(pending) == 0 {
					continue
				}
				if cfg.Debounce <= 0 {
					if !flush() {
						return
					}
					continue
				}
				if timer == nil {
					timer = time.NewTimer(cfg.Debounce)
				} else {
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
				log.Errorf("watcher error: %v", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}

// addTree watches root and every directory below it, returning the allowed
// files found on the way in lexical order.
func addTree(w *fsnotify.Watcher, root string, exts map[string]struct{}) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return w.Add(path)
		}
		if allowed(path, exts) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func allowed(path string, exts map[string]struct{}) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	_, ok := exts[ext]
	return ok
}
