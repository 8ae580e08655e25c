package capacity

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads a capacity file into a Static provider when it changes
// on disk. Change events are debounced to avoid reload storms from editors
// that write in multiple syscalls, and a file that fails to parse leaves the
// previous table in place.
type Watcher struct {
	path     string
	provider *Static
	debounce time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
}

// NewWatcher creates a watcher that reloads path into provider.
func NewWatcher(path string, provider *Static, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	// Watch the directory rather than the file itself: atomic-rename saves
	// replace the inode and would silently detach a file watch.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", filepath.Dir(path), err)
	}

	return &Watcher{
		path:     path,
		provider: provider,
		debounce: 100 * time.Millisecond,
		logger:   logger.With("component", "capacity.watcher"),
		watcher:  fw,
	}, nil
}

// Watch blocks, reloading the capacity file on change, until ctx is
// cancelled.
func (w *Watcher) Watch(ctx context.Context) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	table, err := LoadTable(w.path)
	if err != nil {
		w.logger.Error("capacity reload failed, keeping previous table",
			"path", w.path,
			"error", err,
		)
		return
	}

	w.provider.Replace(table)
	w.logger.Info("capacity table reloaded",
		"path", w.path,
		"tenants", len(table.Tenants),
		"users", len(table.Users),
		"paths", len(table.Paths),
	)
}
