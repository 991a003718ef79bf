// Package watch turns filesystem activity in the watched roots into a
// debounced signal the daemon can use to start a scan cycle early.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"cubby/internal/logging"
	"cubby/internal/services"
)

// Watcher monitors the watched roots and emits one debounced trigger after a
// burst of filesystem activity settles. The trigger channel holds at most one
// pending signal; a consumer mid-cycle collapses further bursts into a single
// follow-up.
type Watcher struct {
	roots    []string
	debounce time.Duration
	logger   *slog.Logger

	trigger chan struct{}

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	fs      *fsnotify.Watcher
	wg      sync.WaitGroup
}

// New builds a watcher over the given roots. A non-positive debounce falls
// back to two seconds.
func New(roots []string, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Watcher{
		roots:    roots,
		debounce: debounce,
		logger:   logging.NewComponentLogger(logger, "watch"),
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger returns the channel that receives a signal once changes settle.
func (w *Watcher) Trigger() <-chan struct{} { return w.trigger }

// Start begins watching. Roots that cannot be watched are logged and skipped;
// Start fails only when no root is watchable at all.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return errors.New("watcher already running")
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return services.Wrap(services.ErrTransient, "watch", "start", "filesystem watcher unavailable", err)
	}

	watched := 0
	for _, root := range w.roots {
		if err := fs.Add(root); err != nil {
			w.logger.Warn("cannot watch root",
				logging.String(logging.FieldRoot, root),
				logging.Error(err))
			continue
		}
		watched++
	}
	if watched == 0 {
		_ = fs.Close()
		return services.Wrap(services.ErrTransient, "watch", "start", "no watchable roots", nil)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.fs = fs
	w.cancel = cancel
	w.running = true

	w.wg.Add(1)
	go w.loop(runCtx, fs)

	w.logger.Info("watch mode active",
		logging.Int("roots", watched),
		logging.Duration("debounce", w.debounce))
	return nil
}

// Stop shuts the watcher down and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	fs := w.fs
	w.running = false
	w.cancel = nil
	w.fs = nil
	w.mu.Unlock()

	cancel()
	w.wg.Wait()
	_ = fs.Close()
}

func (w *Watcher) loop(ctx context.Context, fs *fsnotify.Watcher) {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fs.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			w.fire()
		case err, ok := <-fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", logging.Error(err))
		}
	}
}

// relevant keeps only events that can produce new loose items: something
// appearing or being written in a root. Renames away, removals, and chmods
// never create work, and hidden names are ignored the way every phase
// ignores them.
func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return false
	}
	return !strings.HasPrefix(filepath.Base(event.Name), ".")
}

func (w *Watcher) fire() {
	select {
	case w.trigger <- struct{}{}:
		w.logger.Debug("change burst settled; scan trigger queued")
	default:
	}
}
