package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"cubby/internal/config"
	"cubby/internal/logging"
	"cubby/internal/notifications"
	"cubby/internal/organize"
	"cubby/internal/services"
)

// CycleRunner runs one scan cycle. *organize.Engine is the production runner.
type CycleRunner interface {
	RunCycle(ctx context.Context) (*organize.CycleReport, error)
}

// Daemon schedules scan cycles and enforces single-instance execution through
// a lock file in the log directory.
type Daemon struct {
	cfg      *config.Config
	runner   CycleRunner
	notifier notifications.Service
	logger   *slog.Logger
	trigger  <-chan struct{}

	lockPath string
	lock     *flock.Flock

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a daemon. The trigger channel may be nil when watch mode is
// disabled; a nil channel simply never fires.
func New(cfg *config.Config, runner CycleRunner, trigger <-chan struct{}, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || runner == nil {
		return nil, errors.New("daemon requires config and cycle runner")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "cubbyd.lock")
	return &Daemon{
		cfg:      cfg,
		runner:   runner,
		notifier: notifications.NewService(cfg),
		logger:   logging.NewComponentLogger(logger, "daemon"),
		trigger:  trigger,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the scheduler loop.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return errors.New("daemon already running")
	}

	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("prepare lock directory: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another cubby daemon is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.running = true

	d.wg.Add(1)
	go d.loop(runCtx)

	d.logger.Info("daemon started",
		logging.String("lock", d.lockPath),
		logging.Duration("interval", d.interval()))
	return nil
}

// Stop terminates the scheduler, waits for any in-flight cycle, and releases
// the daemon lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	cancel := d.cancel
	d.running = false
	d.cancel = nil
	d.mu.Unlock()

	cancel()
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("daemon lock release failed", logging.Error(err))
	}
	d.logger.Info("daemon stopped")
}

// Running reports whether the scheduler loop is active.
func (d *Daemon) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// LockPath returns the path of the single-instance lock file.
func (d *Daemon) LockPath() string { return d.lockPath }

func (d *Daemon) loop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.interval())
	defer ticker.Stop()

	d.rearm(ticker, d.runCycle(ctx))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-d.trigger:
			d.logger.Info("filesystem change settled; scanning early")
		}
		if ctx.Err() != nil {
			return
		}
		d.rearm(ticker, d.runCycle(ctx))
	}
}

func (d *Daemon) runCycle(ctx context.Context) error {
	_, err := d.runner.RunCycle(ctx)
	if err == nil || errors.Is(err, context.Canceled) {
		return err
	}

	d.logger.Error("scan cycle failed", logging.Error(err))
	if nerr := d.notifier.NotifyCycleFailed(ctx, err, "scan cycle"); nerr != nil {
		d.logger.Warn("failure notification not delivered", logging.Error(nerr))
	}
	return err
}

// rearm schedules the next cycle: the error cooldown after a transient
// failure, otherwise the full interval. A fatal cycle fails the same way on
// retry, so it also waits the full interval.
func (d *Daemon) rearm(ticker *time.Ticker, err error) {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		ticker.Reset(d.interval())
	case services.IsFatal(err):
		ticker.Reset(d.interval())
	default:
		ticker.Reset(d.cooldown())
	}
}

func (d *Daemon) interval() time.Duration {
	if d.cfg.Organizer.ScanInterval <= 0 {
		return time.Hour
	}
	return time.Duration(d.cfg.Organizer.ScanInterval) * time.Second
}

func (d *Daemon) cooldown() time.Duration {
	if d.cfg.Organizer.ErrorCooldown <= 0 {
		return time.Minute
	}
	return time.Duration(d.cfg.Organizer.ErrorCooldown) * time.Second
}
