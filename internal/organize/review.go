package organize

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cubby/internal/fileutil"
	"cubby/internal/logging"
	"cubby/internal/services"
	"cubby/internal/staleness"
)

// reviewSweep relocates every stale item under root flat into the Review
// folder. The scanner lists parents before their contents, so once a stale
// directory moves, the stale items it contained vanish and are skipped.
func (e *Engine) reviewSweep(ctx context.Context, root string, report *CycleReport) error {
	if e.cfg.Organizer.ReviewThresholdDays <= 0 {
		return nil
	}
	logger := logging.WithContext(ctx, e.logger)

	scanner := e.staleScanner(logger)
	items, err := scanner.Scan(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return services.Wrap(services.ErrTransient, "organize", "review sweep", "stale scan failed", err)
	}
	if len(items) == 0 {
		return nil
	}

	reviewDir := filepath.Join(root, e.cfg.Special.ReviewFolder)
	if err := os.MkdirAll(reviewDir, 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "organize", "review sweep", "review folder unavailable", err)
	}

	for _, item := range items {
		itemLogger := logging.WithContext(services.WithItem(ctx, item.Path), e.logger)
		if _, err := os.Lstat(item.Path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				itemLogger.Debug("stale item vanished before review move")
				continue
			}
			itemLogger.Warn("stale item unreadable; left in place", logging.Error(err))
			report.Errors++
			continue
		}

		dest, err := nextSlot(filepath.Join(reviewDir, filepath.Base(item.Path)), item.IsDir)
		if err != nil {
			itemLogger.Warn("no free destination slot; item left in place", logging.Error(err))
			report.Errors++
			continue
		}
		if item.IsDir {
			err = e.moveDir(itemLogger, item.Path, dest)
		} else {
			err = fileutil.Move(itemLogger, item.Path, dest)
		}
		if err != nil {
			itemLogger.Warn("review move failed; item left in place", logging.Error(err))
			report.Errors++
			continue
		}

		report.ReviewMoves++
		report.record(item.Path, dest, ReasonReview)
		itemLogger.Info("moved stale item for review",
			logging.String("dest", dest),
			logging.Duration("idle", time.Since(item.LastAccess).Round(time.Second)))
	}
	return nil
}

func (e *Engine) staleScanner(logger *slog.Logger) *staleness.Scanner {
	return &staleness.Scanner{
		Threshold:      time.Duration(e.cfg.Organizer.ReviewThresholdDays) * 24 * time.Hour,
		SkipNames:      e.specialFolderNames(),
		BundleSuffixes: e.cfg.Organizer.BundleSuffixes,
		Logger:         logger,
	}
}

func nextSlot(path string, isDir bool) (string, error) {
	if isDir {
		return fileutil.NextDirPath(path)
	}
	return fileutil.NextFilePath(path)
}
