package organize

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cubby/internal/grouping"
	"cubby/internal/logging"
	"cubby/internal/prune"
	"cubby/internal/services"
)

// PlanCycle computes what RunCycle would do right now without touching the
// tree: primary-pass destinations for loose items, stale candidates, and
// the directories a prune pass would remove. Regroup outcomes depend on the
// post-move bucket contents, so the preview does not speculate about them.
func (e *Engine) PlanCycle(ctx context.Context) (*CycleReport, error) {
	start := time.Now()
	report := &CycleReport{}
	for _, root := range e.cfg.Paths.WatchedRoots {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := e.planRoot(services.WithRoot(ctx, root), root, report); err != nil {
			return report, err
		}
	}
	report.Duration = time.Since(start)
	return report, nil
}

func (e *Engine) planRoot(ctx context.Context, root string, report *CycleReport) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.WithContext(ctx, e.logger).Warn("watched root missing; skipping")
			return nil
		}
		return services.Wrap(services.ErrTransient, "organize", "plan", "unable to list watched root", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			report.Skipped++
			continue
		}
		if _, structural := e.skip[name]; structural {
			continue
		}

		report.Examined++
		src := filepath.Join(root, name)
		if entry.IsDir() {
			bucketDir := filepath.Join(root, foldersBucket)
			targetDir := bucketDir
			reason := ReasonClassified
			if group, ok := e.grouper.FindGroup(name, grouping.KindFolder, bucketDir); ok {
				targetDir = filepath.Join(bucketDir, group)
				reason = ReasonGrouped
			}
			report.FoldersMoved++
			report.record(src, planSlot(filepath.Join(targetDir, name), true), reason)
		} else {
			category := e.classifier.Classify(name)
			bucketDir := filepath.Join(root, category, bucketLabel(name))
			targetDir := bucketDir
			reason := ReasonClassified
			if group, ok := e.grouper.FindGroup(name, grouping.KindFile, bucketDir); ok {
				targetDir = filepath.Join(bucketDir, group)
				reason = ReasonGrouped
			}
			report.FilesMoved++
			report.record(src, planSlot(filepath.Join(targetDir, name), false), reason)
		}
	}

	if e.cfg.Organizer.ReviewThresholdDays > 0 {
		scanner := e.staleScanner(logging.WithContext(ctx, e.logger))
		if items, err := scanner.Scan(root); err == nil {
			reviewDir := filepath.Join(root, e.cfg.Special.ReviewFolder)
			for _, item := range items {
				report.ReviewMoves++
				report.record(item.Path, planSlot(filepath.Join(reviewDir, filepath.Base(item.Path)), item.IsDir), ReasonReview)
			}
		}
	}

	empty, err := prune.EmptyDirs(root, prune.Options{
		SkipNames:      e.specialFolderNames(),
		BundleSuffixes: e.cfg.Organizer.BundleSuffixes,
	})
	if err == nil {
		for _, dir := range empty {
			report.FoldersPruned++
			report.record(dir, "", ReasonPrune)
		}
	}
	return nil
}

// planSlot resolves the conflict-free destination a move would use, falling
// back to the raw path when the slot probe fails.
func planSlot(path string, isDir bool) string {
	slot, err := nextSlot(path, isDir)
	if err != nil {
		return path
	}
	return slot
}
