package organize

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cubby/internal/fileutil"
	"cubby/internal/grouping"
	"cubby/internal/logging"
	"cubby/internal/services"
)

// foldersBucket is where loose directories go, parallel to the category
// directories files are sorted into.
const foldersBucket = "Folders"

// primaryPass relocates the loose top-level entries of root. Files land in
// root/Category/EXT, optionally inside an existing group; folders land in
// the Folders bucket under the same grouper contract. The returned slice
// holds the destinations of folder items that joined no group, which the
// regroup phase may cluster later in the same cycle.
func (e *Engine) primaryPass(ctx context.Context, root string, report *CycleReport) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.WithContext(ctx, e.logger).Warn("watched root missing; skipping")
			return nil, nil
		}
		return nil, services.Wrap(services.ErrTransient, "organize", "list root", "unable to list watched root", err)
	}

	var ungroupedFolders []string
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
		itemCtx := services.WithItem(ctx, src)
		if entry.IsDir() {
			e.placeFolder(itemCtx, root, src, report, &ungroupedFolders)
		} else {
			e.placeFile(itemCtx, root, src, report)
		}
	}
	return ungroupedFolders, nil
}

// placeFile classifies one loose file and moves it into its extension
// bucket, joining an existing group when the grouper finds one. Failures
// leave the file where it is; the next cycle retries naturally.
func (e *Engine) placeFile(ctx context.Context, root, src string, report *CycleReport) {
	logger := logging.WithContext(ctx, e.logger)
	name := filepath.Base(src)

	category := e.classifier.Classify(name)
	bucketDir := filepath.Join(root, category, bucketLabel(name))

	targetDir := bucketDir
	reason := ReasonClassified
	group, grouped := e.grouper.FindGroup(name, grouping.KindFile, bucketDir)
	if grouped {
		targetDir = filepath.Join(bucketDir, group)
		reason = ReasonGrouped
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		logger.Warn("bucket creation failed; file left in place", logging.Error(err))
		report.Errors++
		return
	}
	dest, err := fileutil.NextFilePath(filepath.Join(targetDir, name))
	if err != nil {
		logger.Warn("no free destination slot; file left in place", logging.Error(err))
		report.Errors++
		return
	}
	if err := fileutil.Move(logger, src, dest); err != nil {
		logger.Warn("file move failed; file left in place", logging.Error(err))
		report.Errors++
		return
	}

	report.FilesMoved++
	report.record(src, dest, reason)
	attrs := []logging.Attr{
		logging.String("dest", dest),
		logging.String(logging.FieldCategory, category),
	}
	if grouped {
		attrs = append(attrs, logging.String(logging.FieldGroup, group))
	}
	logger.Info("file organized", logging.Args(attrs...)...)
}

// placeFolder moves one loose folder into the Folders bucket.
func (e *Engine) placeFolder(ctx context.Context, root, src string, report *CycleReport, ungrouped *[]string) {
	logger := logging.WithContext(ctx, e.logger)
	name := filepath.Base(src)
	bucketDir := filepath.Join(root, foldersBucket)

	targetDir := bucketDir
	reason := ReasonClassified
	group, grouped := e.grouper.FindGroup(name, grouping.KindFolder, bucketDir)
	if grouped {
		targetDir = filepath.Join(bucketDir, group)
		reason = ReasonGrouped
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		logger.Warn("bucket creation failed; folder left in place", logging.Error(err))
		report.Errors++
		return
	}
	dest, err := fileutil.NextDirPath(filepath.Join(targetDir, name))
	if err != nil {
		logger.Warn("no free destination slot; folder left in place", logging.Error(err))
		report.Errors++
		return
	}
	if err := e.moveDir(logger, src, dest); err != nil {
		logger.Warn("folder move failed; folder left in place", logging.Error(err))
		report.Errors++
		return
	}

	report.FoldersMoved++
	report.record(src, dest, reason)
	if !grouped {
		*ungrouped = append(*ungrouped, dest)
	}
	attrs := []logging.Attr{logging.String("dest", dest)}
	if grouped {
		attrs = append(attrs, logging.String(logging.FieldGroup, group))
	}
	logger.Info("folder organized", logging.Args(attrs...)...)
}

// moveDir relocates one directory. Bundle directories are copied and then
// deleted, never renamed.
func (e *Engine) moveDir(logger *slog.Logger, src, dest string) error {
	if e.isBundle(filepath.Base(src)) {
		return fileutil.CopyThenDelete(logger, src, dest)
	}
	return fileutil.Move(logger, src, dest)
}

func (e *Engine) isBundle(name string) bool {
	lowered := strings.ToLower(name)
	for _, suffix := range e.cfg.Organizer.BundleSuffixes {
		if suffix == "" {
			continue
		}
		if strings.HasSuffix(lowered, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}

// bucketLabel derives the extension bucket for a file name: the extension
// upper-cased without its dot, or Other for names without one.
func bucketLabel(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return "Other"
	}
	return strings.ToUpper(ext)
}
