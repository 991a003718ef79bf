package organize

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cubby/internal/fileutil"
	"cubby/internal/logging"
	"cubby/internal/services"
)

// regroupRoot runs the batch regrouping phase for one root: each extension
// bucket's residue files first, then the folder items this cycle's primary
// pass left ungrouped.
func (e *Engine) regroupRoot(ctx context.Context, root string, ungroupedFolders []string, report *CycleReport) {
	for _, label := range e.classifier.Categories() {
		categoryDir := filepath.Join(root, label)
		buckets, err := os.ReadDir(categoryDir)
		if err != nil {
			// Category not materialized in this root yet.
			continue
		}
		for _, bucket := range buckets {
			if !bucket.IsDir() || strings.HasPrefix(bucket.Name(), ".") {
				continue
			}
			e.regroupBucket(ctx, filepath.Join(categoryDir, bucket.Name()), report)
		}
	}
	e.regroupFolders(ctx, root, ungroupedFolders, report)
}

// regroupBucket clusters the plain files sitting directly in one extension
// bucket and folds every cluster that earns a name into a group directory.
func (e *Engine) regroupBucket(ctx context.Context, bucketDir string, report *CycleReport) {
	logger := logging.WithContext(ctx, e.logger)

	entries, err := os.ReadDir(bucketDir)
	if err != nil {
		logger.Warn("bucket listing failed; regroup skipped",
			logging.String("bucket", bucketDir),
			logging.Error(err))
		report.Errors++
		return
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	policy := e.grouper.Policy()
	if len(names) < policy.MinGroupSize {
		return
	}

	stems := make([]string, len(names))
	for i, name := range names {
		stems[i] = strings.TrimSuffix(name, filepath.Ext(name))
	}
	for _, cluster := range e.clusterIndexes(stems) {
		clusterStems := make([]string, len(cluster))
		for i, idx := range cluster {
			clusterStems[i] = stems[idx]
		}
		groupName, ok := policy.SuggestName(clusterStems)
		if !ok {
			continue
		}
		members := make([]string, len(cluster))
		for i, idx := range cluster {
			members[i] = names[idx]
		}
		e.materializeFileGroup(ctx, bucketDir, groupName, members, report)
	}
}

// materializeFileGroup creates or reuses one group directory inside the
// bucket and moves the cluster members in.
func (e *Engine) materializeFileGroup(ctx context.Context, bucketDir, groupName string, members []string, report *CycleReport) {
	logger := logging.WithContext(ctx, e.logger)
	groupDir := filepath.Join(bucketDir, groupName)

	created := false
	if _, err := os.Lstat(groupDir); errors.Is(err, fs.ErrNotExist) {
		created = true
	}
	if err := os.MkdirAll(groupDir, 0o755); err != nil {
		logger.Warn("group directory creation failed",
			logging.String(logging.FieldGroup, groupName),
			logging.Error(err))
		report.Errors++
		return
	}

	moved := 0
	for _, member := range members {
		src := filepath.Join(bucketDir, member)
		memberLogger := logging.WithContext(services.WithItem(ctx, src), e.logger)
		if _, err := os.Lstat(src); errors.Is(err, fs.ErrNotExist) {
			memberLogger.Debug("cluster member vanished before regroup")
			continue
		}
		dest, err := fileutil.NextFilePath(filepath.Join(groupDir, member))
		if err != nil {
			memberLogger.Warn("no free destination slot; file left in place", logging.Error(err))
			report.Errors++
			continue
		}
		if err := fileutil.Move(memberLogger, src, dest); err != nil {
			memberLogger.Warn("regroup move failed; file left in place", logging.Error(err))
			report.Errors++
			continue
		}
		moved++
		report.FilesMoved++
		report.record(src, dest, ReasonRegrouped)
	}
	if created && moved > 0 {
		report.GroupsCreated++
		logger.Info("created group",
			logging.String(logging.FieldGroup, groupName),
			logging.Int("members", moved))
	}
}

// regroupFolders clusters the folder items the primary pass left ungrouped
// this cycle. Regrouping works off that in-cycle list rather than the
// Folders bucket contents, so existing group directories are never
// swallowed into meta-groups.
func (e *Engine) regroupFolders(ctx context.Context, root string, ungrouped []string, report *CycleReport) {
	policy := e.grouper.Policy()
	if len(ungrouped) < policy.MinGroupSize {
		return
	}

	var paths []string
	var names []string
	for _, path := range ungrouped {
		if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
			logging.WithContext(services.WithItem(ctx, path), e.logger).
				Debug("ungrouped folder vanished before regroup")
			continue
		}
		paths = append(paths, path)
		names = append(names, filepath.Base(path))
	}
	if len(names) < policy.MinGroupSize {
		return
	}
	sort.Sort(byName{names: names, paths: paths})

	for _, cluster := range e.clusterIndexes(names) {
		clusterNames := make([]string, len(cluster))
		for i, idx := range cluster {
			clusterNames[i] = names[idx]
		}
		groupName, ok := policy.SuggestName(clusterNames)
		if !ok {
			continue
		}
		e.materializeFolderGroup(ctx, root, groupName, cluster, names, paths, report)
	}
}

func (e *Engine) materializeFolderGroup(ctx context.Context, root, groupName string, cluster []int, names, paths []string, report *CycleReport) {
	logger := logging.WithContext(ctx, e.logger)
	groupDir := filepath.Join(root, foldersBucket, groupName)

	created := false
	if _, err := os.Lstat(groupDir); errors.Is(err, fs.ErrNotExist) {
		created = true
	}
	if err := os.MkdirAll(groupDir, 0o755); err != nil {
		logger.Warn("group directory creation failed",
			logging.String(logging.FieldGroup, groupName),
			logging.Error(err))
		report.Errors++
		return
	}

	moved := 0
	for _, idx := range cluster {
		src := paths[idx]
		// A member named like the group already sits where the group lives
		// on case-insensitive filesystems; leave it alone.
		if strings.EqualFold(names[idx], groupName) {
			continue
		}
		memberLogger := logging.WithContext(services.WithItem(ctx, src), e.logger)
		if _, err := os.Lstat(src); errors.Is(err, fs.ErrNotExist) {
			memberLogger.Debug("cluster member vanished before regroup")
			continue
		}
		dest, err := fileutil.NextDirPath(filepath.Join(groupDir, names[idx]))
		if err != nil {
			memberLogger.Warn("no free destination slot; folder left in place", logging.Error(err))
			report.Errors++
			continue
		}
		if err := e.moveDir(memberLogger, src, dest); err != nil {
			memberLogger.Warn("regroup move failed; folder left in place", logging.Error(err))
			report.Errors++
			continue
		}
		moved++
		report.FoldersMoved++
		report.record(src, dest, ReasonRegrouped)
	}
	if created && moved > 0 {
		report.GroupsCreated++
		logger.Info("created group",
			logging.String(logging.FieldGroup, groupName),
			logging.Int("members", moved))
	}
}

// clusterIndexes partitions names into similarity clusters. The first
// unassigned name seeds each cluster and absorbs every later name similar
// to it, so no name lands in two clusters and input order decides ties.
// Only clusters reaching the minimum group size are returned.
func (e *Engine) clusterIndexes(names []string) [][]int {
	policy := e.grouper.Policy()
	assigned := make([]bool, len(names))
	var clusters [][]int
	for i := range names {
		if assigned[i] {
			continue
		}
		cluster := []int{i}
		assigned[i] = true
		for j := i + 1; j < len(names); j++ {
			if assigned[j] || !policy.Similar(names[i], names[j]) {
				continue
			}
			cluster = append(cluster, j)
			assigned[j] = true
		}
		if len(cluster) >= policy.MinGroupSize {
			clusters = append(clusters, cluster)
		}
	}
	return clusters
}

// byName sorts the parallel name and path slices by name so clustering sees
// a deterministic order regardless of conflict renames during the primary
// pass.
type byName struct {
	names []string
	paths []string
}

func (b byName) Len() int           { return len(b.names) }
func (b byName) Less(i, j int) bool { return b.names[i] < b.names[j] }
func (b byName) Swap(i, j int) {
	b.names[i], b.names[j] = b.names[j], b.names[i]
	b.paths[i], b.paths[j] = b.paths[j], b.paths[i]
}
