package prune

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cubby/internal/logging"
)

// Options constrain which directories Empty may touch.
type Options struct {
	SkipNames      []string
	BundleSuffixes []string
	Logger         *slog.Logger
}

// Empty removes empty directories under root, deepest first, repeating the
// sweep until a full pass removes nothing. Directories named in SkipNames
// are spared (their contents are still swept), hidden directories and bundle
// interiors are never entered. Removal failures are logged and skipped.
// Returns how many directories were removed.
func Empty(root string, opts Options) (int, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	skip := toSkipSet(opts.SkipNames)

	removed := 0
	for {
		dirs, err := candidates(root, skip, opts.BundleSuffixes)
		if err != nil {
			return removed, err
		}
		sort.SliceStable(dirs, func(i, j int) bool {
			return segments(dirs[i]) > segments(dirs[j])
		})

		removedThisPass := 0
		for _, dir := range dirs {
			entries, err := os.ReadDir(dir)
			if err != nil {
				logger.Warn("empty folder check failed",
					logging.String("path", dir),
					logging.Error(err),
				)
				continue
			}
			if len(entries) > 0 {
				continue
			}
			if err := os.Remove(dir); err != nil {
				logger.Warn("empty folder removal failed",
					logging.String("path", dir),
					logging.Error(err),
				)
				continue
			}
			logger.Info("removed empty folder", logging.String("path", dir))
			removed++
			removedThisPass++
		}
		if removedThisPass == 0 {
			return removed, nil
		}
	}
}

// EmptyDirs lists the directories a sweep would remove right now, without
// removing anything. Cascades (a parent drained by deleting its only child)
// are not predicted.
func EmptyDirs(root string, opts Options) ([]string, error) {
	dirs, err := candidates(root, toSkipSet(opts.SkipNames), opts.BundleSuffixes)
	if err != nil {
		return nil, err
	}
	var empty []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		empty = append(empty, dir)
	}
	return empty, nil
}

func toSkipSet(names []string) map[string]struct{} {
	skip := make(map[string]struct{}, len(names))
	for _, name := range names {
		skip[name] = struct{}{}
	}
	return skip
}

// candidates lists every removable directory under root in walk order.
func candidates(root string, skip map[string]struct{}, bundleSuffixes []string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if path == root || !entry.IsDir() {
			return nil
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			return fs.SkipDir
		}
		if _, special := skip[name]; special {
			return nil
		}
		if hasBundleSuffix(name, bundleSuffixes) {
			dirs = append(dirs, path)
			return fs.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

func hasBundleSuffix(name string, suffixes []string) bool {
	lowered := strings.ToLower(name)
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(lowered, suffix) {
			return true
		}
	}
	return false
}

func segments(path string) int {
	return strings.Count(path, string(filepath.Separator))
}
