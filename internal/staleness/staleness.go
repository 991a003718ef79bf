package staleness

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"cubby/internal/logging"
)

// Item is a filesystem entry whose last access lies beyond the threshold.
type Item struct {
	Path       string
	IsDir      bool
	LastAccess time.Time
}

// Scanner walks an organized root and reports entries that have not been
// accessed within Threshold. SkipNames are top-level folders excluded with
// their whole subtree; bundle-suffixed directories are evaluated as single
// items and never entered.
type Scanner struct {
	Threshold      time.Duration
	SkipNames      []string
	BundleSuffixes []string
	Logger         *slog.Logger
	Now            func() time.Time
}

// Scan returns stale entries under root in walk order. Every file is
// eligible; directories are eligible unless they sit directly under root or
// carry a hidden name. Nested stale directories are reported individually.
// Metadata errors exclude the item and are logged, not returned.
func (s *Scanner) Scan(root string) ([]Item, error) {
	logger := s.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	skip := make(map[string]struct{}, len(s.SkipNames))
	for _, name := range s.SkipNames {
		skip[name] = struct{}{}
	}

	var items []Item
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("stale scan skipped unreadable entry",
				logging.String("path", path),
				logging.Error(err),
			)
			return nil
		}
		if path == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		name := entry.Name()
		topLevel := !strings.Contains(rel, string(filepath.Separator))
		if !entry.IsDir() {
			s.collect(logger, &items, path, false, now)
			return nil
		}
		if topLevel {
			if _, excluded := skip[name]; excluded {
				return fs.SkipDir
			}
		}
		if !topLevel && !strings.HasPrefix(name, ".") {
			s.collect(logger, &items, path, true, now)
		}
		if s.isBundle(name) {
			return fs.SkipDir
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return items, nil
}

func (s *Scanner) collect(logger *slog.Logger, items *[]Item, path string, isDir bool, now time.Time) {
	access, err := lastAccess(path)
	if err != nil {
		logger.Warn("stale scan could not read access time",
			logging.String("path", path),
			logging.Error(err),
		)
		return
	}
	if now.Sub(access) <= s.Threshold {
		return
	}
	*items = append(*items, Item{Path: path, IsDir: isDir, LastAccess: access})
}

func (s *Scanner) isBundle(name string) bool {
	lowered := strings.ToLower(name)
	for _, suffix := range s.BundleSuffixes {
		if suffix != "" && strings.HasSuffix(lowered, suffix) {
			return true
		}
	}
	return false
}
