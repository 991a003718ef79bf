package logging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cubby/internal/logging"
)

func TestCleanupOldLogsRemovesExpiredFiles(t *testing.T) {
	dir := t.TempDir()

	oldPath := filepath.Join(dir, "cubby-20260101T000000.000Z.log")
	freshPath := filepath.Join(dir, "cubby-20260820T000000.000Z.log")
	currentPath := filepath.Join(dir, "cubby-20260825T000000.000Z.log")
	unrelatedPath := filepath.Join(dir, "notes.txt")

	for _, path := range []string{oldPath, freshPath, currentPath, unrelatedPath} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	stale := time.Now().AddDate(0, 0, -30)
	for _, path := range []string{oldPath, unrelatedPath, currentPath} {
		if err := os.Chtimes(path, stale, stale); err != nil {
			t.Fatalf("chtimes %s: %v", path, err)
		}
	}

	logging.CleanupOldLogs(logging.NewNop(), 7,
		logging.RetentionTarget{Dir: dir, Pattern: "cubby-*.log", Exclude: []string{currentPath}},
	)

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Fatalf("expired log should be removed, stat err = %v", err)
	}
	if _, err := os.Stat(freshPath); err != nil {
		t.Fatalf("fresh log should remain: %v", err)
	}
	if _, err := os.Stat(currentPath); err != nil {
		t.Fatalf("excluded log should remain: %v", err)
	}
	if _, err := os.Stat(unrelatedPath); err != nil {
		t.Fatalf("non-matching file should remain: %v", err)
	}
}

func TestCleanupOldLogsDisabledByZeroRetention(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cubby-old.log")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	stale := time.Now().AddDate(0, 0, -365)
	if err := os.Chtimes(path, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	logging.CleanupOldLogs(logging.NewNop(), 0,
		logging.RetentionTarget{Dir: dir, Pattern: "cubby-*.log"},
	)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("retention 0 should disable pruning: %v", err)
	}
}
