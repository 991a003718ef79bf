package prune

import (
	"os"
	"path/filepath"
	"testing"
)

func mkdirs(t *testing.T, paths ...string) {
	t.Helper()
	for _, path := range paths {
		if err := os.MkdirAll(path, 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func exists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Lstat(path)
	if err == nil {
		return true
	}
	if os.IsNotExist(err) {
		return false
	}
	t.Fatal(err)
	return false
}

func TestEmptyRemovesNestedChains(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, filepath.Join(root, "Documents", "PDF", "Acme"))

	removed, err := Empty(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}
	if exists(t, filepath.Join(root, "Documents")) {
		t.Fatal("expected the drained chain to be gone")
	}
	if !exists(t, root) {
		t.Fatal("the root itself must survive")
	}
}

func TestEmptyKeepsPopulatedDirectories(t *testing.T) {
	root := t.TempDir()
	keep := filepath.Join(root, "Documents", "PDF")
	mkdirs(t, keep)
	if err := os.WriteFile(filepath.Join(keep, "ledger.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	hiddenOnly := filepath.Join(root, "Images")
	mkdirs(t, hiddenOnly)
	if err := os.WriteFile(filepath.Join(hiddenOnly, ".DS_Store"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Empty(root, Options{}); err != nil {
		t.Fatal(err)
	}
	if !exists(t, keep) {
		t.Fatal("populated directory must survive")
	}
	if !exists(t, hiddenOnly) {
		t.Fatal("a directory holding only hidden files is not empty")
	}
}

func TestEmptySparesSpecialFoldersButSweepsInside(t *testing.T) {
	root := t.TempDir()
	mkdirs(t,
		filepath.Join(root, "Manual"),
		filepath.Join(root, "Review"),
		filepath.Join(root, "Manual", "scratch"),
	)

	_, err := Empty(root, Options{SkipNames: []string{"Manual", "Review"}})
	if err != nil {
		t.Fatal(err)
	}
	if !exists(t, filepath.Join(root, "Manual")) || !exists(t, filepath.Join(root, "Review")) {
		t.Fatal("special folders must never be pruned")
	}
	if exists(t, filepath.Join(root, "Manual", "scratch")) {
		t.Fatal("empty folders inside special folders are still pruned")
	}
}

func TestEmptySkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, filepath.Join(root, ".cache", "sub"))

	if _, err := Empty(root, Options{}); err != nil {
		t.Fatal(err)
	}
	if !exists(t, filepath.Join(root, ".cache", "sub")) {
		t.Fatal("hidden subtrees must never be pruned")
	}
}

func TestEmptySkipsBundleInteriors(t *testing.T) {
	root := t.TempDir()
	mkdirs(t,
		filepath.Join(root, "Folders", "Tool.app", "Contents", "Empty"),
		filepath.Join(root, "Broken.app"),
	)
	opts := Options{BundleSuffixes: []string{".app"}}

	if _, err := Empty(root, opts); err != nil {
		t.Fatal(err)
	}
	if !exists(t, filepath.Join(root, "Folders", "Tool.app", "Contents", "Empty")) {
		t.Fatal("bundle interiors must never be pruned")
	}
	if exists(t, filepath.Join(root, "Broken.app")) {
		t.Fatal("an entirely empty bundle directory is still prunable")
	}
}

func TestEmptyReachesFixedPoint(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, filepath.Join(root, "A", "B"), filepath.Join(root, "C"))

	if _, err := Empty(root, Options{}); err != nil {
		t.Fatal(err)
	}
	removed, err := Empty(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Fatalf("second run removed %d, want 0", removed)
	}
}

func TestEmptyMissingRoot(t *testing.T) {
	if _, err := Empty(filepath.Join(t.TempDir(), "missing"), Options{}); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestEmptyDirsPreviewsWithoutRemoving(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, filepath.Join(root, "Documents", "PDF"), filepath.Join(root, "Review"))
	if err := os.WriteFile(filepath.Join(root, "Documents", "ledger.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	empty, err := EmptyDirs(root, Options{SkipNames: []string{"Review"}})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(root, "Documents", "PDF")}
	if len(empty) != 1 || empty[0] != want[0] {
		t.Fatalf("EmptyDirs = %v, want %v", empty, want)
	}
	if !exists(t, want[0]) {
		t.Fatal("preview must not remove anything")
	}
}
