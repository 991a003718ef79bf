package main

import (
	"os"
	"path/filepath"
	"testing"

	"cubby/internal/testsupport"
)

func TestPlanPreviewsWithoutMoving(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithRoots("Downloads", "Desktop"))
	downloads := env.cfg.Paths.WatchedRoots[0]
	desktop := env.cfg.Paths.WatchedRoots[1]
	testsupport.WriteFile(t, filepath.Join(downloads, "notes.txt"), "todo")
	testsupport.WriteFile(t, filepath.Join(desktop, "photo.png"), "pixels")

	out, _, err := runCLI(t, []string{"plan"}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	requireContains(t, out, "classified")
	requireContains(t, out, filepath.Join("Downloads", "notes.txt"))
	requireContains(t, out, filepath.Join("Desktop", "photo.png"))
	requireContains(t, out, "2 items would be organized")

	if _, err := os.Stat(filepath.Join(downloads, "notes.txt")); err != nil {
		t.Fatalf("plan must not move files: %v", err)
	}
	if _, err := os.Stat(filepath.Join(downloads, "Documents")); !os.IsNotExist(err) {
		t.Fatal("plan must not create category folders")
	}
}

func TestPlanReportsTidyRoots(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"plan"}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "Nothing to do")
}
