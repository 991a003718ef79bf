package organize

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cubby/internal/classify"
	"cubby/internal/config"
	"cubby/internal/grouping"
	"cubby/internal/logging"
	"cubby/internal/notifications"
	"cubby/internal/services/tags"
)

func testConfig(root string) *config.Config {
	cfg := config.Default()
	cfg.Paths.WatchedRoots = []string{root}
	return &cfg
}

func newTestEngine(cfg *config.Config) *Engine {
	return NewWithDependencies(cfg, logging.NewNop(),
		classify.New(classify.DefaultTable(), nil),
		grouping.New(grouping.DefaultPolicy()),
		tags.NewNoop(),
		notifications.NewService(cfg),
	)
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("content of "+filepath.Base(path)), 0o644); err != nil {
		t.Fatal(err)
	}
}

func ageFile(t *testing.T, path string, age time.Duration) {
	t.Helper()
	stamp := time.Now().Add(-age)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatal(err)
	}
}

func mustExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

func mustNotExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be gone, stat err = %v", path, err)
	}
}

func runCycle(t *testing.T, engine *Engine) *CycleReport {
	t.Helper()
	report, err := engine.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return report
}

func TestRunCycleOrganizesLooseFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "report.pdf"))
	writeFile(t, filepath.Join(root, "song.mp3"))
	writeFile(t, filepath.Join(root, "holiday.jpg"))
	writeFile(t, filepath.Join(root, "README"))

	engine := newTestEngine(testConfig(root))
	report := runCycle(t, engine)

	mustExist(t, filepath.Join(root, "Documents", "PDF", "report.pdf"))
	mustExist(t, filepath.Join(root, "Audio", "MP3", "song.mp3"))
	mustExist(t, filepath.Join(root, "Images", "JPG", "holiday.jpg"))
	mustExist(t, filepath.Join(root, "Others", "Other", "README"))
	mustExist(t, filepath.Join(root, "Manual"))
	mustExist(t, filepath.Join(root, "Review"))

	if report.Examined != 4 || report.FilesMoved != 4 {
		t.Fatalf("examined = %d, files moved = %d, want 4 and 4", report.Examined, report.FilesMoved)
	}
	if report.Errors != 0 {
		t.Fatalf("errors = %d, want 0", report.Errors)
	}
}

func TestRunCycleSkipsSpecialAndHidden(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Manual", "keep.pdf"))
	writeFile(t, filepath.Join(root, "Review", "later.pdf"))
	writeFile(t, filepath.Join(root, ".secret"))
	writeFile(t, filepath.Join(root, ".cache", "blob"))

	engine := newTestEngine(testConfig(root))
	report := runCycle(t, engine)

	mustExist(t, filepath.Join(root, "Manual", "keep.pdf"))
	mustExist(t, filepath.Join(root, "Review", "later.pdf"))
	mustExist(t, filepath.Join(root, ".secret"))
	mustExist(t, filepath.Join(root, ".cache", "blob"))

	if report.Examined != 0 {
		t.Fatalf("examined = %d, want 0", report.Examined)
	}
	if report.Skipped != 2 {
		t.Fatalf("skipped = %d, want 2", report.Skipped)
	}
	if report.TotalMoved() != 0 {
		t.Fatalf("moved = %d, want 0", report.TotalMoved())
	}
}

func TestRunCycleGroupsAcmeInvoices(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ACME-Invoice-2024-01.pdf"))
	writeFile(t, filepath.Join(root, "ACME-Invoice-2024-02.pdf"))

	engine := newTestEngine(testConfig(root))
	report := runCycle(t, engine)

	mustExist(t, filepath.Join(root, "Documents", "PDF", "Acme", "ACME-Invoice-2024-01.pdf"))
	mustExist(t, filepath.Join(root, "Documents", "PDF", "Acme", "ACME-Invoice-2024-02.pdf"))
	if report.GroupsCreated != 1 {
		t.Fatalf("groups created = %d, want 1", report.GroupsCreated)
	}
}

func TestRunCycleNamesReportCluster(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "report_final.docx"))
	writeFile(t, filepath.Join(root, "report_final (1).docx"))

	engine := newTestEngine(testConfig(root))
	report := runCycle(t, engine)

	mustExist(t, filepath.Join(root, "Documents", "DOCX", "Report", "report_final.docx"))
	mustExist(t, filepath.Join(root, "Documents", "DOCX", "Report", "report_final (1).docx"))
	if report.GroupsCreated != 1 {
		t.Fatalf("groups created = %d, want 1", report.GroupsCreated)
	}
}

func TestRunCycleLeavesLoneScreenshotUngrouped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "screenshot_2024_05_01.png"))

	engine := newTestEngine(testConfig(root))
	report := runCycle(t, engine)

	mustExist(t, filepath.Join(root, "Images", "PNG", "screenshot_2024_05_01.png"))
	if report.GroupsCreated != 0 {
		t.Fatalf("groups created = %d, want 0", report.GroupsCreated)
	}
}

func TestRunCycleJoinsExistingGroupOnArrival(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Documents", "PDF", "Acme", "acme-history.pdf"))
	writeFile(t, filepath.Join(root, "ACME-Report.pdf"))

	engine := newTestEngine(testConfig(root))
	report := runCycle(t, engine)

	mustExist(t, filepath.Join(root, "Documents", "PDF", "Acme", "ACME-Report.pdf"))
	var grouped *Move
	for i := range report.Moves {
		if report.Moves[i].Reason == ReasonGrouped {
			grouped = &report.Moves[i]
		}
	}
	if grouped == nil {
		t.Fatal("expected a grouped move in the report")
	}
	if grouped.Source != filepath.Join(root, "ACME-Report.pdf") {
		t.Fatalf("grouped move source = %s", grouped.Source)
	}
}

func TestRunCycleConflictRenamesPickFirstFreeSlot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Documents", "PDF", "backup.pdf"))
	writeFile(t, filepath.Join(root, "Documents", "PDF", "backup_1.pdf"))
	writeFile(t, filepath.Join(root, "backup.pdf"))

	engine := newTestEngine(testConfig(root))
	report := runCycle(t, engine)

	mustExist(t, filepath.Join(root, "Documents", "PDF", "backup.pdf"))
	mustExist(t, filepath.Join(root, "Documents", "PDF", "backup_1.pdf"))
	mustExist(t, filepath.Join(root, "Documents", "PDF", "backup_2.pdf"))
	// backup is a stopword, so the residue never earns a group name.
	if report.GroupsCreated != 0 {
		t.Fatalf("groups created = %d, want 0", report.GroupsCreated)
	}
}

func TestRunCycleMovesFoldersToBucket(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Tax Documents", "w2.pdf"))

	engine := newTestEngine(testConfig(root))
	report := runCycle(t, engine)

	mustExist(t, filepath.Join(root, "Folders", "Tax Documents", "w2.pdf"))
	if report.FoldersMoved != 1 {
		t.Fatalf("folders moved = %d, want 1", report.FoldersMoved)
	}
}

func TestRunCycleRegroupsSimilarFolders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "acme invoices", "jan.pdf"))
	writeFile(t, filepath.Join(root, "acme receipts", "feb.pdf"))

	engine := newTestEngine(testConfig(root))
	report := runCycle(t, engine)

	mustExist(t, filepath.Join(root, "Folders", "Acme", "acme invoices", "jan.pdf"))
	mustExist(t, filepath.Join(root, "Folders", "Acme", "acme receipts", "feb.pdf"))
	if report.GroupsCreated != 1 {
		t.Fatalf("groups created = %d, want 1", report.GroupsCreated)
	}
	// Two primary moves plus two regroup moves.
	if report.FoldersMoved != 4 {
		t.Fatalf("folders moved = %d, want 4", report.FoldersMoved)
	}
}

func TestRunCycleFolderConflictRename(t *testing.T) {
	root := t.TempDir()
	// A Folders entry holding only files is not a folder group, so the
	// arriving folder of the same name must take a numbered slot instead.
	writeFile(t, filepath.Join(root, "Folders", "Projects", "notes.txt"))
	writeFile(t, filepath.Join(root, "Projects", "plan.txt"))

	engine := newTestEngine(testConfig(root))
	runCycle(t, engine)

	mustExist(t, filepath.Join(root, "Folders", "Projects", "notes.txt"))
	mustExist(t, filepath.Join(root, "Folders", "Projects_1", "plan.txt"))
}

func TestRunCycleMovesStaleItemsToReview(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, "Documents", "PDF", "old.pdf")
	recent := filepath.Join(root, "Documents", "PDF", "recent.pdf")
	writeFile(t, stale)
	writeFile(t, recent)
	ageFile(t, stale, 20*24*time.Hour)
	ageFile(t, recent, 10*24*time.Hour)

	engine := newTestEngine(testConfig(root))
	report := runCycle(t, engine)

	mustExist(t, filepath.Join(root, "Review", "old.pdf"))
	mustExist(t, recent)
	mustNotExist(t, stale)
	if report.ReviewMoves != 1 {
		t.Fatalf("review moves = %d, want 1", report.ReviewMoves)
	}
}

func TestRunCycleClassifiesThenSweepsInOneCycle(t *testing.T) {
	root := t.TempDir()
	loose := filepath.Join(root, "old_notes.txt")
	writeFile(t, loose)
	ageFile(t, loose, 20*24*time.Hour)

	engine := newTestEngine(testConfig(root))
	report := runCycle(t, engine)

	// The file is classified first, found stale in its bucket, swept into
	// Review, and the drained bucket chain is pruned.
	mustExist(t, filepath.Join(root, "Review", "old_notes.txt"))
	mustNotExist(t, filepath.Join(root, "Documents"))
	if report.FilesMoved != 1 || report.ReviewMoves != 1 {
		t.Fatalf("files moved = %d, review moves = %d, want 1 and 1", report.FilesMoved, report.ReviewMoves)
	}
	if report.FoldersPruned != 2 {
		t.Fatalf("folders pruned = %d, want 2", report.FoldersPruned)
	}
}

func TestRunCyclePrunesPreexistingEmptyDirectories(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "Documents", "PDF", "Stale Group"), 0o755); err != nil {
		t.Fatal(err)
	}

	engine := newTestEngine(testConfig(root))
	report := runCycle(t, engine)

	mustNotExist(t, filepath.Join(root, "Documents"))
	if report.FoldersPruned != 3 {
		t.Fatalf("folders pruned = %d, want 3", report.FoldersPruned)
	}
}

func TestRunCycleBundleFolderArrivesIntact(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Tool.app", "Contents", "MacOS", "tool"))
	writeFile(t, filepath.Join(root, "Tool.app", "Contents", "Info.plist"))

	engine := newTestEngine(testConfig(root))
	report := runCycle(t, engine)

	mustExist(t, filepath.Join(root, "Folders", "Tool.app", "Contents", "MacOS", "tool"))
	mustExist(t, filepath.Join(root, "Folders", "Tool.app", "Contents", "Info.plist"))
	mustNotExist(t, filepath.Join(root, "Tool.app"))
	if report.FoldersMoved != 1 {
		t.Fatalf("folders moved = %d, want 1", report.FoldersMoved)
	}
}

func TestRunCycleSecondRunIsNoOp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ACME-Invoice-2024-01.pdf"))
	writeFile(t, filepath.Join(root, "ACME-Invoice-2024-02.pdf"))
	writeFile(t, filepath.Join(root, "screenshot_2024_05_01.png"))
	writeFile(t, filepath.Join(root, "Tax Documents", "w2.pdf"))

	engine := newTestEngine(testConfig(root))
	first := runCycle(t, engine)
	if first.TotalMoved() == 0 {
		t.Fatal("first cycle should have moved items")
	}

	second := runCycle(t, engine)
	if second.TotalMoved() != 0 {
		t.Fatalf("second cycle moved %d items, want 0: %+v", second.TotalMoved(), second.Moves)
	}
	if second.GroupsCreated != 0 || second.FoldersPruned != 0 || second.Errors != 0 {
		t.Fatalf("second cycle not a no-op: %+v", second)
	}
}

func TestRunCycleHonorsCancellation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "report.pdf"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := newTestEngine(testConfig(root))
	report, err := engine.RunCycle(ctx)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if report.TotalMoved() != 0 {
		t.Fatalf("moved %d items after cancellation", report.TotalMoved())
	}
	mustExist(t, filepath.Join(root, "report.pdf"))
}

type tagCall struct {
	path  string
	name  string
	color string
}

type recordingTagger struct {
	calls []tagCall
}

func (r *recordingTagger) Apply(_ context.Context, path, name, color string) error {
	r.calls = append(r.calls, tagCall{path: path, name: name, color: color})
	return nil
}

func (r *recordingTagger) Remove(context.Context, string, string) error { return nil }

func (r *recordingTagger) Available() bool { return true }

func TestRunCycleTagsSpecialFolders(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	tagger := &recordingTagger{}
	engine := NewWithDependencies(cfg, logging.NewNop(),
		classify.New(classify.DefaultTable(), nil),
		grouping.New(grouping.DefaultPolicy()),
		tagger,
		notifications.NewService(cfg),
	)

	runCycle(t, engine)

	want := []tagCall{
		{path: filepath.Join(root, "Manual"), name: "Manual", color: "red"},
		{path: filepath.Join(root, "Review"), name: "Review", color: "blue"},
	}
	if len(tagger.calls) != len(want) {
		t.Fatalf("tag calls = %d, want %d", len(tagger.calls), len(want))
	}
	for i, call := range tagger.calls {
		if call != want[i] {
			t.Fatalf("tag call %d = %+v, want %+v", i, call, want[i])
		}
	}
}

type recordingNotifier struct {
	completedMoved  []int
	completedPruned []int
}

func (r *recordingNotifier) NotifyCycleCompleted(_ context.Context, moved, pruned int, _ time.Duration) error {
	r.completedMoved = append(r.completedMoved, moved)
	r.completedPruned = append(r.completedPruned, pruned)
	return nil
}

func (r *recordingNotifier) NotifyCycleFailed(context.Context, error, string) error { return nil }

func (r *recordingNotifier) TestNotification(context.Context) error { return nil }

func TestRunCycleNotifiesOnlyWhenSomethingMoved(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "report.pdf"))

	cfg := testConfig(root)
	notifier := &recordingNotifier{}
	engine := NewWithDependencies(cfg, logging.NewNop(),
		classify.New(classify.DefaultTable(), nil),
		grouping.New(grouping.DefaultPolicy()),
		tags.NewNoop(),
		notifier,
	)

	runCycle(t, engine)
	if len(notifier.completedMoved) != 1 || notifier.completedMoved[0] != 1 {
		t.Fatalf("completed notifications = %+v, want one with 1 move", notifier.completedMoved)
	}

	// A quiet cycle stays silent.
	runCycle(t, engine)
	if len(notifier.completedMoved) != 1 {
		t.Fatalf("quiet cycle sent a notification: %+v", notifier.completedMoved)
	}
}
