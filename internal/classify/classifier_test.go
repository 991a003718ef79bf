package classify

import (
	"mime"
	"os"
	"path/filepath"
	"testing"

	"cubby/internal/logging"
)

func TestClassifyKnownExtensions(t *testing.T) {
	c := New(DefaultTable(), logging.NewNop())

	tests := []struct {
		path string
		want string
	}{
		{"report.pdf", "Documents"},
		{"/tmp/inbox/Photo.JPG", "Images"},
		{"clip.mkv", "Videos"},
		{"song.flac", "Audio"},
		{"backup.tar", "Archives"},
		{"installer.dmg", "Applications"},
		{"main.py", "Code"},
		{"notes.txt", "Documents"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := c.Classify(tt.path); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestClassifyMimetypeFallback(t *testing.T) {
	// Register synthetic types so the assertions do not depend on the
	// host's mime.types database.
	for ext, typ := range map[string]string{
		".cbnote": "text/x-note",
		".cbword": "application/x-legacy-msword",
		".cbarch": "application/x-compressed-variant",
		".cbexec": "application/x-executable",
		".cbsnap": "image/x-snapshot",
		".cbclip": "video/x-clip",
		".cbtune": "audio/x-tune",
	} {
		if err := mime.AddExtensionType(ext, typ); err != nil {
			t.Fatalf("register %s: %v", ext, err)
		}
	}

	c := New(DefaultTable(), logging.NewNop())

	tests := []struct {
		path string
		want string
	}{
		{"picture.webp", "Images"}, // built-in registry entry
		{"notes.cbnote", "Documents"},
		{"legacy.cbword", "Documents"},
		{"bundle.cbarch", "Archives"},
		{"tool.cbexec", "Applications"},
		{"shot.cbsnap", "Images"},
		{"reel.cbclip", "Videos"},
		{"track.cbtune", "Audio"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := c.Classify(tt.path); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestClassifyTotality(t *testing.T) {
	c := New(DefaultTable(), logging.NewNop())
	known := make(map[string]struct{})
	for _, label := range c.Categories() {
		known[label] = struct{}{}
	}

	paths := []string{
		"mystery.zzqx",
		"no-extension",
		".hidden",
		"weird..",
		"", // degenerate input still classifies
		"archive.tar.gz",
	}
	for _, path := range paths {
		got := c.Classify(path)
		if got == "" {
			t.Fatalf("Classify(%q) returned empty label", path)
		}
		if _, ok := known[got]; !ok {
			t.Fatalf("Classify(%q) = %q, not in configured set", path, got)
		}
	}
}

func TestClassifyUnknownFallsToOthers(t *testing.T) {
	c := New(DefaultTable(), logging.NewNop())
	if got := c.Classify("mystery.zzqx"); got != CatchAll {
		t.Errorf("Classify(mystery.zzqx) = %q, want %q", got, CatchAll)
	}
	if got := c.Classify("no-extension"); got != CatchAll {
		t.Errorf("Classify(no-extension) = %q, want %q", got, CatchAll)
	}
}

func TestClassifyMimeResultRequiresConfiguredCategory(t *testing.T) {
	// A table without Images cannot receive mimetype-derived Images hits.
	c := New([]Category{
		{Name: "Documents", Extensions: []string{"pdf"}},
	}, logging.NewNop())

	if got := c.Classify("picture.webp"); got != CatchAll {
		t.Errorf("Classify(picture.webp) = %q, want %q without Images category", got, CatchAll)
	}
}

func TestFirstDeclaredOwnerWins(t *testing.T) {
	c := New([]Category{
		{Name: "Scans", Extensions: []string{"pdf"}},
		{Name: "Documents", Extensions: []string{"pdf", "txt"}},
	}, logging.NewNop())

	if got := c.Classify("report.pdf"); got != "Scans" {
		t.Errorf("Classify(report.pdf) = %q, want Scans", got)
	}
	if got := c.Classify("notes.txt"); got != "Documents" {
		t.Errorf("Classify(notes.txt) = %q, want Documents", got)
	}
}

func TestCategoriesIncludeCatchAll(t *testing.T) {
	c := New([]Category{{Name: "Documents", Extensions: []string{"pdf"}}}, logging.NewNop())
	labels := c.Categories()
	if len(labels) != 2 || labels[0] != "Documents" || labels[1] != CatchAll {
		t.Fatalf("Categories() = %v, want [Documents %s]", labels, CatchAll)
	}
}

func TestLoadTablePreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	content := `{
  "Media": ["JPG", ".png", "jpg"],
  "Text": ["txt"],
  "Documents": ["pdf"]
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}

	categories, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable returned error: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(categories))
	}
	if categories[0].Name != "Media" || categories[1].Name != "Text" || categories[2].Name != "Documents" {
		t.Fatalf("order not preserved: %+v", categories)
	}
	wantExts := []string{"jpg", "png"}
	if len(categories[0].Extensions) != len(wantExts) {
		t.Fatalf("extensions not normalized: %v", categories[0].Extensions)
	}
	for i, want := range wantExts {
		if categories[0].Extensions[i] != want {
			t.Fatalf("extensions not normalized: %v", categories[0].Extensions)
		}
	}
}

func TestNewFromFileFallsBackOnMalformedTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	if err := os.WriteFile(path, []byte(`["not", "an", "object"]`), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}

	c := NewFromFile(path, logging.NewNop())
	if got := c.Classify("report.pdf"); got != "Documents" {
		t.Errorf("fallback classifier Classify(report.pdf) = %q, want Documents", got)
	}
}

func TestNewFromFileFallsBackOnMissingFile(t *testing.T) {
	c := NewFromFile(filepath.Join(t.TempDir(), "absent.json"), logging.NewNop())
	if got := c.Classify("song.mp3"); got != "Audio" {
		t.Errorf("fallback classifier Classify(song.mp3) = %q, want Audio", got)
	}
}

func TestClassifierDeterminism(t *testing.T) {
	c := New(DefaultTable(), logging.NewNop())
	for i := 0; i < 3; i++ {
		if got := c.Classify("archive.tar.gz"); got != "Archives" {
			t.Fatalf("Classify(archive.tar.gz) = %q on call %d", got, i+1)
		}
	}
}
