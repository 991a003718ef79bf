package classify

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Category pairs a label with the extensions it owns.
type Category struct {
	Name       string
	Extensions []string
}

// DefaultTable returns the built-in category table. Order matters: the first
// category declaring an extension owns it.
func DefaultTable() []Category {
	return []Category{
		{Name: "Documents", Extensions: []string{"pdf", "doc", "docx", "txt", "rtf", "odt", "pages", "xls", "xlsx", "csv"}},
		{Name: "Images", Extensions: []string{"jpg", "jpeg", "png", "gif", "bmp", "tiff", "svg", "heic"}},
		{Name: "Videos", Extensions: []string{"mp4", "mov", "avi", "wmv", "mkv", "m4v"}},
		{Name: "Audio", Extensions: []string{"mp3", "wav", "aac", "flac", "m4a"}},
		{Name: "Archives", Extensions: []string{"zip", "rar", "7z", "tar", "gz"}},
		{Name: "Applications", Extensions: []string{"dmg", "app", "pkg", "exe"}},
		{Name: "Code", Extensions: []string{"py", "js", "java", "c", "cpp", "html", "css", "sql", "swift"}},
		{Name: CatchAll},
	}
}

// LoadTable reads a category table from a JSON object of the form
// {"Documents": ["pdf", "docx"], ...}. Object key order is preserved so the
// first-owner-wins rule matches the file as written.
func LoadTable(path string) ([]Category, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open category table: %w", err)
	}
	defer file.Close()
	return parseTable(file)
}

func parseTable(r io.Reader) ([]Category, error) {
	decoder := json.NewDecoder(r)

	tok, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("category table: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("category table: expected top-level object, got %v", tok)
	}

	var categories []Category
	for decoder.More() {
		keyTok, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("category table: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("category table: expected category name, got %v", keyTok)
		}
		var extensions []string
		if err := decoder.Decode(&extensions); err != nil {
			return nil, fmt.Errorf("category table: extensions for %q: %w", name, err)
		}
		categories = append(categories, Category{
			Name:       strings.TrimSpace(name),
			Extensions: normalizeExtensions(extensions),
		})
	}
	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("category table: %w", err)
	}

	if len(categories) == 0 {
		return nil, fmt.Errorf("category table: no categories declared")
	}
	return categories, nil
}

func normalizeExtensions(extensions []string) []string {
	normalized := make([]string, 0, len(extensions))
	seen := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		cleaned := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if cleaned == "" {
			continue
		}
		if _, exists := seen[cleaned]; exists {
			continue
		}
		seen[cleaned] = struct{}{}
		normalized = append(normalized, cleaned)
	}
	return normalized
}
