package classify

import (
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"cubby/internal/logging"
)

// CatchAll is the category assigned when no extension or mimetype rule matches.
const CatchAll = "Others"

// Classifier maps files to category labels using an ordered category table
// with a mimetype-based fallback.
type Classifier struct {
	categories []Category
	owners     map[string]string
	labels     map[string]struct{}
	logger     *slog.Logger
}

// New builds a classifier from an ordered category table. The catch-all
// category is appended when the table does not declare it.
func New(categories []Category, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	owned := make([]Category, 0, len(categories)+1)
	owners := make(map[string]string)
	labels := make(map[string]struct{}, len(categories)+1)
	for _, category := range categories {
		name := strings.TrimSpace(category.Name)
		if name == "" {
			continue
		}
		if _, exists := labels[name]; exists {
			continue
		}
		labels[name] = struct{}{}
		owned = append(owned, Category{Name: name, Extensions: category.Extensions})
		for _, ext := range category.Extensions {
			// First declared owner wins for extensions listed twice.
			if _, taken := owners[ext]; !taken {
				owners[ext] = name
			}
		}
	}
	if _, ok := labels[CatchAll]; !ok {
		labels[CatchAll] = struct{}{}
		owned = append(owned, Category{Name: CatchAll})
	}
	return &Classifier{
		categories: owned,
		owners:     owners,
		labels:     labels,
		logger:     logging.NewComponentLogger(logger, "classify"),
	}
}

// NewFromFile builds a classifier from the JSON category table at path,
// falling back to the built-in table when the path is empty, missing, or
// malformed.
func NewFromFile(path string, logger *slog.Logger) *Classifier {
	if strings.TrimSpace(path) == "" {
		return New(DefaultTable(), logger)
	}
	categories, err := LoadTable(path)
	if err != nil {
		if logger != nil {
			logger.Debug("category table unusable; using built-in defaults",
				logging.String("path", path),
				logging.Error(err))
		}
		return New(DefaultTable(), logger)
	}
	return New(categories, logger)
}

// Classify maps a file path to exactly one category label. It never fails:
// files with no usable extension or mimetype land in the catch-all category.
func (c *Classifier) Classify(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext != "" {
		if owner, ok := c.owners[ext]; ok {
			return owner
		}
	}
	if label, ok := classifyByMime(ext); ok {
		// A mimetype hit only counts when the configured table carries
		// the target category, so unknown directories never appear.
		if _, exists := c.labels[label]; exists {
			return label
		}
	}
	return CatchAll
}

// Categories returns the ordered category labels, catch-all included.
func (c *Classifier) Categories() []string {
	labels := make([]string, 0, len(c.categories))
	for _, category := range c.categories {
		labels = append(labels, category.Name)
	}
	return labels
}

func classifyByMime(ext string) (string, bool) {
	if ext == "" {
		return "", false
	}
	mimeType := mime.TypeByExtension("." + ext)
	if mimeType == "" {
		return "", false
	}
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	class, _, _ := strings.Cut(mimeType, "/")
	switch class {
	case "image":
		return "Images", true
	case "video":
		return "Videos", true
	case "audio":
		return "Audio", true
	case "text":
		return "Documents", true
	case "application":
		switch {
		case strings.Contains(mimeType, "pdf"):
			return "Documents", true
		case strings.Contains(mimeType, "msword"),
			strings.Contains(mimeType, "office"),
			strings.Contains(mimeType, "document"):
			return "Documents", true
		case strings.Contains(mimeType, "zip"),
			strings.Contains(mimeType, "compressed"),
			strings.Contains(mimeType, "archive"):
			return "Archives", true
		case strings.Contains(mimeType, "executable"),
			strings.Contains(mimeType, "x-app"):
			return "Applications", true
		}
	}
	return "", false
}
