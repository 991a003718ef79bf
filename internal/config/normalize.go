package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSpecial()
	c.normalizeOrganizer()
	c.normalizeGrouping()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error

	roots := make([]string, 0, len(c.Paths.WatchedRoots))
	seen := make(map[string]struct{}, len(c.Paths.WatchedRoots))
	for _, root := range c.Paths.WatchedRoots {
		trimmed := strings.TrimSpace(root)
		if trimmed == "" {
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("paths.watched_roots: %w", err)
		}
		if _, exists := seen[expanded]; exists {
			continue
		}
		seen[expanded] = struct{}{}
		roots = append(roots, expanded)
	}
	if len(roots) == 0 {
		for _, root := range defaultWatchedRoots() {
			expanded, err := expandPath(root)
			if err != nil {
				return fmt.Errorf("paths.watched_roots: %w", err)
			}
			roots = append(roots, expanded)
		}
	}
	c.Paths.WatchedRoots = roots

	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	c.Paths.CategoriesFile = strings.TrimSpace(c.Paths.CategoriesFile)
	if c.Paths.CategoriesFile != "" {
		if c.Paths.CategoriesFile, err = expandPath(c.Paths.CategoriesFile); err != nil {
			return fmt.Errorf("paths.categories_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeSpecial() {
	c.Special.ManualFolder = strings.TrimSpace(c.Special.ManualFolder)
	if c.Special.ManualFolder == "" {
		c.Special.ManualFolder = defaultManualFolder
	}
	c.Special.ReviewFolder = strings.TrimSpace(c.Special.ReviewFolder)
	if c.Special.ReviewFolder == "" {
		c.Special.ReviewFolder = defaultReviewFolder
	}
	c.Special.ManualTag = strings.TrimSpace(c.Special.ManualTag)
	if c.Special.ManualTag == "" {
		c.Special.ManualTag = defaultManualTag
	}
	c.Special.ReviewTag = strings.TrimSpace(c.Special.ReviewTag)
	if c.Special.ReviewTag == "" {
		c.Special.ReviewTag = defaultReviewTag
	}
	c.Special.ManualTagColor = strings.ToLower(strings.TrimSpace(c.Special.ManualTagColor))
	if c.Special.ManualTagColor == "" {
		c.Special.ManualTagColor = defaultManualTagColor
	}
	c.Special.ReviewTagColor = strings.ToLower(strings.TrimSpace(c.Special.ReviewTagColor))
	if c.Special.ReviewTagColor == "" {
		c.Special.ReviewTagColor = defaultReviewTagColor
	}
}

func (c *Config) normalizeOrganizer() {
	suffixes := make([]string, 0, len(c.Organizer.BundleSuffixes))
	seen := make(map[string]struct{}, len(c.Organizer.BundleSuffixes))
	for _, suffix := range c.Organizer.BundleSuffixes {
		normalized := strings.ToLower(strings.TrimSpace(suffix))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		suffixes = append(suffixes, normalized)
	}
	if len(suffixes) == 0 {
		suffixes = defaultBundleSuffixes()
	}
	c.Organizer.BundleSuffixes = suffixes
}

func (c *Config) normalizeGrouping() {
	words := make([]string, 0, len(c.Grouping.ExtraStopwords))
	seen := make(map[string]struct{}, len(c.Grouping.ExtraStopwords))
	for _, word := range c.Grouping.ExtraStopwords {
		normalized := strings.ToLower(strings.TrimSpace(word))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		words = append(words, normalized)
	}
	c.Grouping.ExtraStopwords = words
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
