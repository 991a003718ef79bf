package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WatchedRoots   []string `toml:"watched_roots"`
	LogDir         string   `toml:"log_dir"`
	CategoriesFile string   `toml:"categories_file"`
}

// Special contains the names and tags of the per-root special folders.
type Special struct {
	ManualFolder   string `toml:"manual_folder"`
	ReviewFolder   string `toml:"review_folder"`
	ManualTag      string `toml:"manual_tag"`
	ManualTagColor string `toml:"manual_tag_color"`
	ReviewTag      string `toml:"review_tag"`
	ReviewTagColor string `toml:"review_tag_color"`
}

// Organizer contains cycle timing and relocation thresholds.
type Organizer struct {
	ScanInterval        int      `toml:"scan_interval"`
	ErrorCooldown       int      `toml:"error_cooldown"`
	ReviewThresholdDays int      `toml:"review_threshold_days"`
	BundleSuffixes      []string `toml:"bundle_suffixes"`
}

// Grouping contains the name-similarity policy knobs.
type Grouping struct {
	SimilarityThreshold float64  `toml:"similarity_threshold"`
	MinPrefixLength     int      `toml:"min_prefix_length"`
	MinGroupSize        int      `toml:"min_group_size"`
	ExtraStopwords      []string `toml:"extra_stopwords"`
}

// Watch contains filesystem event trigger configuration.
type Watch struct {
	Enabled         bool `toml:"enabled"`
	DebounceSeconds int  `toml:"debounce_seconds"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for cubby.
//
// Configuration sections by subsystem:
//   - Paths: watched roots, log directory, optional category table override
//   - Special: Manual/Review folder names and their Finder tags
//   - Organizer: scan interval, error cooldown, review threshold, bundles
//   - Grouping: similarity threshold, prefix length, group size, stopwords
//   - Watch: filesystem event trigger for early scan cycles
//   - Notifications: ntfy push notification settings
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Special       Special       `toml:"special"`
	Organizer     Organizer     `toml:"organizer"`
	Grouping      Grouping      `toml:"grouping"`
	Watch         Watch         `toml:"watch"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cubby/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/cubby/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cubby.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
// Watched roots are created on a best-effort basis so a missing Desktop on a
// headless machine does not block startup; the cycle skips absent roots.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	for _, root := range c.Paths.WatchedRoots {
		_ = os.MkdirAll(root, 0o755)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultWatchedRoots() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return []string{"~/Downloads", "~/Desktop"}
	}
	return []string{filepath.Join(home, "Downloads"), filepath.Join(home, "Desktop")}
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
