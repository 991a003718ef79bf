package config

import (
	"errors"
	"fmt"
	"strings"
)

// tagColors are the color names understood by the tag command.
var tagColors = map[string]struct{}{
	"none": {}, "gray": {}, "green": {}, "purple": {},
	"blue": {}, "yellow": {}, "red": {}, "orange": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSpecial(); err != nil {
		return err
	}
	if err := c.validateOrganizer(); err != nil {
		return err
	}
	if err := c.validateGrouping(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if len(c.Paths.WatchedRoots) == 0 {
		return errors.New("paths.watched_roots must include at least one directory")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateSpecial() error {
	for key, name := range map[string]string{
		"special.manual_folder": c.Special.ManualFolder,
		"special.review_folder": c.Special.ReviewFolder,
	} {
		if strings.ContainsAny(name, "/\\") {
			return fmt.Errorf("%s must be a bare folder name, not a path", key)
		}
	}
	if strings.EqualFold(c.Special.ManualFolder, c.Special.ReviewFolder) {
		return errors.New("special.manual_folder and special.review_folder must differ")
	}
	for key, color := range map[string]string{
		"special.manual_tag_color": c.Special.ManualTagColor,
		"special.review_tag_color": c.Special.ReviewTagColor,
	} {
		if _, ok := tagColors[color]; !ok {
			return fmt.Errorf("%s must be one of none, gray, green, purple, blue, yellow, red, orange", key)
		}
	}
	return nil
}

func (c *Config) validateOrganizer() error {
	if err := ensurePositiveMap(map[string]int{
		"organizer.scan_interval":         c.Organizer.ScanInterval,
		"organizer.error_cooldown":        c.Organizer.ErrorCooldown,
		"organizer.review_threshold_days": c.Organizer.ReviewThresholdDays,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGrouping() error {
	if c.Grouping.SimilarityThreshold <= 0 || c.Grouping.SimilarityThreshold > 1 {
		return errors.New("grouping.similarity_threshold must be between 0 and 1")
	}
	if c.Grouping.MinPrefixLength < 1 {
		return errors.New("grouping.min_prefix_length must be positive")
	}
	if c.Grouping.MinGroupSize < 2 {
		return errors.New("grouping.min_group_size must be at least 2")
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.Enabled && c.Watch.DebounceSeconds <= 0 {
		return errors.New("watch.debounce_seconds must be positive when watch.enabled is true")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive (seconds)")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
