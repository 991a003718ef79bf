package config

const (
	defaultLogDir              = "~/.local/share/cubby/logs"
	defaultLogRetentionDays    = 60
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultManualFolder        = "Manual"
	defaultReviewFolder        = "Review"
	defaultManualTag           = "Manual"
	defaultManualTagColor      = "red"
	defaultReviewTag           = "Review"
	defaultReviewTagColor      = "blue"
	defaultScanInterval        = 3600
	defaultErrorCooldown       = 60
	defaultReviewThresholdDays = 14
	defaultSimilarityThreshold = 0.65
	defaultMinPrefixLength     = 4
	defaultMinGroupSize        = 2
	defaultWatchDebounce       = 2
	defaultNotifyTimeout       = 10
)

func defaultBundleSuffixes() []string {
	return []string{".app"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WatchedRoots: defaultWatchedRoots(),
			LogDir:       defaultLogDir,
		},
		Special: Special{
			ManualFolder:   defaultManualFolder,
			ReviewFolder:   defaultReviewFolder,
			ManualTag:      defaultManualTag,
			ManualTagColor: defaultManualTagColor,
			ReviewTag:      defaultReviewTag,
			ReviewTagColor: defaultReviewTagColor,
		},
		Organizer: Organizer{
			ScanInterval:        defaultScanInterval,
			ErrorCooldown:       defaultErrorCooldown,
			ReviewThresholdDays: defaultReviewThresholdDays,
			BundleSuffixes:      defaultBundleSuffixes(),
		},
		Grouping: Grouping{
			SimilarityThreshold: defaultSimilarityThreshold,
			MinPrefixLength:     defaultMinPrefixLength,
			MinGroupSize:        defaultMinGroupSize,
		},
		Watch: Watch{
			Enabled:         false,
			DebounceSeconds: defaultWatchDebounce,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
