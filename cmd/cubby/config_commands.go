package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cubby/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit watched_roots to point at the folders cubby should keep tidy.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			source := ctx.configPath
			if !ctx.configExists {
				source += " (not found; defaults in effect)"
			}

			categories := cfg.Paths.CategoriesFile
			if categories == "" {
				categories = "(built-in table)"
			}
			topic := cfg.Notifications.NtfyTopic
			if strings.TrimSpace(topic) == "" {
				topic = "(disabled)"
			}

			rows := [][]string{
				{"Config file", source},
				{"Watched roots", strings.Join(cfg.Paths.WatchedRoots, ", ")},
				{"Log directory", cfg.Paths.LogDir},
				{"Categories file", categories},
				{"Manual folder", fmt.Sprintf("%s (tag %s/%s)", cfg.Special.ManualFolder, cfg.Special.ManualTag, cfg.Special.ManualTagColor)},
				{"Review folder", fmt.Sprintf("%s (tag %s/%s)", cfg.Special.ReviewFolder, cfg.Special.ReviewTag, cfg.Special.ReviewTagColor)},
				{"Scan interval", fmt.Sprintf("%ds", cfg.Organizer.ScanInterval)},
				{"Error cooldown", fmt.Sprintf("%ds", cfg.Organizer.ErrorCooldown)},
				{"Review threshold", fmt.Sprintf("%d days", cfg.Organizer.ReviewThresholdDays)},
				{"Bundle suffixes", strings.Join(cfg.Organizer.BundleSuffixes, ", ")},
				{"Similarity threshold", fmt.Sprintf("%.2f", cfg.Grouping.SimilarityThreshold)},
				{"Min prefix length", fmt.Sprintf("%d", cfg.Grouping.MinPrefixLength)},
				{"Min group size", fmt.Sprintf("%d", cfg.Grouping.MinGroupSize)},
				{"Watch mode", yesNo(cfg.Watch.Enabled)},
				{"Watch debounce", fmt.Sprintf("%ds", cfg.Watch.DebounceSeconds)},
				{"Ntfy topic", topic},
				{"Log format", cfg.Logging.Format},
				{"Log level", cfg.Logging.Level},
				{"Log retention", fmt.Sprintf("%d days", cfg.Logging.RetentionDays)},
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]tableColumn{
				{header: "Setting"},
				{header: "Value"},
			}, rows))
			return nil
		},
	}
}
