package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"cubby/internal/config"
	"cubby/internal/deps"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon, dependency, and watched root status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("Daemon", colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout, daemonStatusLine(cfg, colorize))
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range dependencyLines(colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Watched Roots", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range rootLines(cfg, colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range configLines(ctx, cfg, colorize) {
				fmt.Fprintln(stdout, line)
			}
			return nil
		},
	}
}

// daemonStatusLine probes the single-instance lock: a lock that cannot be
// acquired means a daemon holds it.
func daemonStatusLine(cfg *config.Config, colorize bool) string {
	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "cubbyd.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		if os.IsNotExist(err) {
			return renderStatusLine("Daemon", statusWarn, "not running", colorize)
		}
		return renderStatusLine("Daemon", statusWarn, fmt.Sprintf("state unknown (%v)", err), colorize)
	}
	if ok {
		_ = lock.Unlock()
		return renderStatusLine("Daemon", statusWarn, "not running", colorize)
	}

	detail := "running"
	if pid, since, err := readPIDFile(filepath.Join(cfg.Paths.LogDir, "cubby.pid")); err == nil {
		detail = fmt.Sprintf("running (pid %d, started %s)", pid, humanize.Time(since))
	}
	return renderStatusLine("Daemon", statusOK, detail, colorize)
}

func readPIDFile(path string) (int, time.Time, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, time.Time{}, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("parse pid file: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, time.Time{}, err
	}
	return pid, info.ModTime(), nil
}

func dependencyLines(colorize bool) []string {
	statuses := deps.CheckBinaries(deps.Defaults())
	lines := make([]string, 0, len(statuses))
	for _, status := range statuses {
		if status.Available {
			lines = append(lines, renderStatusLine(status.Name, statusOK,
				fmt.Sprintf("ready (command: %s)", status.Command), colorize))
			continue
		}

		detail := status.Detail
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if status.Optional {
			kind = statusWarn
			detail += " (optional)"
		}
		lines = append(lines, renderStatusLine(status.Name, kind, detail, colorize))
	}
	return lines
}

func rootLines(cfg *config.Config, colorize bool) []string {
	lines := make([]string, 0, len(cfg.Paths.WatchedRoots))
	for _, root := range cfg.Paths.WatchedRoots {
		entries, err := os.ReadDir(root)
		if err != nil {
			lines = append(lines, renderStatusLine(filepath.Base(root), statusWarn,
				fmt.Sprintf("missing (%s)", root), colorize))
			continue
		}
		visible := 0
		for _, entry := range entries {
			if !strings.HasPrefix(entry.Name(), ".") {
				visible++
			}
		}
		lines = append(lines, renderStatusLine(filepath.Base(root), statusOK,
			fmt.Sprintf("%s (%d entries)", root, visible), colorize))
	}
	return lines
}

func configLines(ctx *commandContext, cfg *config.Config, colorize bool) []string {
	configDetail := ctx.configPath
	if !ctx.configExists {
		configDetail += " (not found; defaults in effect)"
	}

	threshold := "disabled"
	if cfg.Organizer.ReviewThresholdDays > 0 {
		threshold = fmt.Sprintf("%d days", cfg.Organizer.ReviewThresholdDays)
	}

	interval := time.Duration(cfg.Organizer.ScanInterval) * time.Second
	return []string{
		renderStatusLine("Config file", statusInfo, configDetail, colorize),
		renderStatusLine("Scan interval", statusInfo, interval.String(), colorize),
		renderStatusLine("Review threshold", statusInfo, threshold, colorize),
		renderStatusLine("Watch mode", statusInfo, yesNo(cfg.Watch.Enabled), colorize),
		renderStatusLine("Notifications", statusInfo,
			yesNo(strings.TrimSpace(cfg.Notifications.NtfyTopic) != ""), colorize),
	}
}
