package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cubby/internal/config"
	"cubby/internal/logging"
	"cubby/internal/organize"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Preview the next scan cycle without moving anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			engine := organize.New(cfg, logging.NewNop())
			report, err := engine.PlanCycle(cmd.Context())
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			if len(report.Moves) == 0 {
				fmt.Fprintln(stdout, "Nothing to do; the watched roots are tidy")
				return nil
			}

			rows := make([][]string, 0, len(report.Moves))
			for _, move := range report.Moves {
				rows = append(rows, []string{
					move.Reason,
					displayPath(cfg, move.Source),
					itemSize(move.Source),
					planDestination(cfg, move),
				})
			}
			fmt.Fprintln(stdout, renderTable([]tableColumn{
				{header: "Action"},
				{header: "Item"},
				{header: "Size", alignRight: true},
				{header: "Destination"},
			}, rows))

			fmt.Fprintf(stdout, "%d items would be organized, %d moved for review, %d empty folders removed\n",
				report.FilesMoved+report.FoldersMoved, report.ReviewMoves, report.FoldersPruned)
			return nil
		},
	}
}

// displayPath shortens an absolute path to <root name>/<relative> when the
// path sits under a watched root, so multi-root plans stay readable.
func displayPath(cfg *config.Config, path string) string {
	for _, root := range cfg.Paths.WatchedRoots {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.Join(filepath.Base(root), rel)
		}
	}
	return path
}

func itemSize(path string) string {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "-"
	}
	return humanize.Bytes(uint64(info.Size()))
}

func planDestination(cfg *config.Config, move organize.Move) string {
	if move.Reason == organize.ReasonPrune {
		return "(remove empty folder)"
	}
	if move.Dest == "" {
		return "-"
	}
	return displayPath(cfg, move.Dest)
}
