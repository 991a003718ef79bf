package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cubby/internal/logging"
	"cubby/internal/organize"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one scan cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			engine := organize.New(cfg, logger)
			report, runErr := engine.RunCycle(cmd.Context())

			stdout := cmd.OutOrStdout()
			if report != nil {
				fmt.Fprintln(stdout, renderCycleSummary(report))
				if report.Errors > 0 {
					fmt.Fprintf(stdout, "%d items could not be organized; see the log for details\n", report.Errors)
				}
			}
			return runErr
		},
	}
}

func renderCycleSummary(report *organize.CycleReport) string {
	rows := [][]string{
		{"Examined", strconv.Itoa(report.Examined)},
		{"Files moved", strconv.Itoa(report.FilesMoved)},
		{"Folders moved", strconv.Itoa(report.FoldersMoved)},
		{"Groups created", strconv.Itoa(report.GroupsCreated)},
		{"Moved for review", strconv.Itoa(report.ReviewMoves)},
		{"Folders pruned", strconv.Itoa(report.FoldersPruned)},
		{"Skipped", strconv.Itoa(report.Skipped)},
		{"Errors", strconv.Itoa(report.Errors)},
		{"Duration", report.Duration.Round(time.Millisecond).String()},
	}
	return renderTable([]tableColumn{
		{header: "Metric"},
		{header: "Value", alignRight: true},
	}, rows)
}
