package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/softwarewrighter/scan3data/internal/history"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent pipeline runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.History.Enabled {
			return eris.New("run history is disabled in config")
		}

		h, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer h.Close() //nolint:errcheck

		if err := h.Migrate(cmd.Context()); err != nil {
			return err
		}

		runs, err := h.ListRuns(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}

		for _, run := range runs {
			line := fmt.Sprintf("%s  %-8s  %s  %s",
				run.CreatedAt.Format("2006-01-02 15:04:05"), run.Status, run.ID, run.Dir)
			if run.Result != nil {
				line += fmt.Sprintf("  processed=%d skipped=%d extracted=%d corrected=%d (%dms)",
					run.Result.Processed, run.Result.Skipped, run.Result.Extracted,
					run.Result.Corrected, run.Result.DurationMS)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "max runs to list")
	rootCmd.AddCommand(runsCmd)
}
