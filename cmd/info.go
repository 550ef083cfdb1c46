package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/softwarewrighter/scan3data/internal/report"
	"github.com/softwarewrighter/scan3data/internal/scanset"
)

var infoScanSet string

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show manifest and artifact counts for a scan set",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := scanset.Load(infoScanSet)
		if err != nil {
			return err
		}

		m := set.Manifest
		fmt.Printf("Scan set:   %s (%s)\n", m.Name, m.ScanSetID)
		fmt.Printf("Created:    %s\n", m.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Printf("Images:     %d unique of %d scanned (%d duplicates)\n",
			m.ImageCount, m.OriginalFileCount, m.DuplicateCount)

		data := report.Build(set)
		withText := 0
		for _, a := range data.Artifacts {
			if a.HasText {
				withText++
			}
		}
		fmt.Printf("With text:  %d of %d\n", withText, len(data.Artifacts))
		fmt.Println("Labels:")
		for _, lc := range data.LabelCounts {
			fmt.Printf("  %-16s %d\n", lc.Label, lc.Count)
		}
		return nil
	},
}

func init() {
	infoCmd.Flags().StringVarP(&infoScanSet, "scan-set", "s", "", "scan set directory (required)")
	_ = infoCmd.MarkFlagRequired("scan-set")
	rootCmd.AddCommand(infoCmd)
}
