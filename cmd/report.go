package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/softwarewrighter/scan3data/internal/report"
	"github.com/softwarewrighter/scan3data/internal/scanset"
)

var (
	reportScanSet string
	reportFormat  string
	reportOutput  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a scan set summary as text or HTML",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := scanset.Load(reportScanSet)
		if err != nil {
			return err
		}

		out := os.Stdout
		if reportOutput != "" {
			f, err := os.Create(reportOutput)
			if err != nil {
				return eris.Wrapf(err, "create %s", reportOutput)
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		switch reportFormat {
		case "text", "":
			return report.RenderText(out, set)
		case "html":
			return report.RenderHTML(out, set)
		default:
			return eris.Errorf("unknown report format %q", reportFormat)
		}
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportScanSet, "scan-set", "s", "", "scan set directory (required)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "text", "output format: text or html")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output file (default stdout)")
	_ = reportCmd.MarkFlagRequired("scan-set")
	rootCmd.AddCommand(reportCmd)
}
