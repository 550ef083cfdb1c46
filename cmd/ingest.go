package main

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/softwarewrighter/scan3data/internal/ingest"
	"github.com/softwarewrighter/scan3data/internal/scanset"
)

var (
	ingestInput  string
	ingestOutput string
	ingestName   string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest scanned images into a new scan set",
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, err := ingest.Run(ingestInput)
		if err != nil {
			return err
		}

		name := ingestName
		if name == "" {
			name = filepath.Base(ingestOutput)
		}

		set, err := scanset.Create(ingestOutput, name, batch.Groups, batch.Representative)
		if err != nil {
			return eris.Wrapf(err, "create scan set at %s", ingestOutput)
		}

		zap.L().Info("ingest complete",
			zap.String("scan_set_id", string(set.Manifest.ScanSetID)),
			zap.String("dir", ingestOutput),
			zap.Int("unique_images", set.Manifest.ImageCount),
			zap.Int("duplicates", set.Manifest.DuplicateCount),
		)
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestInput, "input", "i", "", "input image file or directory (required)")
	ingestCmd.Flags().StringVarP(&ingestOutput, "output", "o", "", "output scan set directory (required)")
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "human-readable scan set name (default: output dir base name)")
	_ = ingestCmd.MarkFlagRequired("input")
	_ = ingestCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(ingestCmd)
}
