package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/softwarewrighter/scan3data/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "scan3data",
	Short: "Process vintage computer listing and punch card scans",
	Long:  "Ingests scanned document images, deduplicates them by pixel content, and runs each unique image through cleanup filtering, OCR, optional vision-model correction, and classification.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
