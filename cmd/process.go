package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	processScanSet     string
	processCorrect     bool
	processLLMClassify bool
	processConcurrency int
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the artifact pipeline over a scan set",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if processConcurrency > 0 {
			cfg.Pipeline.Concurrency = processConcurrency
		}
		if processLLMClassify {
			cfg.Pipeline.LLMClassify = true
		}

		env, err := initPipeline(ctx, processCorrect)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Pipeline.Run(ctx, processScanSet)
		if err != nil {
			return err
		}

		zap.L().Info("process complete",
			zap.Int("artifacts", result.Artifacts),
			zap.Int("processed", result.Processed),
			zap.Int("skipped", result.Skipped),
			zap.Int("extracted", result.Extracted),
			zap.Int("corrected", result.Corrected),
		)
		return nil
	},
}

func init() {
	processCmd.Flags().StringVarP(&processScanSet, "scan-set", "s", "", "scan set directory (required)")
	processCmd.Flags().BoolVar(&processCorrect, "correct", false, "enable vision-model OCR correction")
	processCmd.Flags().BoolVar(&processLLMClassify, "llm-classify", false, "classify with the text model instead of the length heuristic")
	processCmd.Flags().IntVar(&processConcurrency, "concurrency", 0, "worker count (default from config)")
	_ = processCmd.MarkFlagRequired("scan-set")
	rootCmd.AddCommand(processCmd)
}
