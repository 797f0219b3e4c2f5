package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/hsn0918/corpusforge/internal/config"
	"github.com/hsn0918/corpusforge/internal/logger"
)

var (
	configDir string
	debug     bool

	cfg   *config.Config
	runID string
)

var rootCmd = &cobra.Command{
	Use:   "corpusforge",
	Short: "Build a BPE-tokenized corpus from a crawled wiki",
	Long: `corpusforge turns raw wiki pages into a byte-pair-encoded corpus:
crawl -> extract -> normalize -> dedup -> segment -> wordfreq -> vocab -> tokenize.

Each stage reads and writes line-delimited JSON record files; run them
individually or chain them with "corpusforge pipeline".`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zapcore.InfoLevel
		if debug {
			level = zapcore.DebugLevel
		}
		if err := logger.InitWithLevel(level); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		loaded, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		runID = uuid.NewString()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing config.yaml")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug-level logging")
}
