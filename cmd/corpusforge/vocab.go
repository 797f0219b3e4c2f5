package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hsn0918/corpusforge/internal/bpe"
	"github.com/hsn0918/corpusforge/internal/logger"
	"github.com/hsn0918/corpusforge/internal/wordfreq"
)

var (
	vocabIn  string
	vocabOut string
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Induce a byte-pair-encoding vocabulary from a word frequency table",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Named("vocab").With(zap.String("run_id", runID))

		freqs, err := wordfreq.Load(vocabIn)
		if err != nil {
			return fmt.Errorf("vocab: %w", err)
		}

		v := bpe.NewVocab(freqs)
		startSize := v.Size()

		if err := v.Induce(cmd.Context(), cfg.BPE.TargetVocabSize, cfg.Pipeline.Processes); err != nil {
			return fmt.Errorf("vocab: %w", err)
		}

		if err := bpe.SaveVocab(v, vocabOut); err != nil {
			return fmt.Errorf("vocab: %w", err)
		}

		log.Info("vocab induction complete",
			zap.Int("start_size", startSize), zap.Int("final_size", v.Size()),
			zap.Int("target_size", cfg.BPE.TargetVocabSize))
		return nil
	},
}

func init() {
	vocabCmd.Flags().StringVar(&vocabIn, "in", "wordfreq.json", "path to the word frequency table")
	vocabCmd.Flags().StringVar(&vocabOut, "out", "vocab.json", "path to write the induced vocabulary")
	rootCmd.AddCommand(vocabCmd)
}
