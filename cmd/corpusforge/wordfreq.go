package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hsn0918/corpusforge/internal/logger"
	"github.com/hsn0918/corpusforge/internal/pipeline"
	"github.com/hsn0918/corpusforge/internal/record"
	"github.com/hsn0918/corpusforge/internal/wordfreq"
)

var (
	wordfreqIn  string
	wordfreqOut string
)

var wordfreqCmd = &cobra.Command{
	Use:   "wordfreq",
	Short: "Build a word frequency table from segmented sentences",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Named("wordfreq").With(zap.String("run_id", runID))

		r := record.Open[record.Sentences](wordfreqIn, log)
		var items []pipeline.Item[record.Sentences]
		_, skipped, err := r.Each(func(lineNum int, rec record.Sentences) error {
			items = append(items, pipeline.Item[record.Sentences]{Line: lineNum, Rec: rec})
			return nil
		})
		if err != nil {
			return fmt.Errorf("wordfreq: read %s: %w", wordfreqIn, err)
		}

		partials, err := pipeline.Map(cmd.Context(), cfg.Pipeline.Processes, items,
			func(_ context.Context, _ int, rec record.Sentences) (wordfreq.Dict, error) {
				d := wordfreq.New()
				d.AddRecord(rec)
				return d, nil
			})
		if err != nil {
			return fmt.Errorf("wordfreq: %w", err)
		}

		total := wordfreq.New()
		for _, partial := range partials {
			total.Merge(partial)
		}

		if err := wordfreq.Save(total, wordfreqOut); err != nil {
			return fmt.Errorf("wordfreq: %w", err)
		}

		log.Info("wordfreq complete", zap.Int("read", len(items)), zap.Int("skipped", skipped),
			zap.Int("distinct_words", len(total)))
		return nil
	},
}

func init() {
	wordfreqCmd.Flags().StringVar(&wordfreqIn, "in", "sentences.jsonl", "path to sentence records")
	wordfreqCmd.Flags().StringVar(&wordfreqOut, "out", "wordfreq.json", "path to write the word frequency table")
	rootCmd.AddCommand(wordfreqCmd)
}
