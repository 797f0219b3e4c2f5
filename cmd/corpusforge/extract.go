package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hsn0918/corpusforge/internal/extractor"
	"github.com/hsn0918/corpusforge/internal/logger"
	"github.com/hsn0918/corpusforge/internal/pipeline"
	"github.com/hsn0918/corpusforge/internal/record"
)

var (
	extractIn  string
	extractOut string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract section text from raw HTML records",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Named("extract").With(zap.String("run_id", runID))

		r := record.Open[record.Raw](extractIn, log)
		var items []pipeline.Item[record.Raw]
		_, skipped, err := r.Each(func(lineNum int, rec record.Raw) error {
			items = append(items, pipeline.Item[record.Raw]{Line: lineNum, Rec: rec})
			return nil
		})
		if err != nil {
			return fmt.Errorf("extract: read %s: %w", extractIn, err)
		}

		results, err := pipeline.Map(cmd.Context(), cfg.Pipeline.Processes, items,
			func(_ context.Context, _ int, rec record.Raw) (record.Sections, error) {
				return record.Sections{URL: rec.URL, TextList: extractor.Extract(rec.HTML)}, nil
			})
		if err != nil {
			return fmt.Errorf("extract: %w", err)
		}

		w, err := record.Create[record.Sections](extractOut)
		if err != nil {
			return fmt.Errorf("extract: create output: %w", err)
		}
		for _, rec := range results {
			if err := w.Write(rec); err != nil {
				w.Abort()
				return fmt.Errorf("extract: write: %w", err)
			}
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("extract: %w", err)
		}

		log.Info("extract complete", zap.Int("read", len(items)), zap.Int("skipped", skipped))
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractIn, "in", "raw.jsonl", "path to raw HTML records")
	extractCmd.Flags().StringVar(&extractOut, "out", "sections.jsonl", "path to write extracted section records")
	rootCmd.AddCommand(extractCmd)
}
